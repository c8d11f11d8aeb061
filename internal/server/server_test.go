package server

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-legaldocs/pkg/drafts"
	"github.com/goliatone/go-legaldocs/pkg/generator"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/testsupport"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var ndaValues = model.FormValues{
	"partyOneName":  "Acme Inc",
	"partyTwoName":  "Beta LLC",
	"purpose":       "a potential partnership",
	"effectiveDate": "2024-01-01",
	"duration":      "5",
}

func newServer(t *testing.T, options ...Option) *Server {
	t.Helper()
	orch, err := orchestrator.New(orchestrator.WithClock(generator.FixedClock(testsupport.FixedTime)))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	srv, err := New(orch, options...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthAndRequestID(t *testing.T) {
	srv := newServer(t)
	rec := do(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("incoming request id should be echoed, got %q", got)
	}
}

func TestListTypesLocalised(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/api/types?lang=ta", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	types := decode[[]TypeSummary](t, rec)
	var nda TypeSummary
	for _, item := range types {
		if item.Key == "nda" {
			nda = item
		}
	}
	if nda.Name != "ரகசியத்தன்மை ஒப்பந்தம்" {
		t.Fatalf("expected tamil nda name, got %+v", nda)
	}
}

func TestGetTypeGroupsFields(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/api/types/rental-agreement", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	detail := decode[TypeDetail](t, rec)
	var keys []string
	fields := map[string]FieldView{}
	for _, section := range detail.Sections {
		keys = append(keys, section.Key)
		for _, field := range section.Fields {
			fields[field.ID] = field
		}
	}
	if diff := cmp.Diff([]string{"parties", "term", "premises", "costs"}, keys); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}
	if fields["landlordName"].MaxLength != 25 || !fields["termDuration"].ReadOnly {
		t.Fatalf("unexpected field views %+v %+v", fields["landlordName"], fields["termDuration"])
	}
	if len(fields["paymentMethod"].Options) != 4 {
		t.Fatalf("expected payment options, got %+v", fields["paymentMethod"].Options)
	}
}

func TestErrorMapping(t *testing.T) {
	srv := newServer(t)
	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown type", http.MethodGet, "/api/types/lease", nil, http.StatusNotFound, CodeUnknownType},
		{"unknown language", http.MethodGet, "/api/types?lang=fr", nil, http.StatusBadRequest, CodeInvalidLanguage},
		{"body language", http.MethodPost, "/api/types/nda/preview", DocumentRequest{Language: "fr"}, http.StatusBadRequest, CodeInvalidLanguage},
		{"unknown format", http.MethodPost, "/api/types/nda/export/rtf", DocumentRequest{Values: ndaValues}, http.StatusNotFound, CodeUnknownFormat},
		{"tamil pdf without font", http.MethodPost, "/api/types/nda/export/pdf", DocumentRequest{Language: "ta", Values: ndaValues}, http.StatusUnprocessableEntity, CodeFontUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, tc.method, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.status, rec.Body.String())
			}
			body := decode[ErrorResponse](t, rec)
			if body.Code != tc.code || body.Error == "" || body.RequestID == "" {
				t.Fatalf("unexpected error body %+v", body)
			}
		})
	}
}

func TestSchemaRoute(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/api/types/rental-agreement/schema", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var schema struct {
		Type       any `json:"type"`
		Properties map[string]struct {
			MaxLength *int `json:"maxLength"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &schema); err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	if got := schema.Properties["landlordName"].MaxLength; got == nil || *got != 25 {
		t.Fatalf("landlordName maxLength = %v", got)
	}
}

func TestPreviewRoute(t *testing.T) {
	srv := newServer(t)
	rec := do(t, srv, http.MethodPost, "/api/types/nda/preview", DocumentRequest{Values: model.FormValues{"partyOneName": "Acme Inc"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	preview := decode[orchestrator.Preview](t, rec)
	if !strings.HasPrefix(preview.Text, "NON-DISCLOSURE AGREEMENT") {
		t.Fatalf("unexpected text %q", preview.Text)
	}
	if preview.Advice.Ready() || !strings.HasPrefix(preview.Advice.Message, "Please fill the required fields: ") {
		t.Fatalf("missing fields should be advised, got %+v", preview.Advice)
	}

	long := strings.Repeat("அ", 26)
	rec = do(t, srv, http.MethodPost, "/api/types/rental-agreement/preview", DocumentRequest{Values: model.FormValues{"landlordName": long}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("over-long value should be rejected, got %d", rec.Code)
	}
	body := decode[ErrorResponse](t, rec)
	if len(body.Issues) == 0 || body.Issues[0].Field != "landlordName" {
		t.Fatalf("expected a landlordName issue, got %+v", body.Issues)
	}
}

func TestExportRoute(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodPost, "/api/types/nda/export/text", DocumentRequest{Values: ndaValues})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("parse disposition: %v", err)
	}
	if params["filename"] != "Non-Disclosure Agreement.txt" {
		t.Fatalf("filename = %q", params["filename"])
	}
	if !strings.HasPrefix(rec.Body.String(), "NON-DISCLOSURE AGREEMENT (Mutual)\n") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	partial := DocumentRequest{Values: model.FormValues{"partyOneName": "Acme Inc"}}
	rec = do(t, srv, http.MethodPost, "/api/types/nda/export/docx", partial)
	if rec.Code != http.StatusConflict {
		t.Fatalf("incomplete export should conflict, got %d", rec.Code)
	}
	body := decode[ErrorResponse](t, rec)
	if body.Code != CodeNotReady || body.Advice == nil || len(body.Advice.Missing) != 4 {
		t.Fatalf("unexpected conflict body %+v", body)
	}

	rec = do(t, srv, http.MethodPost, "/api/types/nda/export/docx?force=1", partial)
	if rec.Code != http.StatusOK {
		t.Fatalf("forced export status = %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatal("docx export should be a zip package")
	}
}

func TestDraftRoutes(t *testing.T) {
	store, err := drafts.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	srv := newServer(t, WithDraftStore(store))

	rec := do(t, srv, http.MethodGet, "/api/drafts/nda", nil)
	if got := decode[DraftResponse](t, rec); rec.Code != http.StatusOK || len(got.Values) != 0 {
		t.Fatalf("fresh draft should be empty, got %d %+v", rec.Code, got)
	}

	rec = do(t, srv, http.MethodPut, "/api/drafts/nda", DocumentRequest{Values: model.FormValues{"purpose": "research"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/api/drafts/nda", nil)
	got := decode[DraftResponse](t, rec)
	if diff := cmp.Diff(model.FormValues{"purpose": "research"}, got.Values); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, srv, http.MethodDelete, "/api/drafts/nda", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/api/drafts/nda", nil)
	if got := decode[DraftResponse](t, rec); len(got.Values) != 0 {
		t.Fatalf("deleted draft should read empty, got %+v", got.Values)
	}

	rec = do(t, srv, http.MethodGet, "/api/drafts/lease", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown type draft status = %d", rec.Code)
	}
}

func TestPreviewSocket(t *testing.T) {
	ts := httptest.NewServer(newServer(t).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/preview/nda?lang=en"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(SocketMessage{Values: ndaValues}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply SocketReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Kind != "preview" || reply.Preview == nil || !reply.Preview.Advice.Ready() {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if !strings.Contains(reply.Preview.HTML, "<strong>a potential partnership</strong>") {
		t.Fatal("expected emphasised value in preview html")
	}

	if err := conn.WriteJSON(SocketMessage{Language: "fr"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply = SocketReply{}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Kind != "error" || reply.Code != CodeInvalidLanguage {
		t.Fatalf("expected language error, got %+v", reply)
	}
}

func TestPreviewSocketRejectsInvalidValues(t *testing.T) {
	ts := httptest.NewServer(newServer(t).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/preview/rental-agreement"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	long := strings.Repeat("அ", 26)
	if err := conn.WriteJSON(SocketMessage{Values: model.FormValues{"landlordName": long}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply SocketReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Kind != "error" || reply.Code != CodeInvalidValues || reply.Preview != nil {
		t.Fatalf("expected a values error, got %+v", reply)
	}
	if len(reply.Issues) == 0 || reply.Issues[0].Field != "landlordName" {
		t.Fatalf("expected a landlordName issue, got %+v", reply.Issues)
	}

	if err := conn.WriteJSON(SocketMessage{Values: model.FormValues{"landlordName": "Ravi"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply = SocketReply{}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Kind != "preview" || reply.Preview == nil {
		t.Fatalf("expected the connection to keep serving previews, got %+v", reply)
	}
}
