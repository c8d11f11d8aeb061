package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/validation"
)

const (
	socketReadLimit  = 64 << 10
	socketWriteWait  = 10 * time.Second
	socketIdleWindow = 5 * time.Minute
)

// SocketMessage is a client frame on /ws/preview. Language falls back to the
// ?lang query parameter.
type SocketMessage struct {
	Language string           `json:"language,omitempty"`
	Values   model.FormValues `json:"values"`
}

// SocketReply is a server frame: either a preview or an error.
type SocketReply struct {
	Kind    string                `json:"kind"`
	Preview *orchestrator.Preview `json:"preview,omitempty"`
	Error   string                `json:"error,omitempty"`
	Code    string                `json:"code,omitempty"`
	Issues  []validation.Issue    `json:"issues,omitempty"`
}

// previewSocket regenerates the preview for every values frame it receives.
// One connection drives one document type.
func (s *Server) previewSocket(c *gin.Context) {
	doc, ok := s.documentType(c)
	if !ok {
		return
	}
	defaultLang, err := s.language(c.Query("lang"))
	if err != nil {
		s.fail(c, err)
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "request_id", c.GetString(requestIDKey), "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(socketReadLimit)
	ctx := c.Request.Context()
	for {
		_ = conn.SetReadDeadline(time.Now().Add(socketIdleWindow))
		var msg SocketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read ended", "type", doc.Key, "error", err)
			}
			return
		}

		reply := s.socketPreview(c, doc, defaultLang, msg)
		_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Debug("websocket write failed", "type", doc.Key, "error", err)
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (s *Server) socketPreview(c *gin.Context, doc model.DocumentType, fallback model.Language, msg SocketMessage) SocketReply {
	lang := fallback
	if msg.Language != "" {
		parsed, err := model.ParseLanguage(msg.Language)
		if err != nil {
			_, code := classifyError(err)
			return SocketReply{Kind: "error", Error: err.Error(), Code: code}
		}
		lang = parsed
	}
	if issues := validation.ValidateValues(doc, msg.Values); len(issues) > 0 {
		return SocketReply{Kind: "error", Error: "values do not match the document schema", Code: CodeInvalidValues, Issues: issues}
	}

	result, err := s.orch.Preview(c.Request.Context(), orchestrator.Request{Type: doc.Key, Language: lang, Values: msg.Values})
	if err != nil {
		status, code := classifyError(err)
		text := err.Error()
		if status >= http.StatusInternalServerError {
			s.logger.Error("websocket preview failed", "type", doc.Key, "error", err)
			text = http.StatusText(status)
		}
		return SocketReply{Kind: "error", Error: text, Code: code}
	}
	return SocketReply{Kind: "preview", Preview: &result}
}
