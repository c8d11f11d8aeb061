package server

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/drafts"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/validation"
)

// TypeSummary is one entry of GET /api/types.
type TypeSummary struct {
	Key         model.DocumentTypeKey `json:"key"`
	Category    model.Category        `json:"category"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
}

// OptionView is a select/radio option in the chosen language.
type OptionView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldView is a field in the chosen language.
type FieldView struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Kind        model.FieldKind `json:"kind"`
	Required    bool            `json:"required,omitempty"`
	ReadOnly    bool            `json:"readOnly,omitempty"`
	MaxLength   int             `json:"maxLength,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Options     []OptionView    `json:"options,omitempty"`
}

// SectionView groups fields under a localised title.
type SectionView struct {
	Key    string      `json:"key,omitempty"`
	Title  string      `json:"title,omitempty"`
	Fields []FieldView `json:"fields"`
}

// TypeDetail is the body of GET /api/types/:type.
type TypeDetail struct {
	TypeSummary
	Language model.Language `json:"language"`
	Sections []SectionView  `json:"sections"`
}

// DocumentRequest is the body of preview, export and draft writes.
type DocumentRequest struct {
	Language string           `json:"language"`
	Values   model.FormValues `json:"values"`
}

// DraftResponse is the body of draft reads and writes.
type DraftResponse struct {
	Type   model.DocumentTypeKey `json:"type"`
	Values model.FormValues      `json:"values"`
}

func (s *Server) language(raw string) (model.Language, error) {
	if strings.TrimSpace(raw) == "" {
		return s.lang, nil
	}
	return model.ParseLanguage(raw)
}

func (s *Server) documentType(c *gin.Context) (model.DocumentType, bool) {
	key := model.DocumentTypeKey(c.Param("type"))
	doc, ok := s.orch.Catalog().Type(key)
	if !ok {
		s.fail(c, fmt.Errorf("%w: %q", catalog.ErrUnknownDocumentType, key))
		return model.DocumentType{}, false
	}
	return doc, true
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"types":     len(s.orch.Catalog().Keys()),
		"renderers": s.orch.Registry().List(),
	})
}

func (s *Server) listTypes(c *gin.Context) {
	lang, err := s.language(c.Query("lang"))
	if err != nil {
		s.fail(c, err)
		return
	}
	types := s.orch.Catalog().Types()
	out := make([]TypeSummary, 0, len(types))
	for _, doc := range types {
		out = append(out, summary(doc, lang))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getType(c *gin.Context) {
	lang, err := s.language(c.Query("lang"))
	if err != nil {
		s.fail(c, err)
		return
	}
	doc, ok := s.documentType(c)
	if !ok {
		return
	}

	detail := TypeDetail{TypeSummary: summary(doc, lang), Language: lang}
	for _, group := range s.orch.Catalog().Grouped(doc.Key) {
		section := SectionView{
			Key:    group.Section.Key,
			Title:  group.Section.Title.Get(lang),
			Fields: make([]FieldView, 0, len(group.Fields)),
		}
		for _, field := range group.Fields {
			section.Fields = append(section.Fields, fieldView(field, lang))
		}
		detail.Sections = append(detail.Sections, section)
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) getSchema(c *gin.Context) {
	doc, ok := s.documentType(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, validation.SchemaFor(doc))
}

// bindDocument decodes the body and checks it against the value schema.
func (s *Server) bindDocument(c *gin.Context, doc model.DocumentType) (orchestrator.Request, bool) {
	var body DocumentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, fmt.Errorf("decode body: %w", err))
		return orchestrator.Request{}, false
	}
	lang, err := s.language(body.Language)
	if err != nil {
		s.fail(c, err)
		return orchestrator.Request{}, false
	}
	if issues := validation.ValidateValues(doc, body.Values); len(issues) > 0 {
		s.invalidValues(c, issues)
		return orchestrator.Request{}, false
	}
	return orchestrator.Request{Type: doc.Key, Language: lang, Values: body.Values}, true
}

func (s *Server) preview(c *gin.Context) {
	doc, ok := s.documentType(c)
	if !ok {
		return
	}
	req, ok := s.bindDocument(c, doc)
	if !ok {
		return
	}
	result, err := s.orch.Preview(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) export(c *gin.Context) {
	doc, ok := s.documentType(c)
	if !ok {
		return
	}
	req, ok := s.bindDocument(c, doc)
	if !ok {
		return
	}
	req.Renderer = c.Param("format")

	if !forced(c.Query("force")) {
		advice, err := s.orch.Advise(doc.Key, req.Values, req.Language)
		if err != nil {
			s.fail(c, err)
			return
		}
		if !advice.Ready() {
			c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{
				Error:     advice.Message,
				Code:      CodeNotReady,
				RequestID: c.GetString(requestIDKey),
				Advice:    &advice,
			})
			return
		}
	}

	artifact, err := s.orch.Export(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.FileName}))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Bytes)
}

func (s *Server) getDraft(c *gin.Context) {
	doc, ok := s.documentType(c)
	if !ok {
		return
	}
	values, err := drafts.Load(c.Request.Context(), s.drafts, doc.Key, s.logger)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DraftResponse{Type: doc.Key, Values: values})
}

func (s *Server) putDraft(c *gin.Context) {
	doc, ok := s.documentType(c)
	if !ok {
		return
	}
	req, ok := s.bindDocument(c, doc)
	if !ok {
		return
	}
	values := req.Values.Clone()
	if err := drafts.Save(c.Request.Context(), s.drafts, doc.Key, values); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DraftResponse{Type: doc.Key, Values: values})
}

func (s *Server) deleteDraft(c *gin.Context) {
	doc, ok := s.documentType(c)
	if !ok {
		return
	}
	if err := s.drafts.Delete(c.Request.Context(), drafts.Key(doc.Key)); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func summary(doc model.DocumentType, lang model.Language) TypeSummary {
	return TypeSummary{
		Key:         doc.Key,
		Category:    doc.Category,
		Name:        doc.Name.Get(lang),
		Description: doc.Description.Get(lang),
	}
}

func fieldView(field model.FieldDescriptor, lang model.Language) FieldView {
	view := FieldView{
		ID:          field.ID,
		Label:       field.Label.Get(lang),
		Kind:        field.Kind,
		Required:    field.Required,
		ReadOnly:    field.ReadOnly,
		MaxLength:   field.MaxLength,
		Placeholder: field.Placeholder.Get(lang),
	}
	for _, opt := range field.Options {
		view.Options = append(view.Options, OptionView{Value: opt.Value, Label: opt.Label.Get(lang)})
	}
	return view
}

func forced(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
