package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/drafts"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/render"
	"github.com/goliatone/go-legaldocs/pkg/renderers/pdf"
	"github.com/goliatone/go-legaldocs/pkg/validation"
)

// Error codes returned in the "code" member of error bodies.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnknownType     = "UNKNOWN_TYPE"
	CodeInvalidLanguage = "INVALID_LANGUAGE"
	CodeUnknownFormat   = "UNKNOWN_FORMAT"
	CodeInvalidValues   = "INVALID_VALUES"
	CodeNotReady        = "REQUIRED_FIELDS_MISSING"
	CodeEmptyDocument   = "EMPTY_DOCUMENT"
	CodeFontUnavailable = "FONT_UNAVAILABLE"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error     string             `json:"error"`
	Code      string             `json:"code"`
	RequestID string             `json:"request_id,omitempty"`
	Issues    []validation.Issue `json:"issues,omitempty"`
	Advice    *validation.Advice `json:"advice,omitempty"`
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrUnknownDocumentType):
		return http.StatusNotFound, CodeUnknownType
	case errors.Is(err, model.ErrUnknownLanguage):
		return http.StatusBadRequest, CodeInvalidLanguage
	case errors.Is(err, render.ErrUnknownRenderer):
		return http.StatusNotFound, CodeUnknownFormat
	case errors.Is(err, drafts.ErrInvalidKey):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, orchestrator.ErrEmptyDocument):
		return http.StatusConflict, CodeEmptyDocument
	case errors.Is(err, pdf.ErrFontUnavailable):
		return http.StatusUnprocessableEntity, CodeFontUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status, code := classifyError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", c.GetString(requestIDKey),
			"path", c.FullPath(),
			"error", err,
		)
	}
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     msg,
		Code:      code,
		RequestID: c.GetString(requestIDKey),
	})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:     err.Error(),
		Code:      CodeBadRequest,
		RequestID: c.GetString(requestIDKey),
	})
}

func (s *Server) invalidValues(c *gin.Context, issues []validation.Issue) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:     "values do not match the document schema",
		Code:      CodeInvalidValues,
		RequestID: c.GetString(requestIDKey),
		Issues:    issues,
	})
}
