package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/apperror"
	"github.com/stemsi/lexis/internal/model"
)

// Response is the standardized API response envelope.
type Response struct {
	Data       any         `json:"data"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Metadata   Metadata    `json:"metadata"`
}

// ErrorBody represents a structured error response.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Pagination mirrors model.Page without the items.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Metadata includes request tracing and timing.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// Success sends data with the given status.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, envelope(c, data, nil, nil))
}

// Page sends one page of records with its pagination block.
func Page[T any](c *gin.Context, p model.Page[T]) {
	c.JSON(http.StatusOK, envelope(c, p.Items, nil, &Pagination{
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}))
}

// Invalid rejects a malformed request with 400 and per-field messages.
func Invalid(c *gin.Context, code ErrCode, fields map[string]string) {
	c.JSON(http.StatusBadRequest, envelope(c, nil, &ErrorBody{
		Code:    code,
		Message: GetMessage(code),
		Fields:  fields,
	}, nil))
}

// Error sends the tagged error err with the status its kind maps to.
// The message is the service's own, except for persistence failures whose
// details only go to the log.
func Error(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	code := ErrCode(kind)
	status := StatusOf(kind)

	msg := err.Error()
	if kind == apperror.KindPersistence {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
		msg = GetMessage(code)
	}
	c.JSON(status, envelope(c, nil, &ErrorBody{
		Code:    code,
		Message: msg,
		Fields:  apperror.FieldsOf(err),
	}, nil))
}

// AbortFail stops the middleware chain with the generic message for code.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, envelope(c, nil, &ErrorBody{
		Code:    code,
		Message: GetMessage(code),
	}, nil))
}

func envelope(c *gin.Context, data any, body *ErrorBody, page *Pagination) Response {
	return Response{
		Data:       data,
		Error:      body,
		Pagination: page,
		Metadata: Metadata{
			RequestID: RequestID(c),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}
