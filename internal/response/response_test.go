package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/apperror"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h gin.HandlerFunc, header string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(zerolog.Nop()))
	r.GET("/x", h)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set(HeaderRequestID, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRequestID_ReusesValidHeader(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { Success(c, http.StatusOK, nil) }, "abc-123")

	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", body.Metadata.RequestID)
}

func TestRequestID_ReplacesInvalidHeader(t *testing.T) {
	for _, bad := range []string{"has space", strings.Repeat("x", 65)} {
		w, body := serve(t, func(c *gin.Context) { Success(c, http.StatusOK, nil) }, bad)

		assert.NotEqual(t, bad, body.Metadata.RequestID)
		assert.Len(t, body.Metadata.RequestID, 36)
		assert.Equal(t, body.Metadata.RequestID, w.Header().Get(HeaderRequestID))
	}
}

func TestError_StatusAndMessage(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    ErrCode
		message string
	}{
		{apperror.Validation("Page must be a number"), http.StatusBadRequest, ErrValidation, "Page must be a number"},
		{apperror.Integrity("College CCS already exists"), http.StatusConflict, ErrIntegrity, "College CCS already exists"},
		{apperror.NotFound("Student 2024-0001 not found"), http.StatusNotFound, ErrNotFound, "Student 2024-0001 not found"},
		{apperror.Persistence("write students.csv", errors.New("disk full")), http.StatusServiceUnavailable, ErrPersistence, GetMessage(ErrPersistence)},
		{errors.New("boom"), http.StatusServiceUnavailable, ErrPersistence, GetMessage(ErrPersistence)},
	}
	for _, tt := range tests {
		w, body := serve(t, func(c *gin.Context) { Error(c, tt.err) }, "")

		assert.Equal(t, tt.status, w.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, tt.code, body.Error.Code)
		assert.Equal(t, tt.message, body.Error.Message)
	}
}

func TestPage_WritesPagination(t *testing.T) {
	page := model.NewPage([]string{"a", "b"}, 2, 2, 5)
	_, body := serve(t, func(c *gin.Context) { Page(c, page) }, "")

	require.NotNil(t, body.Pagination)
	assert.Equal(t, Pagination{Page: 2, PerPage: 2, TotalItems: 5, TotalPages: 3}, *body.Pagination)
	assert.Nil(t, body.Error)
}
