package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPaper = errors.New("unsupported paper width")

var testCodes = ErrorCodes{
	{Err: errPaper, Status: http.StatusBadRequest, Code: "UNSUPPORTED_PAPER"},
}

func respond(t *testing.T, handle func(c *gin.Context)) (int, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")
	handle(c)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestDomainErrorResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "wrapped sentinel", err: fmt.Errorf("%w: \"57mm\"", errPaper), status: http.StatusBadRequest, code: "UNSUPPORTED_PAPER"},
		{name: "unmapped error", err: errors.New("disk full"), status: http.StatusInternalServerError, code: "INTERNAL_SERVER_ERROR"},
		{name: "no error", err: nil, status: http.StatusBadGateway, code: "PRINTER_UNREACHABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := tt.status
			if tt.code == "UNSUPPORTED_PAPER" {
				fallback = http.StatusInternalServerError
			}

			status, resp := respond(t, func(c *gin.Context) {
				DomainErrorResponse(c, testCodes, fallback, "Failed", tt.err)
			})

			assert.Equal(t, tt.status, status)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-1", resp.RequestID)
		})
	}
}

func TestValidationErrorResponse(t *testing.T) {
	status, resp := respond(t, func(c *gin.Context) {
		ValidationErrorResponse(c, CodeMalformedBody, map[string]string{"body": "unexpected EOF"})
	})

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMalformedBody, resp.Error.Code)
	assert.Equal(t, "Request body could not be decoded", resp.Error.Message)
}

func TestErrorCodesLookup(t *testing.T) {
	_, ok := testCodes.Lookup(nil)
	assert.False(t, ok)

	entry, ok := testCodes.Lookup(errors.Wrap(errPaper, "render"))
	require.True(t, ok)
	assert.Equal(t, "UNSUPPORTED_PAPER", entry.Code)
}
