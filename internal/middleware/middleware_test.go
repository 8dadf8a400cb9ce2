package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"receipt-service/internal/config"
	"receipt-service/internal/utils"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(zap.NewNop()))
	router.Use(LoggingMiddleware(utils.NewServiceLogger(zap.NewNop(), "test")))
	router.Use(CORSMiddleware(&config.SecurityConfig{AllowedOrigins: []string{"http://pos.local"}}))

	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func TestRequestID(t *testing.T) {
	router := newRouter()

	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{name: "generated", incoming: "", reused: false},
		{name: "reused", incoming: "abc-123", reused: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/id", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			id := rec.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, id)
			assert.Equal(t, id, rec.Body.String())
			if tt.reused {
				assert.Equal(t, tt.incoming, id)
			}
		})
	}
}

func TestRecoveryAnswersWithEnvelope(t *testing.T) {
	router := newRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestCORSAllowedOrigin(t *testing.T) {
	router := newRouter()

	req := httptest.NewRequest(http.MethodOptions, "/id", nil)
	req.Header.Set("Origin", "http://pos.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://pos.local", rec.Header().Get("Access-Control-Allow-Origin"))
}
