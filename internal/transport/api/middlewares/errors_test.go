package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Errors())
	r.GET("/public", func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusPaymentRequired, errors.New("insufficient balance")).SetType(gin.ErrorTypePublic)
	})
	r.GET("/private", func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusInternalServerError, errors.New("pq: connection refused"))
	})
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed"})
		_ = c.Error(errors.New("bind"))
	})

	cases := []struct {
		name       string
		url        string
		accept     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "public error as json",
			url:        "/public",
			wantStatus: http.StatusPaymentRequired,
			wantBody:   `{"error":"insufficient balance"}`,
		},
		{
			name:       "private error hides details",
			url:        "/private",
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
		{
			name:       "plain text on request",
			url:        "/public",
			accept:     "text/plain",
			wantStatus: http.StatusPaymentRequired,
			wantBody:   "insufficient balance",
		},
		{
			name:       "handler response kept",
			url:        "/written",
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"error":"validation failed"}`,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
