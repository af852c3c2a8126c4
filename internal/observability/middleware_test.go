package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := map[string]struct {
		status int
		level  string
	}{
		"success":      {status: http.StatusOK, level: `"level":"debug"`},
		"client error": {status: http.StatusNotFound, level: `"level":"warn"`},
		"server error": {status: http.StatusInternalServerError, level: `"level":"error"`},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			r := gin.New()
			r.Use(RequestLogger(zerolog.New(&buf)))
			r.GET("/recordings/:name", func(c *gin.Context) {
				c.Status(test.status)
			})

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/recordings/scan", nil))

			require.Equal(t, test.status, rr.Code)
			require.Contains(t, buf.String(), test.level)
			require.Contains(t, buf.String(), `"path":"/recordings/:name"`)
			require.Contains(t, buf.String(), `"message":"admin_request"`)
		})
	}
}
