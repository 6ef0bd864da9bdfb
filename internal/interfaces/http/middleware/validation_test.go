package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type codePayload struct {
	Code string `json:"code" binding:"required,code"`
}

func newCodeEngine() *gin.Engine {
	SetupValidator()
	engine := gin.New()
	engine.POST("/", func(c *gin.Context) {
		var req codePayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})
	return engine
}

func TestCodeValidation(t *testing.T) {
	engine := newCodeEngine()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"simple code", `{"code":"MAT-001"}`, http.StatusOK},
		{"dotted code", `{"code":"A.01_B"}`, http.StatusOK},
		{"whitespace rejected", `{"code":"MAT 001"}`, http.StatusBadRequest},
		{"leading dash rejected", `{"code":"-MAT"}`, http.StatusBadRequest},
		{"empty rejected", `{"code":""}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
