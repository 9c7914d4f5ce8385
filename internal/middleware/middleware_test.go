package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/access"
	"github.com/playmatatu/tablescore/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.POST("/tables/:id/advance", TableAuth(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextTableID))
	})
	return r
}

func TestTableAuth(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := newAuthRouter(cfg)
	good, _ := access.IssueControlToken(cfg.JWTSecret, "tbl_1", time.Hour)
	other, _ := access.IssueControlToken(cfg.JWTSecret, "tbl_2", time.Hour)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"other table", "Bearer " + other, http.StatusForbidden},
		{"ok", "Bearer " + good, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tables/tbl_1/advance", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
			if tc.want == http.StatusOK && w.Body.String() != "tbl_1" {
				t.Errorf("table id in context = %q", w.Body.String())
			}
		})
	}
}

func TestWebSocketCORSCheck(t *testing.T) {
	cfg := &config.Config{Environment: "production", FrontendURL: "https://club.example"}
	r := gin.New()
	r.GET("/ws", WebSocketCORSCheck(cfg), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := map[string]int{
		"":                                  http.StatusNoContent,
		"https://club.example":              http.StatusNoContent,
		"https://tablescore.playmatatu.com": http.StatusNoContent,
		"https://evil.example":              http.StatusForbidden,
	}
	for origin, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("origin %q: status = %d, want %d", origin, w.Code, want)
		}
	}
}
