package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ────────────────────── CORS ──────────────────────

func TestCORS_AllowedOriginEchoed(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://console.example.com/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://console.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://console.example.com" {
		t.Errorf("期望回显白名单来源，实际=%q", got)
	}
}

func TestCORS_UnknownOriginIgnored(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://console.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("白名单外来源不应放行，实际=%q", got)
	}
}

func TestCORS_WildcardAllowsAnyOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"*"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
		t.Errorf("通配模式应回显任意来源，实际=%q", got)
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	handlerHit := false
	r := gin.New()
	r.Use(CORS([]string{"https://console.example.com"}))
	r.OPTIONS("/", func(c *gin.Context) { handlerHit = true })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://console.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检期望 204，实际=%d", w.Code)
	}
	if handlerHit {
		t.Error("预检请求不应进入业务处理")
	}
}

// ────────────────────── SecurityHeaders ──────────────────────

func TestSecurityHeaders_SetOnEveryResponse(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	for k, want := range securityHeaders {
		if got := w.Header().Get(k); got != want {
			t.Errorf("头 %s 期望 %q，实际=%q", k, want, got)
		}
	}
}

// ────────────────────── BodyLimit ──────────────────────

func TestBodyLimit_OversizedBodyRejected(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 64)))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("超限请求体期望 413，实际=%d", w.Code)
	}
}

func TestBodyLimit_SmallBodyPasses(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(1 << 10))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader("ok"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("未超限请求体期望 200，实际=%d", w.Code)
	}
}
