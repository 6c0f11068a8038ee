package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foody-next/internal/service"

	"github.com/gin-gonic/gin"
)

func newKeyContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/merchant/login", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"
	return c
}

func TestKeyByIPAndJSONFieldNormalizesLogin(t *testing.T) {
	formatted := newKeyContext(`{"login":"+7 (900) 000-00-01","password":"x"}`)
	plain := newKeyContext(`{"login":79000000001,"password":"x"}`)

	keyFunc := KeyByIPAndJSONField("login", service.NormalizeLogin)
	a, b := keyFunc(formatted), keyFunc(plain)
	if a != "79000000001|1.2.3.4" || a != b {
		t.Fatalf("formatted and numeric login should share a bucket, got %s and %s", a, b)
	}

	body, err := io.ReadAll(formatted.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "(900)") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	keyFunc := KeyByIPAndJSONField("login", nil)
	if got := keyFunc(newKeyContext(`{"login":" Cafe "}`)); got != "cafe|1.2.3.4" {
		t.Fatalf("lowercased key want cafe|1.2.3.4 got %s", got)
	}
	for _, body := range []string{``, `not json`, `{"password":"x"}`, `{"login":{"a":1}}`} {
		if got := keyFunc(newKeyContext(body)); got != "1.2.3.4" {
			t.Fatalf("body %q want ip key got %s", body, got)
		}
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("request %d should pass through, got %d %s", i+1, w.Code, w.Body.String())
		}
	}
}

func TestParseRateLimitResult(t *testing.T) {
	cases := []struct {
		name   string
		input  interface{}
		count  int64
		ttl    int64
		parsed bool
	}{
		{name: "counting", input: []interface{}{int64(3), int64(40)}, count: 3, ttl: 40, parsed: true},
		{name: "blocked", input: []interface{}{int64(-1), int64(900)}, count: -1, ttl: 900, parsed: true},
		{name: "string values", input: []interface{}{"2", "10"}, count: 2, ttl: 10, parsed: true},
		{name: "short", input: []interface{}{int64(1)}, parsed: false},
		{name: "bad count", input: []interface{}{"x", int64(1)}, parsed: false},
		{name: "not a list", input: "OK", parsed: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			count, ttl, ok := parseRateLimitResult(tc.input)
			if ok != tc.parsed {
				t.Fatalf("ok want %v got %v", tc.parsed, ok)
			}
			if ok && (count != tc.count || ttl != tc.ttl) {
				t.Fatalf("want %d/%d got %d/%d", tc.count, tc.ttl, count, ttl)
			}
		})
	}
}

func TestRateLimitMessage(t *testing.T) {
	if got := rateLimitMessage(RateLimitRule{}, 30); got != "too many requests, retry in 30 seconds" {
		t.Fatalf("default message got %s", got)
	}
	if got := rateLimitMessage(RateLimitRule{Message: "login blocked for %ds"}, 5); got != "login blocked for 5s" {
		t.Fatalf("custom message got %s", got)
	}
}
