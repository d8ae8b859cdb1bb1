package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionStore_Expiry(t *testing.T) {
	ss := NewSessionStore()
	now := time.Date(2026, 4, 12, 9, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }

	token, err := ss.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := ss.Get(token); !ok {
		t.Fatal("fresh session not found")
	}

	now = now.Add(SessionTTL)
	if _, ok := ss.Get(token); ok {
		t.Error("session still valid after TTL")
	}
}

func TestSessionStore_DeleteAll(t *testing.T) {
	ss := NewSessionStore()
	a, _ := ss.Create()
	b, _ := ss.Create()
	if a == b {
		t.Fatal("tokens should differ")
	}
	ss.DeleteAll()
	if _, ok := ss.Get(a); ok {
		t.Error("session a survived DeleteAll")
	}
	if _, ok := ss.Get(b); ok {
		t.Error("session b survived DeleteAll")
	}
}

func TestRequireAdmin(t *testing.T) {
	ss := NewSessionStore()
	token, _ := ss.Create()
	h := Auth(ss)(RequireAdmin(okHandler(http.StatusOK)))

	tests := []struct {
		name   string
		path   string
		accept string
		cookie string
		want   int
	}{
		{"api without session", "/admin/api/members", "", "", http.StatusUnauthorized},
		{"page without session redirects", "/admin", "text/html", "", http.StatusSeeOther},
		{"stale cookie", "/admin/api/members", "", "nope", http.StatusUnauthorized},
		{"valid session", "/admin/api/members", "", token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	defer rl.Stop()
	h := RateLimit(rl)(okHandler(http.StatusOK))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:" + []string{"1000", "1001", "1002"}[i]
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}
