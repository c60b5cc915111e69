package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueCookie(t *testing.T, m *AuthMiddleware, userID string) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	require.NoError(t, m.SetAuthCookie(w, userID))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "no cookies set by SetAuthCookie")
	return cookies[0]
}

func TestAuthMiddleware_WithValidCookie(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Hour)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		id, ok := GetUserIDFromContext(r.Context())
		if !ok {
			t.Fatalf("user id not in context")
		}
		if id != "user-42" {
			t.Fatalf("user id from context = %q, want user-42", id)
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.AddCookie(issueCookie(t, m, "user-42"))

	m.Middleware(next).ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Hour)
	other := NewAuthMiddleware("other-secret", time.Hour)

	expired := NewAuthMiddleware("test-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{
			name: "no cookie",
		},
		{
			name:   "garbage",
			cookie: &http.Cookie{Name: authCookieName, Value: "not-a-token"},
		},
		{
			name:   "foreign signature",
			cookie: issueCookie(t, other, "user-1"),
		},
		{
			name:   "expired",
			cookie: issueCookie(t, expired, "user-1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("next handler should not be called")
			})

			r := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != nil {
				r.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()

			m.Middleware(next).ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
		})
	}
}

func TestClearAuthCookie(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Hour)

	w := httptest.NewRecorder()
	m.ClearAuthCookie(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, authCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestNewAuthMiddleware_RandomKeyWhenEmpty(t *testing.T) {
	a := NewAuthMiddleware("", 0)
	b := NewAuthMiddleware("", 0)

	assert.Len(t, a.secretKey, 32)
	assert.NotEqual(t, a.secretKey, b.secretKey)
	assert.Equal(t, defaultCookieTTL, a.ttl)
}
