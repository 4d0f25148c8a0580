package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func login(t *testing.T, s *Sessions, password string) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := s.Login(rec, password); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return rec.Result().Cookies()
}

func TestLoginSetsValidSession(t *testing.T) {
	s := NewSessions("secret", "escalade2026")
	cookies := login(t, s, "escalade2026")
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	if !s.Authenticated(req) {
		t.Error("fresh session not accepted")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s := NewSessions("secret", "escalade2026")
	rec := httptest.NewRecorder()
	if err := s.Login(rec, "devine"); !errors.Is(err, ErrBadPassword) {
		t.Fatalf("err = %v, want ErrBadPassword", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("cookie set on failed login")
	}
}

func TestTamperedCookieRejected(t *testing.T) {
	s := NewSessions("secret", "escalade2026")
	cookies := login(t, s, "escalade2026")

	tampered := *cookies[0]
	tampered.Value = "9999999999." + "forged-signature"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&tampered)
	if s.Authenticated(req) {
		t.Error("tampered session accepted")
	}
}

func TestForeignSecretRejected(t *testing.T) {
	a := NewSessions("secret-a", "pw")
	b := NewSessions("secret-b", "pw")
	cookies := login(t, a, "pw")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	if b.Authenticated(req) {
		t.Error("session signed with another secret accepted")
	}
}

func TestMissingCookie(t *testing.T) {
	s := NewSessions("secret", "pw")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if s.Authenticated(req) {
		t.Error("request without cookie accepted")
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	s := NewSessions("secret", "pw")
	rec := httptest.NewRecorder()
	s.Logout(rec)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" {
		t.Errorf("cookies = %v", cookies)
	}
}
