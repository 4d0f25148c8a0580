// Package auth implements the shared-password gate: one password for
// the whole team, exchanged for a signed session cookie.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"
)

const sessionCookieName = "session"

// sessionTTL matches the habit of re-logging roughly once per event
// cycle.
const sessionTTL = 14 * 24 * time.Hour

// ErrBadPassword is returned by Login on a wrong password.
var ErrBadPassword = errors.New("invalid password")

type Sessions struct {
	secret   []byte
	password string
}

func NewSessions(secret, password string) *Sessions {
	return &Sessions{secret: []byte(secret), password: password}
}

// Login checks the shared password and, on success, sets a signed
// session cookie carrying its expiry.
func (s *Sessions) Login(w http.ResponseWriter, password string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return ErrBadPassword
	}
	expiry := strconv.FormatInt(time.Now().Add(sessionTTL).Unix(), 10)
	value := expiry + "." + s.sign(expiry)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
	return nil
}

// Logout deletes the session cookie.
func (s *Sessions) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Authenticated validates the cookie's signature and expiry.
func (s *Sessions) Authenticated(r *http.Request) bool {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return false
	}
	dot := -1
	for i, ch := range c.Value {
		if ch == '.' {
			dot = i
			break
		}
	}
	if dot <= 0 || dot == len(c.Value)-1 {
		return false
	}
	expiry, sig := c.Value[:dot], c.Value[dot+1:]
	if !hmac.Equal([]byte(sig), []byte(s.sign(expiry))) {
		return false
	}
	exp, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return false
	}
	return time.Now().Unix() < exp
}

func (s *Sessions) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
