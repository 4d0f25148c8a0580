package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/auth"
	"github.com/jpcloudkit/sponsormap/internal/httpx"
	"github.com/jpcloudkit/sponsormap/internal/i18n"
)

type AuthHandler struct {
	Sessions *auth.Sessions
	Log      *zap.Logger
}

func NewAuthHandler(sessions *auth.Sessions, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Sessions: sessions, Log: log}
}

// Login exchanges the shared password for a session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Sessions.Login(w, body.Password); err != nil {
		if errors.Is(err, auth.ErrBadPassword) {
			lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
			httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang, "invalid_password"), nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "login_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(w)
	httpx.JSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}

// Session reports whether the request carries a valid session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]bool{"authenticated": h.Sessions.Authenticated(r)})
}
