// Package server wires the HTTP routes and the shared middleware.
package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/auth"
	"github.com/jpcloudkit/sponsormap/internal/handlers"
	"github.com/jpcloudkit/sponsormap/internal/httpx"
)

// Deps carries the constructed handlers and the session gate.
type Deps struct {
	Sessions  *auth.Sessions
	Auth      *handlers.AuthHandler
	Entities  *handlers.EntityHandler
	Tracking  *handlers.TrackingHandler
	Reports   *handlers.ReportHandler
	Brochure  *handlers.BrochureHandler
	Documents *handlers.DocumentsHandler
	Log       *zap.Logger
}

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("/auth/login", post(d.Auth.Login))
	mux.Handle("/auth/logout", post(d.Auth.Logout))
	mux.HandleFunc("/auth/session", d.Auth.Session)

	protect := func(h http.Handler) http.Handler {
		return requireSession(d.Sessions, h)
	}

	mux.Handle("/entities", protect(methods(map[string]http.HandlerFunc{
		http.MethodGet:  d.Entities.List,
		http.MethodPost: d.Entities.Create,
	})))
	mux.Handle("/entities/update", protect(post(d.Entities.Update)))
	mux.Handle("/entities/recette", protect(post(d.Entities.UpdateRevenue)))
	mux.Handle("/entities/comment", protect(post(d.Entities.AddComment)))

	mux.Handle("/tracking", protect(methods(map[string]http.HandlerFunc{
		http.MethodGet: d.Tracking.List,
	})))
	mux.Handle("/tracking/update", protect(post(d.Tracking.Update)))
	mux.Handle("/tracking/init", protect(post(d.Tracking.Init)))
	mux.Handle("/tracking/pack-toggle", protect(post(d.Tracking.PackToggle)))

	mux.Handle("/progress", protect(http.HandlerFunc(d.Reports.Progress)))
	mux.Handle("/reports/financial", protect(http.HandlerFunc(d.Reports.Financial)))
	mux.Handle("/reports/dashboard", protect(http.HandlerFunc(d.Reports.Dashboard)))
	mux.Handle("/reports/history", protect(http.HandlerFunc(d.Reports.History)))

	mux.Handle("/brochure", protect(http.HandlerFunc(d.Brochure.Sheet)))
	mux.Handle("/brochure/prefs", protect(post(d.Brochure.SavePrefs)))

	mux.Handle("/documents/invoice/prefill", protect(http.HandlerFunc(d.Documents.InvoicePrefill)))
	mux.Handle("/documents/invoice", protect(post(d.Documents.Invoice)))
	mux.Handle("/documents/receipt/prefill", protect(http.HandlerFunc(d.Documents.ReceiptPrefill)))
	mux.Handle("/documents/receipt", protect(post(d.Documents.Receipt)))

	return withRecover(d.Log, withLogging(d.Log, mux))
}

func post(h http.HandlerFunc) http.Handler {
	return methods(map[string]http.HandlerFunc{http.MethodPost: h})
}

func methods(allowed map[string]http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := allowed[r.Method]; ok {
			h(w, r)
			return
		}
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
}

func requireSession(s *auth.Sessions, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Authenticated(r) {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func withRecover(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
