package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/auth"
	"github.com/jpcloudkit/sponsormap/internal/billing"
	"github.com/jpcloudkit/sponsormap/internal/config"
	"github.com/jpcloudkit/sponsormap/internal/handlers"
	"github.com/jpcloudkit/sponsormap/internal/logx"
	"github.com/jpcloudkit/sponsormap/internal/prefs"
	"github.com/jpcloudkit/sponsormap/internal/server"
	"github.com/jpcloudkit/sponsormap/internal/store"
	tracksync "github.com/jpcloudkit/sponsormap/internal/sync"
	"github.com/jpcloudkit/sponsormap/internal/webhook"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logx.Must(cfg.Env)
	defer log.Sync()

	prefStore, err := prefs.Open(cfg.PrefsDBPath)
	if err != nil {
		log.Fatal("open prefs db", zap.Error(err))
	}

	recordStore := store.New(store.Config{
		BaseURL:     cfg.StoreBaseURL,
		Token:       cfg.StoreToken,
		MainTableID: cfg.MainTableID,
		MainViewID:  cfg.MainViewID,
	}, log)
	if cfg.StoreToken == "" {
		log.Warn("record store token missing, writes will fail and reads will be empty")
	}

	synchronizer := tracksync.New(recordStore, log)
	workflow := webhook.New(cfg.InvoiceWebhookURL, cfg.ReceiptWebhookURL, log)
	billingSvc := billing.NewService(recordStore, workflow, log)
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.AppPassword)

	handler := server.New(server.Deps{
		Sessions:  sessions,
		Auth:      handlers.NewAuthHandler(sessions, log),
		Entities:  handlers.NewEntityHandler(recordStore, synchronizer, log),
		Tracking:  handlers.NewTrackingHandler(recordStore, synchronizer, log),
		Reports:   handlers.NewReportHandler(recordStore, cfg.RevenueGoal, log),
		Brochure:  handlers.NewBrochureHandler(recordStore, prefStore, log),
		Documents: handlers.NewDocumentsHandler(recordStore, billingSvc, log),
		Log:       log,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}
