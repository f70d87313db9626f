package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"furnish-storefront/internal/backend"
	"furnish-storefront/internal/config"
	"furnish-storefront/internal/db"
	"furnish-storefront/internal/httpserver"
	newsletterrepo "furnish-storefront/internal/repository/newsletter"
	staterepo "furnish-storefront/internal/repository/state"
	tokenrepo "furnish-storefront/internal/repository/token"
	accountsvc "furnish-storefront/internal/service/account"
	cartsvc "furnish-storefront/internal/service/cart"
	checkoutsvc "furnish-storefront/internal/service/checkout"
	sessionsvc "furnish-storefront/internal/service/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", "storefront").Logger()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer dbpool.Close()

	states := staterepo.NewPostgres(dbpool)
	tokens := tokenrepo.NewPostgres(dbpool)
	subscribers := newsletterrepo.NewPostgres(dbpool)

	api := backend.New(cfg.BackendBaseURL, logger)

	var googleCfg *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		googleCfg = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	carts := cartsvc.New(states, logger)
	sessions := sessionsvc.New(api, tokens, googleCfg, logger)
	checkouts := checkoutsvc.New(states, carts, api, logger)
	accounts := accountsvc.New(api, subscribers, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Cart:           carts,
		Session:        sessions,
		Checkout:       checkouts,
		Account:        accounts,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
}
