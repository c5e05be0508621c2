package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"berrypay/internal/cache"
	"berrypay/internal/client"
	"berrypay/internal/config"
	"berrypay/internal/handler"
	"berrypay/internal/logging"
	"berrypay/internal/metrics"
	"berrypay/internal/payment"
	"berrypay/internal/repository"
	"berrypay/internal/server"
	"berrypay/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 30 * time.Second
	sessionSweep    = time.Hour
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewLogger(cfg.Log.Level, cfg.Log.Format).
		With("env", cfg.Environment.Name)
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := client.InitDBClient(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	m := metrics.Registry(cfg.Metrics.Namespace)

	publicCache, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()

	payments, err := newPaymentRegistry(cfg, logger)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	productRepo := repository.NewProductRepository(db)
	checkoutRepo := repository.NewCheckoutRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	srv := server.NewServer(server.Deps{
		Users: service.NewUserService(userRepo, sessionRepo, service.AuthConfig{
			JWTSecret:  cfg.Auth.JWTSecret,
			SessionTTL: cfg.Auth.SessionTTL,
		}, logger),
		Products: service.NewProductService(productRepo),
		Checkouts: service.NewCheckoutService(service.CheckoutServiceDeps{
			CheckoutRepo: checkoutRepo,
			ProductRepo:  productRepo,
			SettingsRepo: settingsRepo,
			Payments:     payments,
			Cache:        publicCache,
			CacheTTL:     cfg.Redis.TTL,
			Metrics:      m,
			Currency:     cfg.Payment.Currency,
			Logger:       logger,
		}),
		Sales: service.NewSaleService(service.SaleServiceDeps{
			CheckoutRepo: checkoutRepo,
			ProductRepo:  productRepo,
			SettingsRepo: settingsRepo,
			SaleRepo:     saleRepo,
			Payments:     payments,
			Metrics:      m,
			Currency:     cfg.Payment.Currency,
			BaseURL:      cfg.BaseURL,
			Logger:       logger,
		}),
		Payments: service.NewPaymentService(saleRepo, productRepo, settingsRepo, payments, m, logger),
		Settings: service.NewSettingsService(settingsRepo),
		Stats:    service.NewStatsService(saleRepo, checkoutRepo, time.Now),
		Uploads:  service.NewUploadService(cfg.Upload.Dir, cfg.Upload.MaxBytes, m, logger),

		Cookie: handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
			TTL:    cfg.Auth.SessionTTL,
		},
		UploadDir:      cfg.Upload.Dir,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		Metrics:        m,
		Logger:         logger,
	})

	go sweepSessions(ctx, sessionRepo, logger)

	addr := cfg.ListenAddr()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", addr)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("signal received, starting graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// newCache returns Redis when configured and reachable, otherwise a no-op cache.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Cache, func()) {
	if cfg.Redis.Addr == "" {
		return cache.Noop{}, func() {}
	}

	rdb := cache.New(cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		UseTLS:   cfg.Redis.UseTLS,
	}, logger)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		logger.Warn("redis unavailable, public checkout cache disabled", "error", err)
		rdb.Close()
		return cache.Noop{}, func() {}
	}

	return rdb, func() { rdb.Close() }
}

func newPaymentRegistry(cfg *config.Config, logger *slog.Logger) (*payment.Registry, error) {
	var paypal payment.Provider = payment.NewMockPaypal()
	if cfg.Paypal.Mode == "live" {
		paypal = payment.NewLivePaypal(cfg.Paypal, nil)
	}

	var pix payment.Provider = payment.NewManualPix()
	if cfg.MercadoPago.AccessToken != "" {
		mp, err := client.NewMercadoPagoClient(cfg.MercadoPago.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("mercadopago client: %w", err)
		}
		pix = payment.NewMercadoPagoPix(mp)
	}

	logger.Info("payment providers ready", "paypal", cfg.Paypal.Mode, "pix_mercadopago", cfg.MercadoPago.AccessToken != "")
	return payment.NewRegistry(paypal, pix), nil
}

func sweepSessions(ctx context.Context, sessions repository.SessionRepository, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := sessions.DeleteExpired(ctx, now)
			if err != nil {
				logger.Warn("sweep expired sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("expired sessions removed", "count", n)
			}
		}
	}
}
