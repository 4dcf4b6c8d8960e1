package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dinetrack/internal/client/catalog"
	"dinetrack/internal/client/orders"
	"dinetrack/internal/config"
	"dinetrack/internal/db"
	"dinetrack/internal/httpserver"
	cartsvc "dinetrack/internal/service/cart"
	identitysvc "dinetrack/internal/service/identity"
	ordersvc "dinetrack/internal/service/order"
	tracksvc "dinetrack/internal/service/track"
	"dinetrack/internal/store"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	st, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("init store: %v", err)
	}
	defer cleanup()

	catalogClient := catalog.New(cfg.CatalogBaseURL, logger)
	ordersClient := orders.New(cfg.OrdersBaseURL, logger)

	cartManager := cartsvc.NewManager(ctx, st, cfg.TaxRate, logger)
	orderService := ordersvc.New(st, cartManager, ordersClient, logger)
	trackService := tracksvc.New(st, logger)
	identityService := identitysvc.New(st, logger)

	if _, err := identityService.Ensure(ctx); err != nil {
		logger.Printf("ensure device identity: %v", err)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, st, httpserver.Deps{
		Cart:     cartManager,
		Orders:   orderService,
		Track:    trackService,
		Identity: identityService,
		Catalog:  catalogClient,
	}, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// buildStore picks the persistence backend from config. The memory backend
// loses state on restart and exists for local development only.
func buildStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		st, err := store.NewRedis(ctx, cfg.RedisURL, cfg.RedisNamespace)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil
	case "memory":
		return store.NewMemory(), func() {}, nil
	default:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgres(pool), pool.Close, nil
	}
}
