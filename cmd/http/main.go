package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsanano/storefront-client/internal/cart"
	"github.com/fsanano/storefront-client/internal/catalog"
	"github.com/fsanano/storefront-client/internal/config"
	"github.com/fsanano/storefront-client/internal/handler"
	"github.com/fsanano/storefront-client/internal/pricing"
	"github.com/fsanano/storefront-client/internal/session"
	"github.com/fsanano/storefront-client/internal/service/storeapi"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Setup session persistence
	var store session.Store
	if cfg.DatabaseURL != "" {
		dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer dbPool.Close()

		if err := dbPool.Ping(ctx); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		fmt.Println("Persisting session in database")

		store, err = session.NewPostgresStore(ctx, dbPool)
		if err != nil {
			log.Fatalf("Failed to setup session store: %v", err)
		}
	} else {
		store, err = session.NewFileStore(cfg.StateDir)
		if err != nil {
			log.Fatalf("Failed to setup session store: %v", err)
		}
	}

	// 3. Setup Logic
	apiClient := storeapi.NewClient(storeapi.Config{BaseURL: cfg.Store.APIBaseURL})
	cartEngine := cart.NewEngine(apiClient)

	sessions, err := session.New(ctx, apiClient, store, session.Hooks{
		OnLogin: func(lifetime context.Context) {
			if err := cartEngine.Refresh(lifetime); err != nil {
				log.Printf("cart refresh after login: %v", err)
			}
		},
		OnLogout: cartEngine.Reset,
		NavigateToLogin: func() {
			log.Println("session ended by backend, presentation should show login")
		},
	})
	if err != nil {
		log.Fatalf("Failed to restore session: %v", err)
	}
	apiClient.AttachCredentials(sessions, sessions.HandleUnauthorized)

	calc := pricing.New(cfg.Store.PromoCode)
	catalogSvc := catalog.NewService(apiClient)

	h := handler.NewHandler(sessions, cartEngine, calc, catalogSvc)

	// Restored sessions get a fresh cart mirror before serving traffic.
	if _, ok := sessions.Current(); ok {
		go func() {
			if err := cartEngine.Refresh(sessions.Lifetime()); err != nil {
				log.Printf("initial cart refresh: %v", err)
			}
		}()
	}

	// 4. Setup Server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: h,
	}

	// 5. Run Server with Graceful Shutdown
	go func() {
		fmt.Printf("Starting server on port %s\n", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down server...")

	// Create a deadline to wait for.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	fmt.Println("Server exiting")
}
