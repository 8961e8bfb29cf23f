package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accounthttp "github.com/AlibekovAA/storefront/internal/account/http"
	"github.com/AlibekovAA/storefront/internal/account/service"
	"github.com/AlibekovAA/storefront/internal/common/bootstrap"
	"github.com/AlibekovAA/storefront/internal/common/clock"
	"github.com/AlibekovAA/storefront/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/storefront/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/storefront/internal/common/http"
	srv "github.com/AlibekovAA/storefront/internal/common/server"
	"github.com/AlibekovAA/storefront/internal/like"
	likehttp "github.com/AlibekovAA/storefront/internal/like/http"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	ctx := context.Background()

	app, err := bootstrap.NewStorefrontApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start storefront: %v\n", err)
		os.Exit(1)
	}
	log := app.Log
	cfg := app.Config

	realClock := clock.NewRealClock()
	idGenerator := commoncrypto.NewUUIDGenerator()
	tokens := service.NewTokenIssuer(cfg.JWTSecret, idGenerator, cfg.TokenTTL, realClock)
	breaker := service.NewStoreCircuitBreaker(
		cfg.CircuitBreakerThreshold,
		cfg.CircuitBreakerTimeout,
		cfg.CircuitBreakerReset,
		log,
	)
	accountService := service.NewAccountService(
		app.UserRepo,
		commoncrypto.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		app.Publisher,
		breaker,
		realClock,
		cfg.DefaultLanguage,
		log,
	)

	labels, err := like.NewLabels(cfg.DefaultLanguage)
	if err != nil {
		log.Fatalf("failed to load like labels: %v", err)
	}
	likeStore := like.NewStore(like.NewState(nil))
	persister := like.NewPersister(likeStore, app.LikeStorage, log)
	if err := persister.Mount(ctx); err != nil {
		if errors.Is(err, like.ErrMalformedLocalState) {
			log.Warnf("ignoring stored like state: %v", err)
		} else {
			log.Errorf("failed to load like state, persistence disabled: %v", err)
		}
	}
	likeButton := like.NewButton(likeStore, labels)

	accountHandler := accounthttp.NewHandler(accountService, cfg.JWTSecret, cfg.RequestTimeout, log)
	likeHandler := likehttp.NewHandler(likeStore, likeButton, log)

	mux := http.NewServeMux()
	mux.Handle("/api/accounts/", accountHandler)
	mux.Handle("/api/likes", likeHandler)
	mux.Handle("/api/likes/", likeHandler)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log, app.HealthChecks()))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewStrictRateLimiter()
	finalHandler := rateLimiter.Middleware(commonhttp.BuildBaseHandler(log, mux))

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), finalHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			rateLimiter.Stop()
			return nil
		},
		func(ctx context.Context) error {
			persister.Close()
			flushCtx, cancel := context.WithTimeout(ctx, constants.LikeFlushTimeout)
			defer cancel()
			err := persister.Flush(flushCtx)
			if errors.Is(err, like.ErrNotLoaded) {
				log.Warn("skipping like state flush: state was never loaded")
				return nil
			}
			return err
		},
	}
	shutdownHooks = append(shutdownHooks, app.ShutdownHooks()...)

	srv.StartWithGracefulShutdownAndHooks(server, log, "storefront", shutdownHooks)
}
