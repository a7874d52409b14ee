package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/georgemunganga/kidswear-store/internal/modules/address"
	"github.com/georgemunganga/kidswear-store/internal/modules/auth"
	"github.com/georgemunganga/kidswear-store/internal/modules/cart"
	"github.com/georgemunganga/kidswear-store/internal/modules/catalog"
	"github.com/georgemunganga/kidswear-store/internal/modules/checkout"
	"github.com/georgemunganga/kidswear-store/internal/modules/events"
	"github.com/georgemunganga/kidswear-store/internal/modules/notify"
	"github.com/georgemunganga/kidswear-store/internal/modules/order"
	"github.com/georgemunganga/kidswear-store/internal/modules/payment"
	"github.com/georgemunganga/kidswear-store/internal/modules/preview"
	"github.com/georgemunganga/kidswear-store/internal/modules/storage"
	"github.com/georgemunganga/kidswear-store/internal/modules/user"
	"github.com/georgemunganga/kidswear-store/pkg/config"
	"github.com/georgemunganga/kidswear-store/pkg/logger"
	"github.com/georgemunganga/kidswear-store/pkg/postgres"
	"github.com/georgemunganga/kidswear-store/pkg/shutdown"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Options{Service: "storefront-api", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})
	if envErr != nil {
		log.Warn("no .env file, using process environment")
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	rdb := mustRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	objects, storageHandler := mustStorage(ctx, cfg, log)

	// ── Events ──────────────────────────────────────────────
	hub := events.NewHub(log)
	publisher := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka producer failed", slog.Any("err", err), slog.Any("brokers", cfg.KafkaBrokers))
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = append(publisher, kafka)
	}

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo, cfg.JWTSecret)

	// ── Catalog & Cart ──────────────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db))

	var persister cart.Persister = cart.NewMemoryPersister()
	var flows checkout.FlowStore = checkout.NewMemoryFlowStore()
	if rdb != nil {
		persister = cart.NewRedisPersister(rdb, cfg.CartTTL)
		flows = checkout.NewRedisFlowStore(rdb, cfg.CheckoutTTL)
	}
	cartStore := cart.NewStore(persister)
	cartService := cart.NewService(cartStore, catalogService)

	// ── Orders & Payments ───────────────────────────────────
	addressService := address.NewService(address.NewPostgresRepository(db))

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, publisher, log)
	gateway := orderGateway(cfg, db, orderService, log)

	paymentService := payment.NewService(payment.NewPostgresRepository(db), orderRepo, objects, publisher, log)

	dispatcher := notify.NewDispatcher(
		notify.NewHTTPClient(cfg.EmailAPIURL, &http.Client{Timeout: cfg.NotifyTimeout}),
		cfg.NotifyTimeout,
		log,
	)

	checkoutService := checkout.NewService(checkout.Deps{
		Carts:     cartStore,
		Addresses: addressService,
		Settings:  paymentService,
		Gateway:   gateway,
		Orders:    orderService,
		Proofs:    paymentService,
		Customers: userService,
		Notifier:  dispatcher,
		Flows:     flows,
		Log:       log,
	})

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(auth.Middleware(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if storageHandler != nil {
		router.Handle(storageHandler.pattern, storageHandler.handler)
	}

	user.NewHandler(userService, auth.CurrentUserID, auth.RequireUser).RegisterRoutes(router)
	auth.NewHandler(authService).RegisterRoutes(router)
	catalog.NewHandler(catalogService).RegisterRoutes(router)
	cart.NewHandler(cartService, auth.CurrentUserID, auth.RequireUser, log).RegisterRoutes(router)
	address.NewHandler(addressService, callerID, auth.RequireUser).RegisterRoutes(router)

	orderHandler := order.NewHandler(orderService, log)
	orderHandler.RegisterRoutes(router)
	order.NewAdminHandler(orderHandler, addressService, userService).RegisterRoutes(router)

	payment.NewHandler(paymentService, log).RegisterRoutes(router)
	checkout.NewHandler(checkoutService, log).RegisterRoutes(router)

	preview.NewHandler(catalogService, preview.Options{
		SiteName:     "911 Clothings",
		SiteURL:      cfg.SiteURL,
		ImageBaseURL: cfg.StoragePublicURL,
	}, log).RegisterRoutes(router)

	router.With(auth.RequireAdmin).Get("/api/v1/admin/live", hub.ServeHTTP)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http serve error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := srv.Shutdown(stopCtx); err != nil {
		log.Warn("graceful shutdown timeout, forcing close", slog.Any("err", err))
		srv.Close()
	}
	wg.Wait()

	if err := dispatcher.Close(stopCtx); err != nil {
		log.Warn("pending order emails abandoned", slog.Any("err", err))
	}
	log.Info("bye")
}

// ── helpers ─────────────────────────────────────────────

func callerID(r *http.Request) (uuid.UUID, bool) {
	s, ok := auth.SessionFromContext(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	return s.UserID, true
}

func mustRedis(ctx context.Context, cfg config.Config, log *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, carts and checkout flows kept in memory")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("redis ping failed", slog.Any("err", err), slog.String("addr", cfg.RedisAddr))
		os.Exit(1)
	}
	return rdb
}

type mount struct {
	pattern string
	handler http.Handler
}

// mustStorage picks the proof store. The local store is also served by this
// process under the path of STORAGE_PUBLIC_URL.
func mustStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (storage.ObjectStore, *mount) {
	switch cfg.StorageDriver {
	case "gcs":
		store, err := storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			log.Error("gcs storage failed", slog.Any("err", err), slog.String("bucket", cfg.GCSBucket))
			os.Exit(1)
		}
		return store, nil
	case "local", "":
		store, err := storage.NewLocalStore(cfg.StorageDir, cfg.StoragePublicURL)
		if err != nil {
			log.Error("local storage failed", slog.Any("err", err), slog.String("dir", cfg.StorageDir))
			os.Exit(1)
		}
		prefix := "/storage"
		if u, err := url.Parse(cfg.StoragePublicURL); err == nil && strings.Trim(u.Path, "/") != "" {
			prefix = "/" + strings.Trim(u.Path, "/")
		}
		return store, &mount{pattern: prefix + "/*", handler: store.Handler(prefix)}
	default:
		log.Error("unknown storage driver", slog.String("driver", cfg.StorageDriver))
		os.Exit(1)
	}
	return nil, nil
}

// orderGateway chains the configured order-creation strategies. The first
// one that answers wins; later ones only run when an earlier one fails to.
func orderGateway(cfg config.Config, db *sql.DB, svc order.Service, log *slog.Logger) order.Gateway {
	chain := order.NewFallbackGateway(log)
	added := 0
	for _, name := range cfg.OrderGateways {
		switch name {
		case "http":
			if cfg.FunctionsURL == "" {
				log.Warn("http order gateway skipped, FUNCTIONS_URL is empty")
				continue
			}
			chain = chain.With(name, order.NewHTTPGateway(cfg.FunctionsURL, &http.Client{Timeout: 15 * time.Second}, auth.TokenFromContext))
		case "rpc":
			chain = chain.With(name, order.NewRPCGateway(db))
		case "service":
			chain = chain.With(name, order.NewServiceGateway(svc))
		default:
			log.Warn("unknown order gateway ignored", slog.String("gateway", name))
			continue
		}
		added++
	}
	if added == 0 {
		chain = chain.With("service", order.NewServiceGateway(svc))
	}
	return chain
}
