// Package app wires configuration, storage, domain services, and the HTTP
// server together.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/candyhaus/sweetshop/db"
	"github.com/candyhaus/sweetshop/internal/domain/order"
	"github.com/candyhaus/sweetshop/internal/domain/promotion"
	"github.com/candyhaus/sweetshop/internal/domain/review"
	"github.com/candyhaus/sweetshop/internal/domain/sweet"
	"github.com/candyhaus/sweetshop/internal/httpapi"
	"github.com/candyhaus/sweetshop/internal/memory"
	"github.com/candyhaus/sweetshop/internal/repository"
	"github.com/candyhaus/sweetshop/pkg/health"
	"github.com/candyhaus/sweetshop/pkg/httpmiddleware"
)

// stores bundles one backend's implementations of the four store contracts.
type stores struct {
	sweets     sweet.Repository
	reviews    review.Repository
	promotions promotion.Repository
	orders     order.Repository
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage),
	)

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	var st stores
	switch cfg.Storage {
	case "postgres":
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := repository.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})

		st = stores{
			sweets:     repository.NewSweetRepository(pool),
			reviews:    repository.NewReviewRepository(pool),
			promotions: repository.NewPromotionRepository(pool),
			orders:     repository.NewOrderRepository(pool),
		}
	case "memory":
		seed, err := memory.DecodeSeed(db.SeedSweets)
		if err != nil {
			return errors.Wrap(err, "decode seed")
		}
		st = stores{
			sweets:     memory.NewSweetStore(seed),
			reviews:    memory.NewReviewStore(),
			promotions: memory.NewPromotionStore(),
			orders:     memory.NewOrderStore(),
		}
	default:
		return errors.Errorf("unknown storage backend %q", cfg.Storage)
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Domain services.
	aggregator := review.NewAggregator(st.reviews)
	promoEngine := promotion.NewEngine(st.promotions)
	settlement := order.NewService(st.sweets, st.orders)

	// HTTP handler.
	h := httpapi.NewHandler(
		httpapi.HandlerConfig{
			DeliveryFee: decimal.NewFromInt(int64(cfg.DeliveryFee)),
			AuthSecret:  []byte(cfg.AuthSecret),
		},
		st.sweets,
		aggregator,
		promoEngine,
		settlement,
		st.orders,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	instrumented := otelhttp.NewHandler(mux, "sweetshop",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
