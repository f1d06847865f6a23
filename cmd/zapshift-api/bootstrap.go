package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/ZapShift/config"
	"github.com/BearBump/ZapShift/internal/api/httpapi"
	"github.com/BearBump/ZapShift/internal/broker/kafka"
	"github.com/BearBump/ZapShift/internal/cache"
	"github.com/BearBump/ZapShift/internal/cache/rediscache"
	"github.com/BearBump/ZapShift/internal/integrations/payment"
	"github.com/BearBump/ZapShift/internal/integrations/payment/fake"
	"github.com/BearBump/ZapShift/internal/integrations/payment/stripepay"
	"github.com/BearBump/ZapShift/internal/logging"
	"github.com/BearBump/ZapShift/internal/services/parcels"
	"github.com/BearBump/ZapShift/internal/services/payments"
	"github.com/BearBump/ZapShift/internal/services/trackings"
	"github.com/BearBump/ZapShift/internal/services/users"
	"github.com/BearBump/ZapShift/internal/storage/memstore"
	"github.com/BearBump/ZapShift/internal/storage/mongostore"
	"github.com/BearBump/ZapShift/internal/storage/pgstore"
)

type store interface {
	parcels.Repository
	users.Repository
	payments.Repository
	trackings.Repository
	Ping(ctx context.Context) error
	Close()
}

type apiApp struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    apiOpts
	handler http.Handler
	svc     *trackings.Service

	// consumer stays a nil interface when Kafka is not configured.
	consumer kafkaConsumer
	closers  []func()
}

func mustBootstrapAPI() *apiApp {
	cfg, err := config.LoadFromEnv(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	app := &apiApp{}
	st := mustOpenStoreWithRetry(cfg.Store, 60*time.Second)
	app.closers = append(app.closers, st.Close)

	var (
		historyCache cache.VersionedCache
		limiter      httpapi.IntentLimiter
	)
	if addr := cfg.Redis.Address(); addr != "" {
		rc := rediscache.New(addr)
		rl := rediscache.NewRateLimiter(addr)
		historyCache, limiter = rc, rl
		app.closers = append(app.closers, func() { _ = rc.Close() }, func() { _ = rl.Close() })
		slog.Info("redis enabled", "addr", addr)
	}

	parcelSvc := parcels.New(st)
	userSvc := users.New(st)
	paymentSvc := payments.New(st, newGateway(cfg.Payment))
	trackingSvc := trackings.New(st, historyCache, cfg.Redis.TrackingHistoryTTL())

	checks := map[string]httpapi.ReadinessCheck{}
	var ingest *ingestStatus
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		producer := kafka.NewProducer(brokers)
		paymentSvc.WithEvents(producer, cfg.Kafka.ParcelPaidTopic)
		trackingSvc.WithEvents(producer, cfg.Kafka.TrackingAppendedTopic)

		consumer := kafka.NewIngestConsumer(brokers, cfg.Kafka.TrackingIngestTopic, cfg.Kafka.ConsumerGroup)
		app.consumer = consumer
		ingest = &ingestStatus{}
		checks["ingest"] = ingest.Check
		app.closers = append(app.closers, func() { _ = producer.Close() }, func() { _ = consumer.Close() })
		slog.Info("kafka enabled", "brokers", brokers)
	}

	api := httpapi.New(parcelSvc, userSvc, paymentSvc, trackingSvc, httpapi.Options{
		SwaggerPath:          cfg.Server.SwaggerPath,
		CORSAllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		Store:                st,
		Checks:               checks,
		IntentLimiter:        limiter,
		IntentLimitPerMinute: int64(cfg.Payment.IntentRateLimitPerMinute),
	})

	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app.opts = apiOpts{
		httpAddr:        cfg.Server.Addr(),
		swaggerPath:     cfg.Server.SwaggerPath,
		shutdownTimeout: cfg.Server.ShutdownTimeout(),
		ingestTopic:     cfg.Kafka.TrackingIngestTopic,
		consumerGroup:   cfg.Kafka.ConsumerGroup,
		ingest:          ingest,
	}
	app.handler = api.Router()
	app.svc = trackingSvc
	return app
}

// newGateway talks to Stripe when a secret key is configured and falls back
// to the in-process gateway otherwise.
func newGateway(cfg config.PaymentConfig) payment.Gateway {
	if cfg.SecretKey == "" {
		slog.Warn("no payment gateway secret configured, using fake gateway")
		return fake.New()
	}
	return stripepay.New(stripepay.Config{
		SecretKey: cfg.SecretKey,
		BaseURL:   cfg.BaseURL,
	})
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store, error) {
	switch cfg.Driver {
	case config.StoreDriverMongo:
		return mongostore.New(ctx, cfg.Mongo.ConnString(), cfg.Mongo.DBName)
	case config.StoreDriverPostgres:
		return pgstore.New(ctx, cfg.Postgres.ConnString())
	case config.StoreDriverMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func mustOpenStoreWithRetry(cfg config.StoreConfig, wait time.Duration) store {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		st, err := openStore(ctx, cfg)
		cancel()
		if err == nil {
			slog.Info("store connected", "driver", cfg.Driver)
			return st
		}
		lastErr = err
		slog.Warn("store not ready", "driver", cfg.Driver, "error", err.Error())
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("%s store is not ready after %s: %v", cfg.Driver, wait, lastErr))
}

func (a *apiApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *apiApp) Run() error {
	return runAPI(a.ctx, a.opts, a.handler, a.svc, a.consumer)
}
