// Package httpapi exposes the parcel, user, payment and tracking services over
// REST.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/BearBump/ZapShift/internal/services/parcels"
	"github.com/BearBump/ZapShift/internal/services/payments"
	"github.com/BearBump/ZapShift/internal/services/trackings"
	"github.com/BearBump/ZapShift/internal/services/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const livenessText = "Zap Shift Server is running"

type Pinger interface {
	Ping(ctx context.Context) error
}

// IntentLimiter counts payment intent requests per client address and
// calendar minute.
type IntentLimiter interface {
	AllowPaymentIntent(ctx context.Context, clientIP string, now time.Time, limit int64) (bool, time.Duration, error)
}

type Options struct {
	// SwaggerPath enables /swagger.json and /docs/* when non-empty.
	SwaggerPath        string
	CORSAllowedOrigins []string

	// Store is pinged by /readyz as the "store" check.
	Store Pinger
	// Checks are further /readyz checks by name, e.g. background consumers.
	Checks map[string]ReadinessCheck

	// IntentLimiter caps payment intent creation per client address and
	// minute. Nil disables the limit.
	IntentLimiter        IntentLimiter
	IntentLimitPerMinute int64
}

type API struct {
	parcels   *parcels.Service
	users     *users.Service
	payments  *payments.Service
	trackings *trackings.Service
	opts      Options

	now func() time.Time
}

func New(p *parcels.Service, u *users.Service, pay *payments.Service, t *trackings.Service, opts Options) *API {
	return &API{
		parcels:   p,
		users:     u,
		payments:  pay,
		trackings: t,
		opts:      opts,
		now:       time.Now,
	}
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := a.opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(livenessText))
	})
	r.Get("/healthz", a.healthz)
	r.Get("/readyz", a.readyz)

	if a.opts.SwaggerPath != "" {
		r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, a.opts.SwaggerPath)
		})
		r.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger.json"),
		))
	}

	r.Route("/parcels", func(r chi.Router) {
		r.Get("/", a.listParcels)
		r.Post("/", a.createParcel)
		r.Get("/{id}", a.getParcel)
		r.Delete("/{id}", a.deleteParcel)
	})

	r.Post("/users", a.registerUser)
	r.Get("/users/{email}", a.getUser)

	r.With(a.intentRateLimit).Post("/create-payment-intent", a.createPaymentIntent)
	r.Post("/payments", a.recordPayment)
	r.Get("/payments", a.listPayments)

	r.Get("/trackings/{trackingId}", a.trackingHistory)
	r.Post("/trackings", a.appendTracking)

	return r
}
