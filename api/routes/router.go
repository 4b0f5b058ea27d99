package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/atelier-backend/api/controllers"
	"github.com/angelmondragon/atelier-backend/api/middleware"
	"github.com/angelmondragon/atelier-backend/api/responses"
	"github.com/angelmondragon/atelier-backend/internal/catalog"
	"github.com/angelmondragon/atelier-backend/internal/orders"
	"github.com/angelmondragon/atelier-backend/internal/payments"
	"github.com/angelmondragon/atelier-backend/pkg/config"
	"github.com/angelmondragon/atelier-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/atelier-backend/pkg/errors"
	"github.com/angelmondragon/atelier-backend/pkg/logger"
	"github.com/angelmondragon/atelier-backend/pkg/metrics"
	"github.com/angelmondragon/atelier-backend/pkg/redis"
)

// NewRouter wires the storefront API. redisClient and reg may be nil; without
// Redis retried writes are not replayed and without a registry /metrics is
// not mounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	reg *prometheus.Registry,
	catalogService catalog.Service,
	ordersService orders.Service,
	checkoutService payments.Service,
) http.Handler {
	r := chi.NewRouter()

	var (
		redisPinger controllers.Pinger
		idemStore   redis.IdempotencyStore
	)
	if redisClient != nil {
		redisPinger = redisClient
		idemStore = redisClient
	}

	var httpMetrics *metrics.HTTPMetrics
	if reg != nil {
		httpMetrics = metrics.NewHTTPMetrics(reg)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})
	if reg != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	}

	idempotent := middleware.Idempotency(idemStore, logg)

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/detail/{id}", controllers.ProductDetail(catalogService, logg))
			r.Get("/{category}", controllers.ProductsByCategory(catalogService, logg))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.EventList(catalogService, logg))
			r.Get("/{id}", controllers.EventDetail(catalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(idempotent).Post("/", controllers.PlaceOrder(checkoutService, logg))
			r.Get("/{id}", controllers.GetOrder(ordersService, logg))
		})

		r.Route("/paypal", func(r chi.Router) {
			r.With(idempotent).Post("/create-payment", controllers.CreatePayment(checkoutService, logg))
			r.With(idempotent).Post("/execute-payment", controllers.ExecutePayment(checkoutService, logg))
		})

		r.Get("/about", controllers.About())
	})

	return r
}
