package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/laundryline/laundryline-backend/api/controllers"
	"github.com/laundryline/laundryline-backend/api/middleware"
	"github.com/laundryline/laundryline-backend/internal/orders"
	"github.com/laundryline/laundryline-backend/internal/stock"
	"github.com/laundryline/laundryline-backend/pkg/config"
	"github.com/laundryline/laundryline-backend/pkg/db"
	"github.com/laundryline/laundryline-backend/pkg/logger"
	pkgredis "github.com/laundryline/laundryline-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	stockService stock.Service,
	ordersService orders.Service,
	promRegistry *prometheus.Registry,
) http.Handler {
	var (
		idemStore pkgredis.IdempotencyStore
		redisP    pkgredis.Pinger
	)
	if redisClient != nil {
		idemStore = redisClient
		redisP = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/stock", func(r chi.Router) {
		r.Get("/all", controllers.ListStock(stockService, logg))
		r.Get("/analytics", controllers.StockAnalytics(stockService, logg))
		r.Get("/alerts", controllers.StockAlerts(stockService, logg))
		r.Get("/{itemId}", controllers.GetStock(stockService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Idempotency(idemStore, logg))
			r.Post("/{itemId}/consume", controllers.ConsumeStock(stockService, logg))
			r.Post("/{itemId}/add", controllers.AddStock(stockService, logg))
		})
	})

	r.Route("/worker/orders", func(r chi.Router) {
		r.Get("/", controllers.WorkerOrders(ordersService, logg))
		r.With(middleware.Idempotency(idemStore, logg)).
			Post("/{orderId}/complete", controllers.CompleteOrder(ordersService, logg))
	})

	return r
}
