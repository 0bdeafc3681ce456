package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/catalog"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/matcher"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/service"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/health"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/middleware"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Catalog         *catalog.Catalog
	Matcher         *matcher.Matcher
	CartService     *service.CartService
	ChatService     *service.ChatService
	CheckoutService *service.CheckoutService
	HealthHandler   *health.Handler
	Logger          *slog.Logger
	CORS            middleware.CORSConfig
	PprofCIDRs      []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, deps.PprofCIDRs, deps.Logger)

	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Matcher, deps.Logger)
	cartHandler := NewCartHandler(deps.CartService, deps.Logger)
	chatHandler := NewChatHandler(deps.ChatService, deps.Logger)
	checkoutHandler := NewCheckoutHandler(deps.CheckoutService, deps.Logger)

	// Catalog is public and session-free.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", catalogHandler.ListProducts)
		r.Get("/match", catalogHandler.MatchProduct)
		r.Get("/{id}", catalogHandler.GetProduct)
	})

	// Cart, chat and checkout are scoped to the browser session.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionFromHeader)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/commands", cartHandler.ApplyCommand)
		r.Post("/items", cartHandler.AddItem)
		r.Patch("/items/{productID}", cartHandler.UpdateItem)
		r.Delete("/items/{productID}", cartHandler.RemoveItem)
	})

	r.Route("/api/v1/chat", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionFromHeader)

		r.Post("/messages", chatHandler.SendMessage)
		r.Get("/transcript", chatHandler.GetTranscript)
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionFromHeader)

		r.Post("/", checkoutHandler.Submit)
	})

	return r
}
