package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arshoplabs/arshop-backend/api/controllers"
	"github.com/arshoplabs/arshop-backend/api/middleware"
	adminsvc "github.com/arshoplabs/arshop-backend/internal/admin"
	authsvc "github.com/arshoplabs/arshop-backend/internal/auth"
	cartsvc "github.com/arshoplabs/arshop-backend/internal/cart"
	catalogsvc "github.com/arshoplabs/arshop-backend/internal/catalog"
	checkoutsvc "github.com/arshoplabs/arshop-backend/internal/checkout"
	orderssvc "github.com/arshoplabs/arshop-backend/internal/orders"
	"github.com/arshoplabs/arshop-backend/pkg/auth/session"
	"github.com/arshoplabs/arshop-backend/pkg/config"
	"github.com/arshoplabs/arshop-backend/pkg/logger"
	"github.com/arshoplabs/arshop-backend/pkg/metrics"
	"github.com/arshoplabs/arshop-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	Sessions    session.Checker
	AuthService authsvc.Service
	Register    authsvc.RegisterService
	Catalog     catalogsvc.Service
	Cart        cartsvc.Service
	Checkout    checkoutsvc.Service
	Orders      orderssvc.Service
	Admin       adminsvc.Service
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if p.HTTPMetrics != nil {
		r.Use(middleware.Metrics(p.HTTPMetrics))
	}

	var cache controllers.Pinger
	if p.Redis != nil {
		cache = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, cache, logg))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", controllers.Home(p.Catalog, logg))
	r.Get("/products", controllers.ListProducts(p.Catalog, logg))
	r.Get("/product/{productID}", controllers.GetProduct(p.Catalog, logg))
	r.Get("/product/{productID}/ar", controllers.GetProductAR(p.Catalog, logg))

	if p.Redis != nil {
		loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
		registerPolicy := middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit)
		r.With(middleware.AuthRateLimit(p.Redis, registerPolicy, logg)).Post("/register", controllers.Register(p.Register, logg))
		r.With(middleware.AuthRateLimit(p.Redis, loginPolicy, logg)).Post("/login", controllers.Login(p.AuthService, logg))
	} else {
		r.Post("/register", controllers.Register(p.Register, logg))
		r.Post("/login", controllers.Login(p.AuthService, logg))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))

		r.Get("/logout", controllers.Logout(p.AuthService, logg))
		r.Get("/me", controllers.Me(p.AuthService, logg))

		r.Post("/add_to_cart/{productID}", controllers.AddToCart(p.Cart, logg))
		r.Post("/update_cart/{cartItemID}", controllers.UpdateCart(p.Cart, logg))
		r.Get("/cart", controllers.ViewCart(p.Cart, logg))
		r.Get("/remove_from_cart/{cartItemID}", controllers.RemoveFromCart(p.Cart, logg))

		r.Get("/checkout", controllers.CheckoutPreview(p.Checkout, logg))
		r.Post("/checkout", controllers.Checkout(p.Checkout, logg))

		r.Get("/orders", controllers.ListOrders(p.Orders, logg))
		r.Get("/orders/{orderID}", controllers.GetOrder(p.Orders, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/dashboard", controllers.AdminDashboard(p.Admin, logg))
			r.Get("/products", controllers.AdminListProducts(p.Catalog, logg))
		})
	})

	return r
}
