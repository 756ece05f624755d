package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/shopcart/internal/shop/service"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/aussiebroadwan/shopcart/pkg/httpx"
	"github.com/aussiebroadwan/shopcart/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/shopcart/api/shop" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger is an optional dependency probed by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	CredentialService *service.CredentialService
	TokenAuthority    *service.TokenAuthority
	CartService       *service.CartService
	ProductService    *service.ProductService

	RateLimits httpx.RateLimits
	Metrics    *httpx.HTTPMetrics  // Optional: request metrics
	Gatherer   prometheus.Gatherer // Optional: serves GET /metrics
	Denylist   Pinger              // Optional: reported by /readyz when set
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		RateLimits:   httpx.DefaultRateLimits(),
	}
}

// ApplyRoutes registers every route and freezes the global middleware chain.
// Metrics wrap the mux directly so the matched pattern is visible.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerCatalog()
	r.registerCart()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}
	if r.Metrics != nil {
		r.middlewares = append(r.middlewares, r.Metrics.Middleware())
	}
	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Shopcart API
//	@version		0.1.0
//	@description	Shopping cart backend with username/password accounts and HS256 bearer tokens.
//	@description
//	@description				Obtain a token from POST /token and send it as "Authorization: Bearer {token}".
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/shopcart
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(tokenAuthenticator{tokens: r.TokenAuthority})
}

func (r *Router) registerAuth() {
	// POST /token - rate limited by IP to slow password guessing
	r.Mux.Handle("POST /token",
		httpx.Chain(&TokenHandler{
			CredentialService: r.CredentialService,
			TokenAuthority:    r.TokenAuthority,
		}, httpx.RateLimitByIP(r.RateLimits.Login, r.RateLimits.ClientIP())),
	)

	r.Mux.Handle("POST /register",
		httpx.Chain(&RegisterHandler{CredentialService: r.CredentialService},
			httpx.RateLimitByIP(r.RateLimits.Register, r.RateLimits.ClientIP()),
		),
	)

	r.Mux.Handle("POST /logout",
		httpx.Chain(&LogoutHandler{TokenAuthority: r.TokenAuthority},
			r.authn(),
			httpx.RateLimitByUser(r.RateLimits.Public, r.RateLimits.ClientIP()),
		),
	)
}

func (r *Router) registerCatalog() {
	r.Mux.Handle("GET /products",
		httpx.Chain(&ProductsHandler{ProductService: r.ProductService},
			httpx.RateLimitByIP(r.RateLimits.Public, r.RateLimits.ClientIP()),
		),
	)
}

func (r *Router) registerCart() {
	h := &CartHandler{CartService: r.CartService}

	// Adding is limited per user+IP like the original add-to-cart throttle.
	r.Mux.Handle("POST /cart",
		httpx.Chain(http.HandlerFunc(h.HandleAdd),
			r.authn(),
			httpx.RateLimitByUser(r.RateLimits.Cart, r.RateLimits.ClientIP()),
		),
	)
	r.Mux.Handle("GET /cart",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authn(),
			httpx.RateLimitByUser(r.RateLimits.Public, r.RateLimits.ClientIP()),
		),
	)
	r.Mux.Handle("DELETE /cart/{item_id}",
		httpx.Chain(http.HandlerFunc(h.HandleRemove),
			r.authn(),
			httpx.RateLimitByUser(r.RateLimits.Public, r.RateLimits.ClientIP()),
		),
	)
	r.Mux.Handle("PATCH /cart/{item_id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			r.authn(),
			httpx.RateLimitByUser(r.RateLimits.Public, r.RateLimits.ClientIP()),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.RateLimits.Public, r.RateLimits.ClientIP()),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Denylist),
			httpx.RateLimitByIP(r.RateLimits.Public, r.RateLimits.ClientIP()),
		),
	)

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))
	}
}
