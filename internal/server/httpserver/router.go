package httpserver

import (
	"net/http"
	"net/netip"

	"github.com/yndnr/chatmesh/internal/core/service"
	"github.com/yndnr/chatmesh/internal/server/httpserver/handler"
	"github.com/yndnr/chatmesh/internal/telemetry/logger"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	TokenService   *service.TokenService
	SessionService *service.SessionService
	ChatService    *service.ChatService

	// Logger is attached to every request context.
	Logger logger.Logger

	// Metrics records per-request metrics. Nil disables them.
	Metrics HTTPObserver

	// MetricsHandler serves GET /metrics. Nil leaves the route unregistered.
	MetricsHandler http.Handler

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// TrustedProxies lists the peers whose forwarding headers are believed
	// when resolving the client address.
	TrustedProxies []netip.Prefix

	// RateLimit is the per-IP request rate in requests/second. Zero disables it.
	RateLimit float64

	// RateBurst is the per-IP burst size.
	RateBurst int

	// DisableAccessLog turns off per-request logging.
	DisableAccessLog bool
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// Order, outermost first: RequestID, RealIP, AccessLog, Metrics, Recover, CORS,
// RateLimit, handler.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.TokenService, cfg.SessionService, cfg.ChatService)
	if cfg.MetricsHandler != nil {
		h.Handle("GET /metrics", cfg.MetricsHandler)
	}

	middlewares := []Middleware{RequestID(cfg.Logger), RealIP(cfg.TrustedProxies)}
	if !cfg.DisableAccessLog {
		middlewares = append(middlewares, AccessLog())
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, Metrics(cfg.Metrics, h.Route))
	}
	middlewares = append(middlewares, Recover(), CORS(cfg.CORSAllowedOrigins))
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.RateBurst))
	}

	return Chain(h, middlewares...)
}
