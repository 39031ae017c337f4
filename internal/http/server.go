package http

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	applog "shiftpay/internal/log"
	"shiftpay/internal/middleware/ratelimit"
	"shiftpay/internal/middleware/security"
	"shiftpay/internal/middleware/trace"
	"shiftpay/internal/services"
)

// Server exposes the ledger as a JSON API. Handlers that touch the ledger run
// one at a time under mu; the service itself is single-threaded.
type Server struct {
	http.Server

	mu      sync.Mutex
	svc     *services.LedgerService
	limiter *ratelimit.Limiter
	tracer  *trace.Middleware
	logger  *applog.Logger

	// Forwarding headers are honored only from these peers.
	trustedProxies []netip.Prefix

	shutdownOnce sync.Once
}

// Option adjusts a Server before its handler chain is built.
type Option func(*Server)

// WithTrustedProxies lets requests arriving from these networks name the
// client through X-Forwarded-For or X-Real-IP.
func WithTrustedProxies(prefixes []netip.Prefix) Option {
	return func(s *Server) {
		s.trustedProxies = prefixes
	}
}

func NewServer(addr string, svc *services.LedgerService, logger *applog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		svc:     svc,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		logger:  logger.WithComponent(applog.ComponentHTTP),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracer = trace.NewMiddleware(s.clientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/months/{ym}/summary", s.locked(s.handleSummary))
	mux.HandleFunc("GET /api/months/{ym}/meals", s.locked(s.handleMeals))
	mux.HandleFunc("GET /api/months/{ym}/calendar", s.locked(s.handleCalendar))

	mux.HandleFunc("GET /api/days/{date}", s.locked(s.handleGetDay))
	mux.HandleFunc("PUT /api/days/{date}", s.locked(s.handlePutDay))
	mux.HandleFunc("DELETE /api/days/{date}", s.locked(s.handleDeleteDay))

	mux.HandleFunc("GET /api/settings", s.locked(s.handleGetSettings))
	mux.HandleFunc("PUT /api/settings", s.locked(s.handlePutSettings))

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.clientIP)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// locked serializes access to the ledger service.
func (s *Server) locked(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, r)
	}
}

// Shutdown stops the limiter, drains the HTTP server and logs the request
// counters gathered while it ran.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)

		traffic := s.tracer.GetMetrics()
		limits := s.limiter.GetMetrics()
		s.logger.InfoContext(ctx, "HTTP server stopped",
			applog.FieldOperation, applog.OpShutdown,
			"total_requests", traffic.TotalRequests,
			"avg_response_ms", traffic.AverageResponseTime.Milliseconds(),
			"rate_limited", limits.Rejected,
			"clients", limits.ClientCount)
	})
	return err
}

// clientIP is the peer address, or the client named by a forwarding header
// when the peer is a trusted proxy. X-Forwarded-For is read right to left and
// the first address outside the trusted set wins.
func (s *Server) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !s.trusted(host) {
		return host
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			if !s.trusted(hop) || i == 0 {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		if _, err := netip.ParseAddr(ip); err == nil {
			return ip
		}
	}
	return host
}

func (s *Server) trusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range s.trustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.svc == nil {
		http.Error(w, "ledger not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
