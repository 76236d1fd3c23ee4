package http

import (
	"context"
	"net/http"
	"time"

	"expensetracker/internal/log"
	"expensetracker/internal/middleware/recovery"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	"expensetracker/internal/ports"
)

const readinessTimeout = 2 * time.Second

type Server struct {
	http.Server
	expWriter ports.ExpenseWriter
	expLister ports.ExpenseLister
	totals    ports.TotalsReader
	health    ports.HealthChecker
	validator *RequestValidator
	tracer    *trace.Middleware
	clientIP  *security.ClientIPExtractor
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, ew ports.ExpenseWriter, lr ports.ExpenseLister, tr ports.TotalsReader, hc ports.HealthChecker, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	mux := http.NewServeMux()
	ipExtractor := security.NewClientIPExtractor()
	tracer := trace.NewMiddleware(logger, ipExtractor.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: tracer.Middleware(headers.Middleware(recovery.Middleware(mux))),
		},
		expWriter: ew,
		expLister: lr,
		totals:    tr,
		health:    hc,
		validator: NewRequestValidator(),
		tracer:    tracer,
		clientIP:  ipExtractor,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("GET /expenses/month/{year}/{month}", s.handleListMonthlyExpenses)
	mux.HandleFunc("GET /totals", s.handleTotals)

	return s
}

// TrustProxies adds networks whose X-Forwarded-For and X-Real-IP headers are
// believed when resolving the client address. Call before serving.
func (s *Server) TrustProxies(cidrs ...string) error {
	for _, cidr := range cidrs {
		if err := s.clientIP.AddTrustedProxy(cidr); err != nil {
			return err
		}
	}
	return nil
}

// Metrics returns request counters collected by the tracing middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
