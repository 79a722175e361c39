// Package http exposes the JSON API: estates, workers, expense and sale
// entry, and the period reports.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"farmledger/internal/middleware/ratelimit"
	"farmledger/internal/middleware/security"
	"farmledger/internal/middleware/trace"
	"farmledger/internal/services"
)

type Server struct {
	http.Server

	estates  *services.EstateService
	workers  *services.WorkerService
	expenses *services.ExpenseService
	sales    *services.SaleService
	reports  *services.ReportService

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. Writes are rate limited per client IP; every response carries the
// security header set.
func NewServer(addr string,
	estates *services.EstateService,
	workers *services.WorkerService,
	expenses *services.ExpenseService,
	sales *services.SaleService,
	reports *services.ReportService,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		estates:  estates,
		workers:  workers,
		expenses: expenses,
		sales:    sales,
		reports:  reports,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector: security.NewDetector(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/estates", s.handleEstates)
	mux.HandleFunc("/api/workers", s.handleWorkers)
	mux.HandleFunc("/api/workers/pay", s.handlePayWage)
	mux.HandleFunc("/api/expenses", s.handleCreateExpense)
	mux.HandleFunc("/api/expenses/report", s.handleExpenseReport)
	mux.HandleFunc("/api/sales", s.handleCreateSale)
	mux.HandleFunc("/api/sales/report", s.handleSaleReport)
	mux.HandleFunc("/api/report", s.handleReport)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)

	var handler http.Handler = mux
	handler = s.guard(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// guard rejects flagged requests and rate limits writes.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request rejected",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		if r.Method == http.MethodPost {
			clientIP := s.detector.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the rate limiter and the HTTP server. Safe to call more
// than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
