// Package httpapi exposes the ledger over a JSON HTTP API.
package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendwise/internal/insight"
	"spendwise/internal/ledger"
	"spendwise/internal/log"
)

// InsightGenerator produces a plain-text financial insight from a snapshot.
type InsightGenerator interface {
	Generate(ctx context.Context, snap insight.Snapshot) (string, error)
}

type Server struct {
	http.Server
	ledger       *ledger.Service
	advisor      InsightGenerator
	rateLimiter  *rateLimiter
	reqLog       *log.StructuredLogger
	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes, returning a ready-to-run http.Server. advisor
// may be nil; the insight endpoint then reports unavailable.
func NewServer(addr string, svc *ledger.Service, advisor InsightGenerator) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:      svc,
		advisor:     advisor,
		rateLimiter: newRateLimiter(),
		reqLog:      log.NewStructuredLogger(log.NewFromEnv(log.ComponentHTTP)),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/accounts", s.withSecurityHeaders(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.withSecurityHeaders(s.handleCreateAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.withSecurityHeaders(s.handleDeleteAccount))
	mux.HandleFunc("GET /api/networth", s.withSecurityHeaders(s.handleNetWorth))

	mux.HandleFunc("POST /api/transfers", s.withSecurityHeaders(s.handleTransfer))
	mux.HandleFunc("POST /api/loans", s.withSecurityHeaders(s.handleAddLoan))

	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withSecurityHeaders(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSecurityHeaders(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/budgets", s.withSecurityHeaders(s.handleBudgetProgress))
	mux.HandleFunc("GET /api/budgets/top", s.withSecurityHeaders(s.handleTopBudgets))
	mux.HandleFunc("PUT /api/budgets", s.withSecurityHeaders(s.handleSetBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.withSecurityHeaders(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/recurring", s.withSecurityHeaders(s.handleListRecurring))
	mux.HandleFunc("POST /api/recurring", s.withSecurityHeaders(s.handleCreateRecurring))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.withSecurityHeaders(s.handleDeleteRecurring))

	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withSecurityHeaders(s.handleCreateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withSecurityHeaders(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/summary/monthly", s.withSecurityHeaders(s.handleMonthlySummaries))
	mux.HandleFunc("GET /api/summary/trends", s.withSecurityHeaders(s.handleDailyTrends))
	mux.HandleFunc("GET /api/summary/alert", s.withSecurityHeaders(s.handleSpendingAlert))
	mux.HandleFunc("GET /api/insight", s.withSecurityHeaders(s.handleInsight))
	mux.HandleFunc("GET /api/export/transactions.csv", s.withSecurityHeaders(s.handleExportCSV))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.reqLog.LogHTTPStart(ctx, r, clientIP, requestID)

		// Rate-limit writes only; reads are local and cheap.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.reqLog.LogHTTPEnd(ctx, r, rw.statusCode, duration.Milliseconds(), clientIP, requestID)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
