package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/auth"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/service"
)

// Error codes carried in the response envelope alongside the message.
const (
	codeValidation        = "validation"
	codeInsufficientStock = "insufficient_stock"
	codeUnauthorized      = "unauthorized"
	codeForbidden         = "forbidden"
	codeNotFound          = "not_found"
	codeUnavailable       = "unavailable"
	codeInternal          = "internal"
)

type Server struct {
	inventory *service.InventoryService
	auth      *auth.Service
	mux       *http.ServeMux
	logger    *slog.Logger
}

func NewServer(inventory *service.InventoryService, authSvc *auth.Service, logger *slog.Logger) *Server {
	s := &Server{
		inventory: inventory,
		auth:      authSvc,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /auth/signup", s.handleSignUp)
	s.mux.HandleFunc("POST /auth/signin", s.handleSignIn)
	s.mux.HandleFunc("POST /auth/verify", s.handleVerify)
	s.mux.HandleFunc("POST /auth/verification", s.withSession(s.handleResendVerification))
	s.mux.HandleFunc("GET /auth/session", s.withSession(s.handleSession))
	s.mux.HandleFunc("POST /auth/signout", s.withSession(s.handleSignOut))

	s.mux.HandleFunc("GET /items", s.withSession(s.handleListItems))
	s.mux.HandleFunc("POST /items", s.withVerified(s.handleCreateItem))
	s.mux.HandleFunc("GET /items/{id}", s.withSession(s.handleGetItem))
	s.mux.HandleFunc("PATCH /items/{id}", s.withVerified(s.handleUpdateItem))
	s.mux.HandleFunc("DELETE /items/{id}", s.withVerified(s.handleDeleteItem))

	s.mux.HandleFunc("POST /movements", s.withVerified(s.handleApplyMovement))

	s.mux.HandleFunc("GET /transactions", s.withSession(s.handleListTransactions))
	s.mux.HandleFunc("PATCH /transactions/{id}", s.withVerified(s.handleUpdateTransaction))
	s.mux.HandleFunc("DELETE /transactions/{id}", s.withVerified(s.handleDeleteTransaction))

	s.mux.HandleFunc("GET /dashboard", s.withSession(s.handleDashboard))
	s.mux.HandleFunc("GET /reports/weekly", s.withSession(s.handleWeeklyReport))
	s.mux.HandleFunc("GET /reports/weekly/export", s.withSession(s.handleWeeklyExport))
	s.mux.HandleFunc("GET /reports/weekly/insights", s.withSession(s.handleWeeklyInsights))

	s.mux.HandleFunc("GET /events/items", s.withSession(s.handleItemEvents))
	s.mux.HandleFunc("GET /events/transactions", s.withSession(s.handleTransactionEvents))
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so SSE responses keep streaming
// through the logging middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s,
		ReadTimeout: 60 * time.Second,
		// WriteTimeout stays unset: the event stream endpoints hold their
		// response open for the lifetime of the subscription.
		IdleTimeout: 120 * time.Second,
	}
	return srv.ListenAndServe()
}

// sessionHandler is a handler that runs with an authenticated session.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *auth.Session)

// withSession requires a valid bearer token and passes the decoded
// session to the handler.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
			return
		}
		sess, err := s.auth.ParseToken(token)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired session")
			return
		}
		next(w, r, sess)
	}
}

// withVerified additionally requires the session's email to be verified.
// Unverified accounts can read their data but not change it.
func (s *Server) withVerified(next sessionHandler) http.HandlerFunc {
	return s.withSession(func(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
		if !sess.Verified {
			s.respondError(w, http.StatusForbidden, codeForbidden, "email verification required")
			return
		}
		next(w, r, sess)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, codeValidation, "malformed request body")
		return false
	}
	return true
}
