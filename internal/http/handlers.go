package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"teachjournal/internal/auth"
	"teachjournal/internal/core"
	applog "teachjournal/internal/log"
)

// handleHealthCheck is the public liveness probe with a timestamp.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	}).Write(w)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports ready only when the store answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.store == nil {
		checks["store"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else if err := s.store.Ping(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err.Error())
		checks["store"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	if s.teacherCache != nil {
		checks["teacher_cache"] = map[string]any{
			"entries": s.teacherCache.Size(),
			"status":  "ok",
		}
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	NewJSONResponse().Status(httpStatus).Body(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	cacheEntries := 0
	if s.teacherCache != nil {
		cacheEntries = s.teacherCache.Size()
	}

	w.WriteHeader(http.StatusOK)

	writeMetric(w, "http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	writeMetric(w, "http_client_errors_total", "counter", "Responses with a 4xx status", traceMetrics.ClientErrors)
	writeMetric(w, "http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors)
	writeMetric(w, "journal_entries_created_total", "counter", "Journal entries created", atomic.LoadInt64(&s.appMetrics.entriesCreated))
	writeMetric(w, "journal_entries_updated_total", "counter", "Journal entries updated", atomic.LoadInt64(&s.appMetrics.entriesUpdated))
	writeMetric(w, "journal_entries_deleted_total", "counter", "Journal entries deleted", atomic.LoadInt64(&s.appMetrics.entriesDeleted))
	writeMetric(w, "journal_access_denied_total", "counter", "Entry requests refused by the access guard", atomic.LoadInt64(&s.appMetrics.accessDenied))
	writeMetric(w, "teacher_cache_entries", "gauge", "Cached teacher lookups", int64(cacheEntries))
	writeMetric(w, "rate_limit_rejected_total", "counter", "Requests rejected by the rate limiter", rateLimitMetrics.Rejected)
	writeMetric(w, "active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	writeMetric(w, "suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	writeMetric(w, "uptime_seconds", "gauge", "Application uptime in seconds", int64(time.Since(s.appMetrics.uptime).Seconds()))
}

func writeMetric(w http.ResponseWriter, name, kind, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	fmt.Fprintf(w, "%s %d\n\n", name, value)
}

// identity returns the caller set by the auth middleware.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}

// writeServiceError maps service errors onto the wire. Forbidden and not
// found share one response so ids cannot be probed.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		ValidationErrorResponse(ve).Write(w)
	case errors.Is(err, core.ErrProfileNotFound):
		logger.WarnContext(ctx, "No teacher profile for identity",
			applog.FieldOperation, op,
			"email", identity(r).Email)
		ProfileNotFoundError().Write(w)
	case errors.Is(err, core.ErrForbidden), errors.Is(err, core.ErrNotFound):
		s.countDenied()
		logger.WarnContext(ctx, "Journal entry access denied",
			applog.FieldOperation, op,
			"reason", err.Error(),
			"path", r.URL.Path)
		ForbiddenError().Write(w)
	case errors.Is(err, errMalformedBody):
		BadRequestError(msgBadRequest).Write(w)
	default:
		applog.NewStructuredLogger(logger).LogError(ctx, "Journal request failed", err,
			applog.ComponentHTTP, op, applog.NewFields())
		InternalServerError().Write(w)
	}
}

// writeJSON is a shortcut for 200 responses with a value body.
func writeJSON(w http.ResponseWriter, v any) {
	NewJSONResponse().Body(v).Write(w)
}
