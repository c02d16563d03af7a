package api

import (
	"log/slog"
	"net/http"
	"time"
)

// AuditEvent identifies the type of security-relevant action being logged.
type AuditEvent string

const (
	AuditLoginSuccess      AuditEvent = "login_success"
	AuditLoginFailure      AuditEvent = "login_failure"
	AuditSessionExpired    AuditEvent = "session_expired"
	AuditLogout            AuditEvent = "logout"
	AuditQueryFailure      AuditEvent = "query_failure"
	AuditTokenPersistError AuditEvent = "token_persist_failed"
	AuditTokenReadFailed   AuditEvent = "token_read_failed"
)

// auditLogger wraps slog.Logger for structured security audit logging.
type auditLogger struct {
	logger *slog.Logger
}

func newAuditLogger(logger *slog.Logger) *auditLogger {
	return &auditLogger{
		logger: logger.With("component", "audit"),
	}
}

func (al *auditLogger) log(level slog.Level, event AuditEvent, r *http.Request, attrs ...slog.Attr) {
	baseAttrs := []slog.Attr{
		slog.String("event", string(event)),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	baseAttrs = append(baseAttrs, attrs...)
	al.logger.LogAttrs(r.Context(), level, "audit", baseAttrs...)
}

// logEvent records a successful action tied to a Kite user ID.
func (al *auditLogger) logEvent(event AuditEvent, r *http.Request, userID string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("user_id", userID),
	}
	attrs = append(attrs, extra...)
	al.log(slog.LevelInfo, event, r, attrs...)
}

// logFailure logs a failed authentication or upstream call.
func (al *auditLogger) logFailure(event AuditEvent, r *http.Request, reason string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("reason", reason),
	}
	attrs = append(attrs, extra...)
	al.log(slog.LevelInfo, event, r, attrs...)
}

// logWarning records a non-fatal persistence failure. The request proceeds.
func (al *auditLogger) logWarning(event AuditEvent, r *http.Request, reason string) {
	al.log(slog.LevelWarn, event, r, slog.String("reason", reason))
}
