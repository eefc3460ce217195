package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance writing to stdout
func New() *Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter creates a logger writing to w. Tests pass a buffer.
func NewWithWriter(w io.Writer) *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Text handler reads better during development
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogHTTPRequest logs a finished request at a level matching its status.
// The route template is logged rather than the raw path so ids stay out of
// the message grouping.
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	status := c.Writer.Status()
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}

	l.Logger.LogAttrs(c.Request.Context(), level,
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("route", route),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", status),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_id", c.GetString("user_id")),
		slog.Int("size", c.Writer.Size()),
	)
}

// Business logic logging methods

// LogShowsAdded logs when an admin schedules shows for a movie
func (l *Logger) LogShowsAdded(ctx context.Context, movieID string, count int) {
	l.Logger.InfoContext(ctx,
		"Shows Added",
		slog.String("movie_id", movieID),
		slog.Int("count", count),
	)
}

// LogBookingCreated logs when a booking is created and its seats are held
func (l *Logger) LogBookingCreated(ctx context.Context, bookingID, showID, userID string, seats []string) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.String("booking_id", bookingID),
		slog.String("show_id", showID),
		slog.String("user_id", userID),
		slog.Any("seats", seats),
	)
}

// LogBookingPaid logs a confirmed payment
func (l *Logger) LogBookingPaid(ctx context.Context, bookingID string) {
	l.Logger.InfoContext(ctx,
		"Booking Paid",
		slog.String("booking_id", bookingID),
	)
}

// LogBookingReleased logs when an unpaid booking is deleted and its seats freed
func (l *Logger) LogBookingReleased(ctx context.Context, bookingID, showID string, seats []string) {
	l.Logger.InfoContext(ctx,
		"Booking Released",
		slog.String("booking_id", bookingID),
		slog.String("show_id", showID),
		slog.Any("seats", seats),
	)
}

// LogSeatConflict logs a booking attempt that hit held seats
func (l *Logger) LogSeatConflict(ctx context.Context, showID, userID string, seats []string) {
	l.Logger.InfoContext(ctx,
		"Seat Conflict",
		slog.String("show_id", showID),
		slog.String("user_id", userID),
		slog.Any("seats", seats),
	)
}

// Security logging methods

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogWebhookRejected logs a webhook whose signature did not verify
func (l *Logger) LogWebhookRejected(ctx context.Context, source, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Webhook Rejected",
		slog.String("source", source),
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]any, 0, len(fields)+1)
	args = append(args, slog.Any("error", err))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

var defaultLogger = New()

// GetDefault returns the process-wide logger
func GetDefault() *Logger {
	return defaultLogger
}
