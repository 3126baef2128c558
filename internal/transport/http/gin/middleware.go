package httpgin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/session"
)

const (
	ctxRequestID = "request_id"
	ctxSession   = "session"

	sessionCookie = "deskgo_session"
	sessionHeader = "X-Session-ID"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set(ctxRequestID, reqID)

		c.Next()
	}
}

func CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Requested-With",
			"X-Request-ID",
			sessionHeader,
			"Idempotency-Key",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			sessionHeader,
			"ETag",
			"Cache-Control",
			"Retry-After",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(cfg)
}

func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()
		reqID, _ := c.Get(ctxRequestID)

		attrs := []any{
			slog.Int("status", status),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.String("ua", c.Request.UserAgent()),
			slog.Any("request_id", reqID),
			slog.Duration("latency", latency),
			slog.Int("bytes_out", c.Writer.Size()),
		}
		if sess, ok := sessionFrom(c); ok && sess.User.ID != "" {
			attrs = append(attrs, slog.String("user_id", sess.User.ID))
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
			logger.Error("http", slog.Group("http", attrs...))
		} else {
			logger.Info("http", slog.Group("http", attrs...))
		}
	}
}

// SessionMiddleware loads the caller's session from the cookie or the
// X-Session-ID header and writes it back once the handler has run. Requests
// without a live session get 401.
func SessionMiddleware(store session.Store, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sessionID(c)
		if id == "" {
			abortJSON(c, http.StatusUnauthorized, ErrorResponse{Error: "not signed in", Code: codeUnauthenticated})
			return
		}

		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				abortJSON(c, http.StatusUnauthorized, ErrorResponse{Error: "session expired", Code: codeSessionExpired})
				return
			}
			_ = c.Error(err)
			abortJSON(c, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
			return
		}

		c.Set(ctxSession, sess)
		c.Next()

		if err := session.Persist(context.WithoutCancel(c.Request.Context()), store, sess); err != nil {
			logger.ErrorContext(c.Request.Context(), "persist session",
				slog.String("session_id", sess.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// RequireAdmin must run after SessionMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFrom(c)
		if !ok || !sess.User.IsAdmin() {
			abortJSON(c, http.StatusForbidden, ErrorResponse{Error: "administrator role required"})
			return
		}
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	if v, err := c.Cookie(sessionCookie); err == nil && v != "" {
		return v
	}
	return c.GetHeader(sessionHeader)
}

func sessionFrom(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}

func mustSession(c *gin.Context) *session.Session {
	sess, _ := sessionFrom(c)
	return sess
}

func abortJSON(c *gin.Context, status int, body ErrorResponse) {
	c.AbortWithStatusJSON(status, body)
}
