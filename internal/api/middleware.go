package api

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

// userContextKey is the gin context key the auth middleware stores the
// resolved user under.
const userContextKey = "auth.user"

// Recovery returns a middleware that recovers from panics, logs the stack
// trace, and returns a 500 envelope so the server continues serving.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger.Error("panic recovered",
					"panic", r,
					"stack", string(stack),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				renderError(c, http.StatusInternalServerError, codeInternalError, "internal server error")
			}
		}()
		c.Next()
	}
}

// Tracing returns a middleware that injects OTEL trace context into each
// request using otelgin. The serviceName is attached to each span.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// RequestLogger returns a middleware that emits a structured slog line for
// every request with method, path, status, and latency.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// userResolver resolves a bearer access token to the user it belongs to.
// Implemented by *auth.Service.
type userResolver interface {
	CurrentUser(ctx context.Context, accessToken string) (*storage.User, error)
}

// RequireAuth returns a middleware that validates the Authorization bearer
// token and stores the resolved user in the request context. Requests without
// a valid access token are rejected with a 401 envelope.
func RequireAuth(resolver userResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			renderError(c, http.StatusUnauthorized, codeAuthenticationFailed, "missing bearer token")
			return
		}

		user, err := resolver.CurrentUser(c.Request.Context(), token)
		if err != nil {
			renderServiceError(c, err)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRole returns a middleware that rejects requests whose authenticated
// user holds none of the given roles. It must run after RequireAuth.
func RequireRole(roles ...storage.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			renderError(c, http.StatusUnauthorized, codeAuthenticationFailed, "missing bearer token")
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		renderError(c, http.StatusForbidden, codeInvalidPermission, "you are not allowed to access this endpoint")
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

// currentUser returns the user stored by RequireAuth, or nil on
// unauthenticated routes.
func currentUser(c *gin.Context) *storage.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*storage.User)
	return user
}
