package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CodeAfu/apu-code-collab-api/internal/auth"
	"github.com/CodeAfu/apu-code-collab-api/internal/github"
	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

// Error codes used in the response envelope. Clients branch on these, not on
// the human-readable message.
const (
	codeAuthenticationFailed = "AUTHENTICATION_FAILED"
	codeTokenExpired         = "TOKEN_EXPIRED"
	codeTokenRevoked         = "TOKEN_REVOKED"
	codeInvalidToken         = "INVALID_TOKEN"
	codeRefreshTokenMissing  = "REFRESH_TOKEN_MISSING"
	codeUserNotFound         = "USER_NOT_FOUND"
	codeUserNotActive        = "USER_NOT_ACTIVE"
	codeEmailTaken           = "EMAIL_TAKEN"
	codeNotFound             = "NOT_FOUND"
	codeValidationFailed     = "VALIDATION_FAILED"
	codeInvalidPermission    = "INVALID_PERMISSION"
	codeRateLimited          = "RATE_LIMIT_EXCEEDED"
	codeGitHubUnavailable    = "GITHUB_UNAVAILABLE"
	codeInternalError        = "INTERNAL_SERVER_ERROR"
)

// renderError writes the error envelope every non-2xx response uses:
// {"success": false, "error": CODE, "message": …}.
func renderError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   code,
		"message": message,
	})
}

// renderServiceError maps domain sentinel errors onto HTTP statuses and
// envelope codes. Unknown errors become an opaque 500.
func renderServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		renderError(c, http.StatusUnauthorized, codeAuthenticationFailed, "could not validate user")
	case errors.Is(err, auth.ErrTokenExpired):
		renderError(c, http.StatusUnauthorized, codeTokenExpired, "token has expired")
	case errors.Is(err, auth.ErrTokenRevoked):
		renderError(c, http.StatusUnauthorized, codeTokenRevoked, "token has been revoked")
	case errors.Is(err, auth.ErrWrongTokenType), errors.Is(err, auth.ErrInvalidToken):
		renderError(c, http.StatusUnauthorized, codeInvalidToken, "token is invalid")
	case errors.Is(err, auth.ErrUserInactive):
		renderError(c, http.StatusUnauthorized, codeUserNotActive, "account is deactivated")
	case errors.Is(err, auth.ErrUserNotFound):
		renderError(c, http.StatusNotFound, codeUserNotFound, "user not found")
	case errors.Is(err, storage.ErrNotFound):
		renderError(c, http.StatusNotFound, codeNotFound, "resource not found")
	case errors.Is(err, github.ErrUnavailable),
		errors.Is(err, github.ErrExchangeFailed),
		errors.Is(err, github.ErrProfileFailed):
		renderError(c, http.StatusBadGateway, codeGitHubUnavailable, "GitHub is unavailable")
	default:
		renderError(c, http.StatusInternalServerError, codeInternalError, "internal server error")
	}
}
