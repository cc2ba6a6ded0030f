package api

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/CodeAfu/apu-code-collab-api/internal/auth"
	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

const refreshCookieName = "refresh_token"

// apuIDRe matches campus IDs: TP (students) or TC (teaching staff) followed
// by six digits.
var apuIDRe = regexp.MustCompile(`^T[CP]\d{6}$`)

type registerRequest struct {
	APUID     string `json:"apu_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// setRefreshCookie stores the refresh token in an HTTP-only cookie scoped to
// the whole API. Secure is tied to the environment so local HTTP still works.
func (h *Handler) setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, maxAge, "/", "", h.cfg.IsProduction(), true)
}

// Register handles POST /api/v1/auth/register. Public registration creates
// student accounts only.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
		return
	}
	if !apuIDRe.MatchString(req.APUID) {
		renderError(c, http.StatusUnprocessableEntity, codeValidationFailed, "apu_id must match TP/TC followed by six digits")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		renderError(c, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
		return
	}

	ctx := c.Request.Context()
	taken, err := h.users.Exists(ctx, req.Email, req.APUID)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	if taken {
		renderError(c, http.StatusConflict, codeEmailTaken, "an account with this email or campus ID already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	user, err := h.users.Create(ctx, &storage.User{
		APUID:        req.APUID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         storage.RoleStudent,
		IsActive:     true,
	})
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/token, the password grant. The access token
// is returned in the body; the refresh token is additionally set as an
// HTTP-only cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		renderError(c, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken, int(h.cfg.Auth.RefreshTTL.Seconds()))
	c.JSON(http.StatusOK, pair)
}

// RefreshToken handles POST /api/v1/auth/refresh: the refresh cookie is
// exchanged for a new access token.
func (h *Handler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		renderError(c, http.StatusUnauthorized, codeRefreshTokenMissing, "missing refresh token")
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken, int(h.cfg.Auth.RefreshTTL.Seconds()))
	c.JSON(http.StatusOK, pair)
}

// Logout handles POST /api/v1/auth/logout: revokes the refresh token when
// one is present and clears the cookie either way.
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(refreshCookieName); err == nil && token != "" {
		if err := h.auth.Revoke(c.Request.Context(), token); err != nil {
			// An already-revoked or unknown token still logs the client out.
			h.log.WarnContext(c.Request.Context(), "logout revoke failed", "err", err)
		}
	}

	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
