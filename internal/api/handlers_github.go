package api

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

const stateCookieName = "gh_oauth_state"

// stateToken mints the opaque CSRF state echoed back on the OAuth callback.
func stateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GitHubLogin handles GET /api/v1/auth/github/login. It redirects to the
// GitHub authorize page and pins the state in a short-lived cookie.
func (h *Handler) GitHubLogin(c *gin.Context) {
	state, err := stateToken()
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, 600, "/", "", h.cfg.IsProduction(), true)
	c.Redirect(http.StatusTemporaryRedirect, h.github.AuthorizeURL(state))
}

// GitHubCallback handles GET /api/v1/auth/github/callback. The GitHub account
// is linked to the existing local account that shares its email; users
// without an account are bounced to registration. On success the client is
// redirected to the frontend with a fresh session cookie pair.
func (h *Handler) GitHubCallback(c *gin.Context) {
	frontend := h.cfg.GitHub.FrontendURL

	state := c.Query("state")
	cookieState, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != cookieState {
		c.Redirect(http.StatusTemporaryRedirect, frontend+"/login?error=github_state_mismatch")
		return
	}

	ctx := c.Request.Context()
	accessToken, err := h.github.ExchangeCode(ctx, c.Query("code"))
	if err != nil {
		renderServiceError(c, err)
		return
	}

	profile, err := h.github.FetchUser(ctx, accessToken)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	if profile.Email == "" {
		c.Redirect(http.StatusTemporaryRedirect, frontend+"/login?error=github_no_email")
		return
	}

	user, err := h.users.GetByEmail(ctx, profile.Email)
	if errors.Is(err, storage.ErrNotFound) {
		// No local account yet: GitHub linking requires registering with
		// campus credentials first.
		c.Redirect(http.StatusTemporaryRedirect, frontend+"/register?error=no_account&email="+profile.Email)
		return
	}
	if err != nil {
		renderServiceError(c, err)
		return
	}

	if err := h.users.LinkGitHub(ctx, user.ID, profile.ID, profile.Login, accessToken, profile.AvatarURL); err != nil {
		renderServiceError(c, err)
		return
	}

	pair, err := h.auth.IssuePair(ctx, user)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", pair.AccessToken, int(h.cfg.Auth.AccessTTL.Seconds()), "/", "", h.cfg.IsProduction(), true)
	h.setRefreshCookie(c, pair.RefreshToken, int(h.cfg.Auth.RefreshTTL.Seconds()))
	c.Redirect(http.StatusTemporaryRedirect, frontend+"/auth/callback")
}

// GitHubDisconnect handles POST /api/v1/auth/github/disconnect.
func (h *Handler) GitHubDisconnect(c *gin.Context) {
	user := currentUser(c)
	if user.GitHubID == nil {
		renderError(c, http.StatusBadRequest, codeValidationFailed, "no GitHub account linked")
		return
	}

	if err := h.users.UnlinkGitHub(c.Request.Context(), user.ID); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "GitHub account disconnected successfully"})
}

// GitHubStatus handles GET /api/v1/auth/github/status.
func (h *Handler) GitHubStatus(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"connected":         user.GitHubID != nil,
		"github_username":   user.GitHubUsername,
		"github_avatar_url": user.GitHubAvatarURL,
	})
}
