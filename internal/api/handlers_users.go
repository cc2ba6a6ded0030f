package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CodeAfu/apu-code-collab-api/internal/auth"
	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

type createUserRequest struct {
	APUID     string `json:"apu_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
}

// ListUsers handles GET /api/v1/users/. The listing is a development
// convenience and is refused outside development environments.
func (h *Handler) ListUsers(c *gin.Context) {
	if !h.cfg.IsDevelopment() {
		renderError(c, http.StatusForbidden, codeInvalidPermission, "you are not allowed to access this endpoint")
		return
	}

	users, err := h.users.List(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /api/v1/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /api/v1/users. Unlike public registration, the role
// is derived from the campus ID prefix, so staff accounts can be created.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
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
		Role:         storage.RoleFromAPUID(req.APUID),
		IsActive:     true,
	})
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// DeleteUser handles DELETE /api/v1/users/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
