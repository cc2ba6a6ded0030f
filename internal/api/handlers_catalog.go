package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type catalogEntryRequest struct {
	Name string `json:"name" binding:"required"`
}

// addedByID returns the ID of the authenticated user, or nil on routes that
// somehow reach a catalog mutation without one.
func addedByID(c *gin.Context) *string {
	if user := currentUser(c); user != nil {
		id := user.ID
		return &id
	}
	return nil
}

// --- programming languages ---

// ListLanguages handles GET /api/v1/programming_languages/.
func (h *Handler) ListLanguages(c *gin.Context) {
	langs, err := h.catalog.ListLanguages(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, langs)
}

// CountLanguages handles GET /api/v1/programming_languages/count.
func (h *Handler) CountLanguages(c *gin.Context) {
	langs, err := h.catalog.ListLanguages(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, len(langs))
}

// GetLanguage handles GET /api/v1/programming_languages/:id.
func (h *Handler) GetLanguage(c *gin.Context) {
	lang, err := h.catalog.GetLanguage(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lang)
}

// CreateLanguage handles POST /api/v1/programming_languages.
func (h *Handler) CreateLanguage(c *gin.Context) {
	var req catalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
		return
	}

	inserted, err := h.catalog.CreateLanguage(c.Request.Context(), req.Name, addedByID(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	if !inserted {
		renderError(c, http.StatusConflict, codeValidationFailed, "a programming language with this name already exists")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

// UpdateLanguage handles PUT /api/v1/programming_languages/:id.
func (h *Handler) UpdateLanguage(c *gin.Context) {
	var req catalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
		return
	}

	if err := h.catalog.UpdateLanguage(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "name": req.Name})
}

// DeleteLanguage handles DELETE /api/v1/programming_languages/:id.
func (h *Handler) DeleteLanguage(c *gin.Context) {
	if err := h.catalog.DeleteLanguage(c.Request.Context(), c.Param("id")); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "programming language deleted"})
}

// --- frameworks ---

// ListFrameworks handles GET /api/v1/frameworks/.
func (h *Handler) ListFrameworks(c *gin.Context) {
	fws, err := h.catalog.ListFrameworks(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fws)
}

// CountFrameworks handles GET /api/v1/frameworks/count.
func (h *Handler) CountFrameworks(c *gin.Context) {
	fws, err := h.catalog.ListFrameworks(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, len(fws))
}

// GetFramework handles GET /api/v1/frameworks/:id.
func (h *Handler) GetFramework(c *gin.Context) {
	fw, err := h.catalog.GetFramework(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fw)
}

// CreateFramework handles POST /api/v1/frameworks.
func (h *Handler) CreateFramework(c *gin.Context) {
	var req catalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
		return
	}

	inserted, err := h.catalog.CreateFramework(c.Request.Context(), req.Name, addedByID(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	if !inserted {
		renderError(c, http.StatusConflict, codeValidationFailed, "a framework with this name already exists")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

// UpdateFramework handles PUT /api/v1/frameworks/:id.
func (h *Handler) UpdateFramework(c *gin.Context) {
	var req catalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
		return
	}

	if err := h.catalog.UpdateFramework(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "name": req.Name})
}

// DeleteFramework handles DELETE /api/v1/frameworks/:id.
func (h *Handler) DeleteFramework(c *gin.Context) {
	if err := h.catalog.DeleteFramework(c.Request.Context(), c.Param("id")); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "framework deleted"})
}

// --- university courses ---

// ListCourses handles GET /api/v1/university_courses.
func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}
