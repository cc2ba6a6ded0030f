package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

type shareRepositoryRequest struct {
	Name          string   `json:"name" binding:"required,max=50"`
	URL           string   `json:"url" binding:"required,url,max=200"`
	Description   *string  `json:"description" binding:"omitempty,max=1000"`
	Collaborators []string `json:"collaborators"`
	Contributors  []string `json:"contributors"`
	Skills        []string `json:"skills"`
}

// requireOwner rejects requests where the authenticated user is not the user
// named in the path. Admins pass regardless.
func requireOwner(c *gin.Context) (string, bool) {
	userID := c.Param("id")
	user := currentUser(c)
	if user == nil || (user.ID != userID && user.Role != storage.RoleAdmin) {
		renderError(c, http.StatusForbidden, codeInvalidPermission, "you can only manage your own repositories")
		return "", false
	}
	return userID, true
}

// ListRepositories handles GET /api/v1/users/:id/repositories. Shared
// repositories are part of the public portfolio, so no auth is required.
func (h *Handler) ListRepositories(c *gin.Context) {
	repos, err := h.repos.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	if repos == nil {
		repos = []storage.GithubRepository{}
	}
	c.JSON(http.StatusOK, repos)
}

// ShareRepository handles PUT /api/v1/users/:id/repositories: adds a
// repository to the profile, or refreshes its metadata when one with the
// same name is already shared.
func (h *Handler) ShareRepository(c *gin.Context) {
	userID, ok := requireOwner(c)
	if !ok {
		return
	}

	var req shareRepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
		return
	}

	repo := &storage.GithubRepository{
		UserID:        userID,
		Name:          req.Name,
		URL:           req.URL,
		Description:   req.Description,
		Collaborators: req.Collaborators,
		Contributors:  req.Contributors,
		Skills:        req.Skills,
	}
	if err := h.repos.Upsert(c.Request.Context(), repo); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, repo)
}

// DeleteRepository handles DELETE /api/v1/users/:id/repositories/:repo_id.
func (h *Handler) DeleteRepository(c *gin.Context) {
	userID, ok := requireOwner(c)
	if !ok {
		return
	}

	if err := h.repos.Delete(c.Request.Context(), userID, c.Param("repo_id")); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "repository removed"})
}
