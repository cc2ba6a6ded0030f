package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

// Root handles GET /.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API is running"})
}

// Health handles GET /health. It always returns 200 — this is the liveness
// probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"mode":   "shallow",
	})
}

// DeepHealth handles GET /health/deep. It runs every dependency probe
// concurrently and returns 200 only when all of them pass.
func (h *Handler) DeepHealth(c *gin.Context) {
	results := make(map[string]storage.ProbeResult, len(h.probers))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(c.Request.Context())
	for _, p := range h.probers {
		g.Go(func() error {
			r := p.Probe(ctx)
			mu.Lock()
			results[r.Name] = r
			mu.Unlock()
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	allOK := true
	for _, r := range results {
		if !r.OK {
			allOK = false
			break
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !allOK {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":       status,
		"dependencies": results,
	})
}

// Ready handles GET /ready. It returns 200 only after the boot pipeline has
// run to completion; 503 otherwise.
func (h *Handler) Ready(c *gin.Context) {
	if h.boot.Ready() {
		c.JSON(http.StatusOK, gin.H{"ready": true})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
}
