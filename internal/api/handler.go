package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"villa-ops-backend/internal/apperr"
	"villa-ops-backend/internal/assignment"
	"villa-ops-backend/internal/progress"
	"villa-ops-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	tracker     *progress.Tracker
	assignments *assignment.Service
	store       store.Store
}

// NewHandler creates a new API handler.
func NewHandler(tracker *progress.Tracker, assignments *assignment.Service, s store.Store) *Handler {
	return &Handler{
		tracker:     tracker,
		assignments: assignments,
		store:       s,
	}
}

// respondError maps the error taxonomy onto HTTP: validation failures are
// the caller's fault, everything else is a persistence-level 500. Internal
// details never leak into the message for 500s.
func respondError(c *gin.Context, err error) {
	if apperr.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
}
