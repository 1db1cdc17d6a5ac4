package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"villa-ops-backend/internal/progress"
)

// PostJobProgress handles POST /api/job-progress.
func (h *Handler) PostJobProgress(c *gin.Context) {
	var update progress.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	snap, err := h.tracker.SubmitProgress(c.Request.Context(), update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"jobId":              snap.JobID,
		"progressPercentage": snap.ProgressPercentage,
		"currentStage":       snap.CurrentStage,
		"delayRisk":          snap.DelayRisk,
		"lastUpdate":         snap.LastUpdate,
		"message":            "progress recorded",
	})
}

// GetJobProgress handles GET /api/job-progress?jobId=...
// Unknown jobs yield a default not-started snapshot, never a 404.
func (h *Handler) GetJobProgress(c *gin.Context) {
	jobID := c.Query("jobId")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "jobId is required"})
		return
	}

	snap, err := h.tracker.GetProgress(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "progress": snap})
}
