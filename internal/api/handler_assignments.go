package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"villa-ops-backend/internal/assignment"
)

// GetAssignments handles GET /api/assignments.
func (h *Handler) GetAssignments(c *gin.Context) {
	assignments, stats := h.assignments.ListAssignments(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"stats":       stats,
		"timestamp":   time.Now().UTC(),
	})
}

// PostAssignment handles POST /api/assignments.
func (h *Handler) PostAssignment(c *gin.Context) {
	var in assignment.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	created, err := h.assignments.CreateAssignment(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": created})
}

type updateAssignmentRequest struct {
	AssignmentID string `json:"assignmentId"`
	Status       string `json:"status"`
	ETA          *int   `json:"eta,omitempty"`
}

// PutAssignment handles PUT /api/assignments.
func (h *Handler) PutAssignment(c *gin.Context) {
	var req updateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	ack, err := h.assignments.UpdateAssignmentStatus(c.Request.Context(), req.AssignmentID, req.Status, req.ETA)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "update": ack})
}
