package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"villa-ops-backend/internal/model"
)

type putStaffDeviceRequest struct {
	StaffID         string `json:"staffId" binding:"required"`
	ExpoPushToken   string `json:"expoPushToken"`
	FCMToken        string `json:"fcmToken"`
	WebPushEndpoint string `json:"webPushEndpoint"`
	WebPushP256DH   string `json:"webPushP256dh"`
	WebPushAuth     string `json:"webPushAuth"`
}

// PutStaffDevice registers (or re-registers) a push target for a staff
// member. At least one channel must be supplied; a web-push registration
// needs its full key set.
func (h *Handler) PutStaffDevice(c *gin.Context) {
	var req putStaffDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	if req.ExpoPushToken == "" && req.FCMToken == "" && req.WebPushEndpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "at least one push target is required"})
		return
	}
	if req.WebPushEndpoint != "" && (req.WebPushP256DH == "" || req.WebPushAuth == "") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "web push registration requires p256dh and auth keys"})
		return
	}

	device := &model.StaffDevice{
		ID:              uuid.NewString(),
		StaffID:         req.StaffID,
		ExpoPushToken:   req.ExpoPushToken,
		FCMToken:        req.FCMToken,
		WebPushEndpoint: req.WebPushEndpoint,
		WebPushP256DH:   req.WebPushP256DH,
		WebPushAuth:     req.WebPushAuth,
		Active:          true,
	}
	if err := h.store.SaveStaffDevice(c.Request.Context(), device); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "deviceId": device.ID})
}

type deleteStaffDeviceRequest struct {
	Target string `json:"target" binding:"required"`
}

// DeleteStaffDevice removes a registered push target (token or endpoint).
func (h *Handler) DeleteStaffDevice(c *gin.Context) {
	var req deleteStaffDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	if err := h.store.DeleteStaffDeviceTarget(c.Request.Context(), req.Target); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
