// Package handlers exposes the shell's local HTTP surface: the entry
// points the packaged UI drives for auth, notifications and push.
package handlers

import (
	"net/http"

	"edunest/backend"
	"edunest/middleware"
	"edunest/models"
	"edunest/services/notification"
	"edunest/services/push"
	"edunest/services/session"
	"edunest/store"
	"edunest/utils"

	"github.com/gin-gonic/gin"
)

// Handler bundles the shell endpoints with their dependencies.
type Handler struct {
	Sessions      session.SessionService
	Notifications notification.NotificationStore
	Bridge        *push.Bridge
	Simulator     *push.SimulatorPlugin
	Backend       *backend.Client
	State         store.KV
}

func New(sessions session.SessionService, notifs notification.NotificationStore, bridge *push.Bridge, sim *push.SimulatorPlugin, api *backend.Client, state store.KV) *Handler {
	return &Handler{
		Sessions:      sessions,
		Notifications: notifs,
		Bridge:        bridge,
		Simulator:     sim,
		Backend:       api,
		State:         state,
	}
}

type loginRequest struct {
	Token          string                 `json:"token" binding:"required"`
	Role           string                 `json:"role" binding:"required"`
	UserGUID       string                 `json:"userGuid"`
	UserID         string                 `json:"userId" binding:"required"`
	StudentContext *models.StudentContext `json:"studentContext"`
}

// Login stores the credentials handed over by the login page and kicks
// off the post-login bootstrap. The bootstrap outcome never fails the
// request.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login payload", err.Error())
		return
	}

	if err := h.Sessions.Login(c.Request.Context(), req.Token, req.Role, req.UserGUID, req.UserID, req.StudentContext); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"landing": middleware.DefaultLanding(req.Role),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.Sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Session reports the current identity. isAuthenticated is the weak,
// token-only flag consumed by badges and status chrome.
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"session":         h.Sessions.Current(),
		"isAuthenticated": h.Sessions.IsAuthenticated(),
	})
}

// ListNotifications returns the received list with the unread badge.
func (h *Handler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.Notifications.List(),
		"unreadCount":   h.Notifications.UnreadCount(),
	})
}

// MarkNotificationRead decrements the unread badge. The id is optional
// and currently informational only.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	_ = c.ShouldBindJSON(&req)
	h.Notifications.MarkAsRead(c.Request.Context(), req.ID)
	c.JSON(http.StatusOK, gin.H{"unreadCount": h.Notifications.UnreadCount()})
}

func (h *Handler) ClearNotifications(c *gin.Context) {
	h.Notifications.ClearAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PushDeliver feeds a foreground delivery through the simulated
// platform plugin, exactly as a native push would arrive.
func (h *Handler) PushDeliver(c *gin.Context) {
	var payload push.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid push payload", err.Error())
		return
	}
	h.Simulator.DeliverForeground(payload)
	c.JSON(http.StatusOK, gin.H{"status": "delivered"})
}

// PushTap feeds a tray tap through the simulated platform plugin.
func (h *Handler) PushTap(c *gin.Context) {
	var payload push.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid push payload", err.Error())
		return
	}
	h.Simulator.DeliverTap(payload)
	c.JSON(http.StatusOK, gin.H{"status": "tapped"})
}

// PushTrayClear simulates the user clearing the system tray.
func (h *Handler) PushTrayClear(c *gin.Context) {
	h.Bridge.NotifyTrayCleared()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PushToken reads back the stored device token.
func (h *Handler) PushToken(c *gin.Context) {
	token, _ := h.State.Get(c.Request.Context(), store.KeyPushToken)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// PushTest asks the backend to send a test push at this device.
func (h *Handler) PushTest(c *gin.Context) {
	ctx := c.Request.Context()
	token, ok := h.State.Get(ctx, store.KeyPushToken)
	if !ok || token == "" {
		utils.JSONError(c, http.StatusConflict, "No push token", "device is not registered for push notifications")
		return
	}

	req := models.TestPushRequest{
		Token: token,
		Title: "Test Notification",
		Body:  "This is a test push notification from EduNest ERP",
		Data:  map[string]string{"screen": "dashboard"},
	}
	if err := h.Backend.SendTestPush(ctx, req); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to send test notification", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (h *Handler) MasterClasses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"classes": h.Sessions.MasterClasses()})
}

func (h *Handler) MasterSubjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"subjects": h.Sessions.MasterSubjects()})
}

// FirstReset proxies the forced first-login password reset.
func (h *Handler) FirstReset(c *gin.Context) {
	var req models.FirstResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid reset payload", err.Error())
		return
	}
	if err := h.Backend.FirstReset(c.Request.Context(), req); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Password reset failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Page renders a placeholder for a role-gated UI page.
func (h *Handler) Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"page": name,
			"role": h.Sessions.Role(),
		})
	}
}
