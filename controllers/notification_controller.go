package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_carnival_tool/app"
	"Gin_postgres_redis_carnival_tool/db"
	"Gin_postgres_redis_carnival_tool/models"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ *Srv }

func NewNotificationController(s *Srv) *NotificationController {
	return &NotificationController{Srv: s}
}

// GET /api/notifications?unread=1
func (nc *NotificationController) List(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}
	unreadOnly := c.Query("unread") == "1"
	ns, err := nc.Repo.ListNotifications(c.Request.Context(), uid, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	unread, _ := nc.Repo.CountUnread(c.Request.Context(), uid)
	c.JSON(http.StatusOK, app.H{"notifications": ns, "unread": unread})
}

// POST /api/notifications/:id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}
	if err := nc.Repo.MarkNotificationRead(c.Request.Context(), c.Param("id"), uid); err != nil {
		if errors.Is(err, db.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": err.Error(), "code": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/notifications/read-all
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}
	if err := nc.Repo.MarkAllNotificationsRead(c.Request.Context(), uid); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/push/subscribe — 浏览器把 PushSubscription 原样交上来
func (nc *NotificationController) Subscribe(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}
	var in struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	sub := &models.PushSubscription{
		UserID:   uid,
		Endpoint: in.Endpoint,
		P256dh:   in.Keys.P256dh,
		Auth:     in.Keys.Auth,
	}
	if err := nc.Repo.SavePushSubscription(c.Request.Context(), sub); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"ok": true})
}

// POST /api/push/unsubscribe
func (nc *NotificationController) Unsubscribe(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}
	var in struct {
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := nc.Repo.DeletePushSubscription(c.Request.Context(), uid, in.Endpoint); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
