package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/application"
	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/pkg/response"
)

type NotificationHandler struct {
	Svc    *application.NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *application.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

// List GET /api/notifications?all=true
// Unread only unless all is set.
func (h *NotificationHandler) List(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	all, _ := strconv.ParseBool(c.Query("all"))
	var (
		ns  []entity.Notification
		err error
	)
	if all {
		limit, _ := strconv.Atoi(c.Query("limit"))
		ns, err = h.Svc.List(c.Request.Context(), a.ID, limit)
	} else {
		ns, err = h.Svc.ListUnread(c.Request.Context(), a.ID)
	}
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, notificationsView(ns), "notifications", map[string]any{"count": len(ns)}))
}

// MarkRead POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Svc.MarkRead(c.Request.Context(), a.ID, id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"id": id, "is_read": true}, "notification marked as read", nil))
}
