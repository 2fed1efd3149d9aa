package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-blood-donation/internal/interface/http"
)

type NotificationModule struct {
	Handler *handlers.NotificationHandler
	Guard   Guard
}

func NewNotificationModule(h *handlers.NotificationHandler, g Guard) *NotificationModule {
	return &NotificationModule{Handler: h, Guard: g}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	auth := m.Guard.Protected(rg)
	auth.GET("/notifications", m.Handler.List)
	auth.POST("/notifications/:id/read", m.Handler.MarkRead)
}
