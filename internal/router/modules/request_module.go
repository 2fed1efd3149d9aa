package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-blood-donation/internal/interface/http"
	"github.com/oksasatya/go-blood-donation/internal/interface/middleware"
)

// RequestModule wires blood request intake and donor responses.
// Role checks live in the services so errors stay domain specific.
type RequestModule struct {
	Handler *handlers.RequestHandler
	Guard   Guard
}

func NewRequestModule(h *handlers.RequestHandler, g Guard) *RequestModule {
	return &RequestModule{Handler: h, Guard: g}
}

func (m *RequestModule) Register(rg *gin.RouterGroup) {
	auth := m.Guard.Protected(rg)
	auth.POST("/requests", m.Guard.Limit(20, middleware.KeyByUserIDAndPath()), m.Handler.Create)
	auth.GET("/requests", m.Handler.List)
	auth.GET("/requests/:id", m.Handler.Get)
	auth.PATCH("/requests/:id/status", m.Handler.UpdateStatus)
	auth.POST("/requests/:id/respond", m.Handler.Respond)
}
