package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-blood-donation/internal/interface/http"
	"github.com/oksasatya/go-blood-donation/internal/interface/middleware"
)

// UserModule wires the caller's own account routes.
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   Guard
}

func NewUserModule(h *handlers.UserHandler, g Guard) *UserModule {
	return &UserModule{Handler: h, Guard: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := m.Guard.Protected(rg)
	auth.GET("/profile", m.Handler.GetProfile)
	auth.PUT("/profile", m.Handler.UpdateProfile)
	auth.POST("/profile/avatar", m.Guard.Limit(10, middleware.KeyByUserIDAndPath()), m.Handler.UploadAvatar)
}
