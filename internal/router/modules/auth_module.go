package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-blood-donation/internal/interface/http"
	"github.com/oksasatya/go-blood-donation/internal/interface/middleware"
)

// AuthModule wires registration and session routes.
// Public: POST /api/register, POST /api/login, POST /api/refresh
// Protected: POST /api/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   Guard
}

func NewAuthModule(h *handlers.AuthHandler, g Guard) *AuthModule {
	return &AuthModule{Handler: h, Guard: g}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Guard.Limit(5, middleware.KeyByIPAndPath()), m.Handler.Register)
	rg.POST("/login", m.Guard.Limit(10, middleware.KeyByIP()), m.Handler.Login)
	rg.POST("/refresh", m.Guard.Limit(60, middleware.KeyByIP()), m.Handler.Refresh)

	auth := m.Guard.Protected(rg)
	auth.POST("/logout", m.Handler.Logout)
}
