package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	handlers "github.com/oksasatya/go-blood-donation/internal/interface/http"
)

// AdminModule wires account verification. Admin role only.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Guard   Guard
}

func NewAdminModule(h *handlers.AdminHandler, g Guard) *AdminModule {
	return &AdminModule{Handler: h, Guard: g}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := m.Guard.Protected(rg, entity.RoleAdmin)
	admin.GET("/admin/users/unverified", m.Handler.ListUnverified)
	admin.POST("/admin/users/:id/verify", m.Handler.Verify)
}
