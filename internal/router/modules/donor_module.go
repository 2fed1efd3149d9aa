package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	handlers "github.com/oksasatya/go-blood-donation/internal/interface/http"
)

// DonorModule wires donor profile, availability and search routes.
type DonorModule struct {
	Handler *handlers.DonorHandler
	Guard   Guard
}

func NewDonorModule(h *handlers.DonorHandler, g Guard) *DonorModule {
	return &DonorModule{Handler: h, Guard: g}
}

func (m *DonorModule) Register(rg *gin.RouterGroup) {
	donor := m.Guard.Protected(rg, entity.RoleDonor)
	donor.GET("/donor/profile", m.Handler.GetProfile)
	donor.PUT("/donor/profile", m.Handler.UpsertProfile)
	donor.POST("/donor/availability/toggle", m.Handler.ToggleAvailability)
	donor.GET("/donations/mine", m.Handler.MyDonations)

	search := m.Guard.Protected(rg, entity.RoleRequester, entity.RoleAdmin)
	search.GET("/donors/search", m.Handler.Search)
}
