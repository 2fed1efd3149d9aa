package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/application"
	"github.com/oksasatya/go-blood-donation/pkg/response"
)

type DashboardHandler struct {
	Svc    *application.DashboardService
	Logger *logrus.Logger
}

func NewDashboardHandler(svc *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Logger: logger}
}

// Get GET /api/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	d, err := h.Svc.For(c.Request.Context(), a)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, dashboardView(d), "dashboard", nil))
}
