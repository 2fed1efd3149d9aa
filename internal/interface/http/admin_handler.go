package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/application"
	"github.com/oksasatya/go-blood-donation/pkg/response"
)

type AdminHandler struct {
	Svc    *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

// ListUnverified GET /api/admin/users/unverified
func (h *AdminHandler) ListUnverified(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	us, err := h.Svc.ListUnverified(c.Request.Context(), a)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, usersView(us), "unverified users", map[string]any{"count": len(us)}))
}

// Verify POST /api/admin/users/:id/verify
func (h *AdminHandler) Verify(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	u, err := h.Svc.Verify(c.Request.Context(), a, id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, userView(u), "user verified", nil))
}
