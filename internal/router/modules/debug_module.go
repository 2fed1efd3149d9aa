package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blood-donation/internal/interface/middleware"
)

// DebugModule exposes expvar counters (requests created, notifications
// written, responses, emails enqueued) to private networks only.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", middleware.RequirePrivateIP(), gin.WrapH(expvar.Handler()))
}
