package router

import (
	"io"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-blood-donation/config"
	"github.com/oksasatya/go-blood-donation/internal/container"
	"github.com/oksasatya/go-blood-donation/internal/domain/repository/repotest"
	"github.com/oksasatya/go-blood-donation/pkg/helpers"
)

func TestInitModules_MountsEveryRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	container.SetConfig(&config.Config{DebugMetricsEnabled: true, RecentRequestsLimit: 5})
	container.SetLogger(logger)
	container.SetStore(repotest.NewStore())
	container.SetJWT(helpers.NewJWTManager("a", "r", 0, 0))

	reg := NewRegistry(gin.New())
	InitModules(reg)
	reg.RegisterAll()

	want := []string{
		"POST /api/register",
		"POST /api/login",
		"POST /api/refresh",
		"POST /api/logout",
		"GET /api/profile",
		"PUT /api/profile",
		"POST /api/profile/avatar",
		"GET /api/donor/profile",
		"PUT /api/donor/profile",
		"POST /api/donor/availability/toggle",
		"GET /api/donations/mine",
		"GET /api/donors/search",
		"POST /api/requests",
		"GET /api/requests",
		"GET /api/requests/:id",
		"PATCH /api/requests/:id/status",
		"POST /api/requests/:id/respond",
		"GET /api/notifications",
		"POST /api/notifications/:id/read",
		"GET /api/dashboard",
		"GET /api/admin/users/unverified",
		"POST /api/admin/users/:id/verify",
		"GET /api/debug/vars",
	}
	routes := reg.Routes()
	for _, r := range want {
		assert.Contains(t, routes, r)
	}
	assert.Len(t, routes, len(want))
}
