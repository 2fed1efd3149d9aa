package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/internal/interface/middleware"
	"github.com/oksasatya/go-blood-donation/pkg/helpers"
)

// Guard builds the middleware chains shared by feature modules.
type Guard struct {
	Redis *redis.Client
	JWT   *helpers.JWTManager
}

// Limit returns a fixed-window limiter of max requests per minute.
func (g Guard) Limit(max int, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(g.Redis, max, time.Minute, key, nil)
}

// Protected returns a group that requires a session, optionally restricted to roles.
// Every protected route gets a soft per-IP and per-user limit.
func (g Guard) Protected(rg *gin.RouterGroup, roles ...entity.Role) *gin.RouterGroup {
	grp := rg.Group("/")
	grp.Use(
		middleware.Auth(g.Redis, g.JWT),
		g.Limit(300, middleware.KeyByIP()),
		g.Limit(120, middleware.KeyByUserID()),
	)
	if len(roles) > 0 {
		grp.Use(middleware.RequireRole(roles...))
	}
	return grp
}
