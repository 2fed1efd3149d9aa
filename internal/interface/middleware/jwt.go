package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	ctxActorKey  = "actor"
)

// SetActor stores the authenticated caller on the request context.
func SetActor(c *gin.Context, a entity.Actor) {
	c.Set(ctxActorKey, a)
	c.Set(CtxUserIDKey, strconv.FormatInt(a.ID, 10))
}

// ActorFrom returns the caller stored by Auth.
func ActorFrom(c *gin.Context) (entity.Actor, bool) {
	v, ok := c.Get(ctxActorKey)
	if !ok {
		return entity.Actor{}, false
	}
	a, ok := v.(entity.Actor)
	return a, ok
}

// RequireRole aborts with 403 unless the caller has one of roles. Must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := ActorFrom(c)
		if !ok {
			response.Abort(c, response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil))
			return
		}
		for _, r := range roles {
			if a.Role == r {
				c.Next()
				return
			}
		}
		response.Abort(c, response.Error[any](c, http.StatusForbidden, "access denied", nil))
	}
}
