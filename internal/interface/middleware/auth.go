package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/pkg/helpers"
	"github.com/oksasatya/go-blood-donation/pkg/response"
)

// Auth validates the access token and ensures the matching session exists in Redis.
// On success it stores the caller as an entity.Actor (see ActorFrom) and
// sets userID for the per-user rate limiter.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.AccessCookie)
		if err != nil || token == "" {
			response.Abort(c, response.Error[any](c, http.StatusUnauthorized, "missing access token", nil))
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error()))
			return
		}

		data, err := rdb.HGetAll(c.Request.Context(), helpers.SessionKey(claims.UserID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			response.Abort(c, response.Error[any](c, http.StatusUnauthorized, "session not found", nil))
			return
		}
		role, err := entity.ParseRole(data["role"])
		if err != nil {
			response.Abort(c, response.Error[any](c, http.StatusUnauthorized, "session invalid", nil))
			return
		}
		verified, _ := strconv.ParseBool(data["is_verified"])

		SetActor(c, entity.Actor{ID: claims.UserID, Role: role, Verified: verified})
		c.Set("userName", data["name"])
		c.Set("userEmail", data["email"])
		c.Next()
	}
}
