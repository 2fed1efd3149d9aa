package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blood-donation/pkg/response"
)

func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	// 10.0.0.0/8, 172.16/12, 192.168/16, fc00::/7, loopback
	return parsed.IsLoopback() || parsed.IsPrivate()
}

// AllowPrivateIP lets RateLimit skip callers on loopback or private networks.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		return isPrivateIP(ipFromCtx(c))
	}
}

// RequirePrivateIP rejects callers outside loopback and private networks with 404,
// so internal endpoints are not advertised.
func RequirePrivateIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isPrivateIP(ipFromCtx(c)) {
			response.Abort(c, response.Error[any](c, http.StatusNotFound, "not found", nil))
			return
		}
		c.Next()
	}
}
