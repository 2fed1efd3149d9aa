package router

import "github.com/gin-gonic/gin"

// Module is a feature that mounts its own routes, guards included.
type Module interface {
	Register(rg *gin.RouterGroup)
}
