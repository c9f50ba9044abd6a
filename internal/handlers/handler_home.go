package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHomeRoutes sets up the root route.
func RegisterHomeRoutes(r *gin.Engine) {
	r.GET("/", home)
}

// home godoc
// @Summary Service banner
// @Description Returns the service name, useful as a liveness hint for humans.
// @Tags home
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "kahawapay-backend"})
}
