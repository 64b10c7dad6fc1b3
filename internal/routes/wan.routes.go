package routes

import (
	"netgauge/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterWanRoutes(r *gin.Engine) {
	wan := r.Group("/wan")
	{
		wan.GET("/", controllers.GetWanStatus)
		wan.GET("/detect", controllers.DetectWan)
		wan.GET("/stats", controllers.GetWanStats)
		wan.GET("/recheck", controllers.RecheckWan)
	}
}
