package routes

import (
	"netgauge/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterNetRoutes(r *gin.Engine) {
	net := r.Group("/net")
	{
		net.GET("/", controllers.GetStatus)
		net.GET("/interfaces", controllers.GetInterfaces)
		net.GET("/stats", controllers.GetNetStats)
		net.GET("/rates", controllers.GetRates)
		net.GET("/history", controllers.GetHistory)
		net.GET("/dashboard", controllers.GetDashboard)
	}
}
