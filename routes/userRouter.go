package routes

import (
	controller "khana-lineup/controllers"

	"github.com/gin-gonic/gin"
)

func UserRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/auth/register", controller.Register())
	incomingRoutes.POST("/auth/login", controller.Login())
	incomingRoutes.GET("/auth/users", controller.GetUsers())
	incomingRoutes.GET("/auth/user/:id", controller.GetUser())
	incomingRoutes.PUT("/auth/user/:id", controller.UpdateUser())
	incomingRoutes.PUT("/auth/user/:id/password", controller.ChangePassword())
	incomingRoutes.DELETE("/auth/user/:id", controller.DeactivateUser())
	incomingRoutes.GET("/auth/pending-vendors", controller.GetPendingVendors())
	incomingRoutes.PUT("/auth/approve-vendor/:id", controller.ApproveVendor())
	incomingRoutes.PUT("/auth/reject-vendor/:id", controller.RejectVendor())
}
