package routes

import (
	controller "khana-lineup/controllers"

	"github.com/gin-gonic/gin"
)

func MenuRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/menu", controller.GetMenuItems())
	incomingRoutes.GET("/menu/categories", controller.GetCategories())
	incomingRoutes.GET("/menu/vendor/:vendorId", controller.GetVendorMenu())
	incomingRoutes.GET("/menu/:id", controller.GetMenuItem())
	incomingRoutes.POST("/menu", controller.CreateMenuItem())
	incomingRoutes.PUT("/menu/:id", controller.UpdateMenuItem())
	incomingRoutes.PUT("/menu/:id/stock", controller.AdjustStock())
	incomingRoutes.PUT("/menu/:id/rating", controller.RateMenuItem())
	incomingRoutes.PUT("/menu/:id/toggle", controller.ToggleAvailability())
	incomingRoutes.PUT("/menu/:id/restore", controller.RestoreMenuItem())
	incomingRoutes.DELETE("/menu/:id", controller.DeleteMenuItem())
}
