package routes

import (
	controller "khana-lineup/controllers"

	"github.com/gin-gonic/gin"
)

func OrderRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/orders", controller.GetOrders())
	incomingRoutes.GET("/orders/customer/:customerId", controller.GetCustomerOrders())
	incomingRoutes.GET("/orders/vendor/:vendorId", controller.GetVendorOrders())
	incomingRoutes.GET("/orders/analytics/:vendorId", controller.GetAnalytics())
	incomingRoutes.GET("/orders/:id", controller.GetOrder())
	incomingRoutes.POST("/orders", controller.CreateOrder())
	incomingRoutes.PUT("/orders/:id", controller.UpdateOrder())
	incomingRoutes.PUT("/orders/:id/status", controller.UpdateOrderStatus())
	incomingRoutes.PUT("/orders/:id/rating", controller.RateOrder())
	incomingRoutes.PATCH("/orders/:id/cancel", controller.CancelOrder())
	incomingRoutes.DELETE("/orders/:id", controller.DeleteOrder())
}
