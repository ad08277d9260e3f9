package main

import (
	"context"
	"os"
	"strings"
	"time"

	"khana-lineup/database"
	"khana-lineup/middleware"
	"khana-lineup/realtime"
	"khana-lineup/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func corsOrigins() []string {
	if origins := os.Getenv("CORS_ORIGIN"); origins != "" {
		return strings.Split(origins, ",")
	}
	return []string{"http://localhost:3000", "http://localhost:5173"}
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public surface: auth plus the websocket endpoint clients register on.
	routes.UserRoutes(router)
	router.GET("/ws", realtime.ServeWS())

	router.Use(middleware.Authentication())
	routes.MenuRoutes(router)
	routes.OrderRoutes(router)

	// Best-effort UI freshness; the API never depends on this relay.
	go realtime.Watch(context.Background(), database.Client.Database(database.DatabaseName()))

	logrus.Printf("listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
