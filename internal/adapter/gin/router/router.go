package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-service/internal/adapter/gin/handler"
	"user-crud-service/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and
// middleware. The error classifier is registered first so it wraps every
// handler as the terminal stage.
func SetupRouter(userHandler *handler.UserHandler, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-crud-service",
		})
	})

	api := router.Group("/api")
	{
		api.POST("/register", userHandler.Register)
		api.GET("/checkUsers", userHandler.ListUsers)
		api.PUT("/updateUser/:id", userHandler.UpdateUser)
		api.DELETE("/deleteUser/:id", userHandler.DeleteUser)
		api.GET("/checkEmail/:email", userHandler.CheckEmail)
	}

	return router
}
