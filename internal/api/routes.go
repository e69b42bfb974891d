package api

import (
	"fmt"
	"log"
	"net/http"

	"smart-va/internal/middleware"
	"smart-va/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes. A nil jwtService leaves the admin
// endpoints open.
func SetupRoutes(handlers *Handlers, frontendURL string, jwtService *services.JWTService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(handlers.recoverJSON))
	router.Use(middleware.CORS(frontendURL))

	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthHandler)

		// Public intake endpoints
		api.POST("/tasks", handlers.CreateTaskHandler)
		api.POST("/ai/chat", handlers.ChatHandler)

		admin := api.Group("/tasks")
		admin.Use(middleware.AdminAuth(jwtService))
		{
			admin.GET("", handlers.ListTasksHandler)
			admin.GET("/:id", handlers.GetTaskHandler)
			admin.PATCH("/:id/status", handlers.UpdateTaskStatusHandler)
			admin.GET("/:id/receipt", handlers.TaskReceiptHandler)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	return router
}

// recoverJSON answers unexpected panics with the generic 500 envelope
func (h *Handlers) recoverJSON(c *gin.Context, recovered interface{}) {
	log.Printf("ERROR: Unhandled panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	message := "Internal server error"
	if h.devErrors {
		message = fmt.Sprint(recovered)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":   "Something went wrong!",
		"message": message,
	})
}
