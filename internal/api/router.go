// Package api assembles the HTTP surface.
package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jrichmond93/ChatbotPOC/internal/api/handlers"
	"github.com/jrichmond93/ChatbotPOC/internal/api/middleware"
	"github.com/jrichmond93/ChatbotPOC/internal/assistant"
	"github.com/jrichmond93/ChatbotPOC/internal/tasks"
	"github.com/jrichmond93/ChatbotPOC/internal/websocket"
)

// Deps are the components the routes are served from. Tasks, Socket and
// Metrics are optional; their routes are omitted when nil.
type Deps struct {
	Engine         *assistant.Engine
	Tasks          *tasks.Repository
	Socket         *websocket.Server
	Metrics        http.Handler
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to the chatbot server!")
	})

	chat := handlers.NewChatHandler(deps.Engine)
	suggestions := handlers.NewSuggestionsHandler(deps.Engine)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", handlers.Health)

		apiGroup.POST("/chatbot/message", chat.SendMessage)
		apiGroup.GET("/chatbot/suggestions", suggestions.GetSuggestions)

		// Serverless-style aliases
		apiGroup.POST("/chat", chat.SendMessage)
		apiGroup.POST("/suggestions", suggestions.PostSuggestions)

		if deps.Socket != nil {
			apiGroup.GET("/chatbot/ws", deps.Socket.HandleWebSocket)
		}

		if deps.Tasks != nil {
			taskHandler := handlers.NewTaskHandler(deps.Tasks)
			apiGroup.GET("/tasks", taskHandler.ListTasks)
			apiGroup.POST("/tasks", taskHandler.CreateTask)
			apiGroup.PUT("/tasks/:id", taskHandler.UpdateTask)
			apiGroup.DELETE("/tasks/:id", taskHandler.DeleteTask)
		}
	}

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
