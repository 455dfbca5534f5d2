package api

import (
	"studysync/internal/api/handlers"
	"studysync/internal/config"
	"studysync/internal/materials"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SetupRoutes sets up the page, workspace and proxy routes.
func SetupRoutes(router *gin.Engine, handler *handlers.Handler, store sessions.Store, cfg *config.Config, log zerolog.Logger) {
	// Global middleware: request log first so it sees the final status
	router.Use(RequestLogger(log))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	// Page templates are embedded in the binary
	router.SetHTMLTemplate(handlers.Templates())

	// Public endpoints

	router.GET("/health", handler.HandleHealth)

	// Backend contract on this origin; the backend owns it, no session needed.
	router.POST(materials.GeneratePath, handler.HandleGenerateProxy)

	// Workspace routes: session first, then the workspace id from it
	workspace := router.Group("/")
	workspace.Use(sessions.Sessions(SessionName, store))
	workspace.Use(Workspace(log))
	{
		workspace.GET("/", handler.HandleIndex)
		workspace.POST("/file", handler.HandleSelectFile)
		workspace.POST("/generate", handler.HandleGenerate)
		workspace.POST("/quiz/answers", handler.HandleQuizAnswer)
		workspace.POST("/quiz/submit", handler.HandleSubmitQuiz)

		// JSON view for API clients
		workspace.GET("/api/workspace", handler.HandleWorkspace)
	}
}
