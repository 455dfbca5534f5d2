package api

import (
	"net/http"
	"time"

	"studysync/internal/api/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CORSMiddleware allows the configured origins to call the JSON API with
// their session cookie. With no origins configured every origin is allowed,
// without credentials.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}

// RequestLogger logs one line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Pick the level from the outcome so failures stand out
		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}
		if id, ok := c.Get(handlers.WorkspaceIDKey); ok {
			event = event.Interface("workspace", id)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// Workspace makes sure the session carries a workspace id and puts it in
// the gin context for handlers.
func Workspace(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		// 1. Reuse the workspace from the cookie, or start a new one
		raw, _ := session.Get(handlers.WorkspaceSessionKey).(string)
		id, err := uuid.Parse(raw)
		if err != nil {
			id = uuid.New()
			session.Set(handlers.WorkspaceSessionKey, id.String())
			if err := session.Save(); err != nil {
				log.Error().Err(err).Msg("Failed to create workspace session")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create workspace session"})
				return
			}
			log.Debug().Str("workspace", id.String()).Msg("Workspace created")
		}

		// 2. Handlers read the id from the context, not the session
		c.Set(handlers.WorkspaceIDKey, id)
		c.Next()
	}
}
