package api

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"net/http"

	"studysync/internal/api/handlers"
	"studysync/internal/config"
	"studysync/internal/db"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-contrib/sessions/postgres"
	"github.com/rs/zerolog"
)

// SessionName is the cookie that identifies a browser's workspace.
const SessionName = handlers.SessionName

// NewSessionStore builds the session store: postgres when DATABASE_URL is
// set, in-memory otherwise. The returned close function releases the
// database pool, if any.
func NewSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (sessions.Store, func(), error) {
	// 1. Cookie signing key
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		log.Warn().Msg("SESSION_SECRET is not set; using a random key, sessions will not survive a restart")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, nil, fmt.Errorf("failed to generate session key: %w", err)
		}
	}

	var (
		store   sessions.Store
		closeFn = func() {}
	)
	// 2. Backing store
	if cfg.DatabaseURL != "" {
		// Use the constructor from gin-contrib/sessions/postgres with a
		// database/sql pool on the pgx driver.
		conn, err := db.OpenSessionDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pgStore, err := postgres.NewStore(conn, secret)
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("failed to create postgres session store: %w", err)
		}
		store = pgStore
		closeFn = func() { closeDB(conn, log) }
		log.Info().Msg("Using postgres session store")
	} else {
		store = memstore.NewStore(secret)
		log.Info().Msg("Using in-memory session store")
	}

	// 3. Cookie options shared by both stores
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store, closeFn, nil
}

func closeDB(conn *sql.DB, log zerolog.Logger) {
	if err := conn.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close session database")
	}
}
