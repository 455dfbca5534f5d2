package handlers

import (
	"encoding/gob"
	"errors"
	"net/http"
	"sync"

	"studysync/internal/storage"
	"studysync/internal/studysync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionName is the cookie that identifies a browser's workspace.
const SessionName = "studysync_session"

// Keys for session values and gin context values.
const (
	WorkspaceSessionKey = "workspace_id"
	StateSessionKey     = "workspace_state"
	WorkspaceIDKey      = "workspaceID"
)

func init() {
	// Register types needed for session storage. Both stores gob-encode values
	// held behind interface{}, so gob needs the concrete type.
	gob.Register(studysync.State{})
}

// Handler contains the HTTP handler dependencies.
type Handler struct {
	Files        storage.FileStore
	Orchestrator *studysync.Orchestrator
	// Sessions is the store behind the session middleware. It is read
	// directly so a request sees what other requests saved after it began.
	Sessions sessions.Store
	// Proxy forwards /generate-materials to the backend. Nil disables it.
	Proxy http.Handler
	Log   zerolog.Logger

	locks workspaceLocks
}

// NewHandler creates a new Handler.
func NewHandler(files storage.FileStore, orchestrator *studysync.Orchestrator, store sessions.Store, proxy http.Handler, log zerolog.Logger) *Handler {
	return &Handler{
		Files:        files,
		Orchestrator: orchestrator,
		Sessions:     store,
		Proxy:        proxy,
		Log:          log,
		locks:        workspaceLocks{held: map[uuid.UUID]*workspaceLock{}},
	}
}

// workspaceLocks serializes load, modify and save of one workspace's state
// within this process.
type workspaceLocks struct {
	mu   sync.Mutex
	held map[uuid.UUID]*workspaceLock
}

type workspaceLock struct {
	sync.Mutex
	refs int
}

// lock blocks until the workspace is free and returns the matching unlock.
func (l *workspaceLocks) lock(id uuid.UUID) (unlock func()) {
	l.mu.Lock()
	wl, ok := l.held[id]
	if !ok {
		wl = &workspaceLock{}
		l.held[id] = wl
	}
	wl.refs++
	l.mu.Unlock()

	wl.Lock()
	return func() {
		wl.Unlock()
		l.mu.Lock()
		wl.refs--
		if wl.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}

// workspaceID returns the id the Workspace middleware placed in the context.
func workspaceID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(WorkspaceIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// loadState reads the workspace state. Processing is taken from the in-flight
// tracker, never from the stored value.
func (h *Handler) loadState(c *gin.Context) (uuid.UUID, *studysync.State) {
	id := workspaceID(c)
	st := studysync.New()
	if stored, ok := h.storedState(c); ok {
		st = &stored
		// Older saves may carry nil maps.
		if st.Answers == nil {
			st.Answers = map[int]int{}
		}
		if st.Results == nil {
			st.Results = map[int]bool{}
		}
	}
	st.Processing = h.Orchestrator.Inflight().Active(id.String())
	return id, st
}

// storedState returns the state as currently saved in the store. The session
// middleware decodes the session once per request, so a long request would
// otherwise keep seeing the values from when it started.
func (h *Handler) storedState(c *gin.Context) (studysync.State, bool) {
	if h.Sessions != nil {
		// 1. Decode a fresh copy straight from the store.
		fresh, err := h.Sessions.New(c.Request, SessionName)
		if err == nil && fresh != nil && !fresh.IsNew {
			stored, ok := fresh.Values[StateSessionKey].(studysync.State)
			return stored, ok
		}
	}
	// 2. No saved session yet (first request of a browser): use the one the
	// middleware holds for this request.
	stored, ok := sessions.Default(c).Get(StateSessionKey).(studysync.State)
	return stored, ok
}

func (h *Handler) saveState(c *gin.Context, st *studysync.State) error {
	session := sessions.Default(c)
	session.Set(StateSessionKey, *st)
	return session.Save()
}

// discardUpload removes a stored file that the workspace no longer points at.
// Files an in-flight generation is still reading are left for that request
// to clean up once it finishes.
func (h *Handler) discardUpload(c *gin.Context, id uuid.UUID, key string) {
	if h.Orchestrator.Inflight().Reading(id.String(), key) {
		h.Log.Debug().Str("workspace", id.String()).Str("key", key).Msg("Upload still in use by generation, keeping it")
		return
	}
	if err := h.Files.Delete(c.Request.Context(), key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.Log.Warn().Err(err).Str("key", key).Msg("Failed to remove replaced upload")
	}
}

// wantsJSON reports whether the client prefers a JSON body over the page.
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// respond finishes a workspace request: JSON clients get the view with the
// given status, browsers are redirected back to the page.
func (h *Handler) respond(c *gin.Context, status int, st *studysync.State) {
	if wantsJSON(c) {
		c.JSON(status, st.View())
		return
	}
	// Post/Redirect/Get so a reload does not resubmit the form.
	c.Redirect(http.StatusSeeOther, "/")
}

// statusFor maps workspace errors to HTTP status codes for JSON clients.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, studysync.ErrNoFileSelected), errors.Is(err, studysync.ErrInvalidAnswer):
		return http.StatusBadRequest
	case errors.Is(err, studysync.ErrGenerationInFlight), errors.Is(err, studysync.ErrNoMaterials):
		return http.StatusConflict
	case errors.Is(err, studysync.ErrQuizIncomplete):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleError logs an infrastructure failure and aborts the request.
func (h *Handler) handleError(c *gin.Context, statusCode int, errorContext string, err error) {
	h.Log.Error().
		Err(err).
		Str("workspace", workspaceID(c).String()).
		Str("path", c.Request.URL.Path).
		Int("status", statusCode).
		Msg(errorContext)
	c.AbortWithStatusJSON(statusCode, gin.H{"error": errorContext + ": " + err.Error()})
}
