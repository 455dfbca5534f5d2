package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewGenerateProxy forwards requests to the generation backend with the path
// unchanged and the Host header rewritten to the backend's.
func NewGenerateProxy(backendURL string, log zerolog.Logger) (http.Handler, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", backendURL, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme and host are required", backendURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.Host = target.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Generation backend unreachable")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(gin.H{"error": err.Error()})
	}
	return proxy, nil
}

// HandleGenerateProxy exposes the backend contract on this origin, as the
// development server of a browser client would.
func (h *Handler) HandleGenerateProxy(c *gin.Context) {
	if h.Proxy == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "generation proxy is disabled"})
		return
	}
	h.Proxy.ServeHTTP(c.Writer, c.Request)
}
