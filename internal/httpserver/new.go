package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"markdown-todo-sync/pkg/log"
)

// SyncHandler exposes the sync triggers served over HTTP.
type SyncHandler interface {
	HandleGitHubWebhook(c *gin.Context)
	HandleManualSync(c *gin.Context)
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	server      *http.Server
	l           log.Logger
	port        int
	mode        string
	environment string

	// Sync triggers
	syncHandler    SyncHandler
	webhookEnabled bool

	// Called during shutdown once the listener stops accepting requests
	onShutdown func()
}

// Config is the dependency bag passed to New().
type Config struct {
	Port        int
	Mode        string
	Environment string

	// TrustedProxies lists peers whose forwarding headers set the client IP.
	// Empty trusts none, so the client IP is always the TCP peer.
	TrustedProxies []string

	SyncHandler    SyncHandler
	WebhookEnabled bool

	// OnShutdown waits for in-flight background work, e.g. Runner.Wait
	OnShutdown func()
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.New(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		syncHandler:    cfg.SyncHandler,
		webhookEnabled: cfg.WebhookEnabled,
		onShutdown:     cfg.OnShutdown,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.gin.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}

// Handler returns the root handler, mainly for tests.
func (srv *HTTPServer) Handler() http.Handler {
	return srv.gin
}
