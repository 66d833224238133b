package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"markdown-todo-sync/internal/middleware"
	"markdown-todo-sync/internal/model"
)

func (srv *HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(middleware.New(srv.l).RequestLogger())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "HTTP mode: production")
	} else {
		srv.l.Infof(ctx, "HTTP mode: %s", srv.environment)
	}
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers the sync trigger routes.
func (srv *HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	if srv.syncHandler == nil {
		srv.l.Infof(ctx, "Sync handler not configured, skipping trigger routes")
		return
	}

	if srv.webhookEnabled {
		srv.gin.POST("/webhook/github", srv.syncHandler.HandleGitHubWebhook)
		srv.l.Infof(ctx, "GitHub webhook route registered at POST /webhook/github")
	} else {
		srv.l.Infof(ctx, "Webhook disabled, skipping GitHub webhook route")
	}

	api := srv.gin.Group("/api/v1")
	api.POST("/sync", srv.syncHandler.HandleManualSync)
	srv.l.Infof(ctx, "Manual sync route registered at POST /api/v1/sync")
}
