package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"

	"codeberg.org/metastamp/server/api/rest/auth"
	"codeberg.org/metastamp/server/api/rest/content"
	"codeberg.org/metastamp/server/api/rest/health"
	"codeberg.org/metastamp/server/api/rest/ledger"
	"codeberg.org/metastamp/server/api/rest/notifications"
	"codeberg.org/metastamp/server/api/rest/platforms"
	"codeberg.org/metastamp/server/api/rest/scanner"
	"codeberg.org/metastamp/server/api/rest/usage"
	"codeberg.org/metastamp/server/api/rest/watermark"
	"codeberg.org/metastamp/server/api/websocket"
	_ "codeberg.org/metastamp/server/docs"
	"codeberg.org/metastamp/server/internal/errors"
	ws "codeberg.org/metastamp/server/internal/websocket"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	cfg := server.config
	svc := server.services

	limit, err := RateLimitMiddleware(cfg.RateLimit, server.buffer.Client())
	if err != nil {
		return err
	}

	router.Use(CORSMiddleware(cfg.CORSOrigins))
	router.Use(server.botDefense.Middleware())
	router.GET("/health", health.Handler(version, server.healthChecks()))
	router.GET("/swagger/doc.json", SwaggerHandler)
	router.Static("/uploads", svc.Storage.Dir())

	v1 := router.Group("/api/v1")
	v1.Use(limit)

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, server.creatorRepo, server.providers)
		content.RegisterRoutes(v1, svc.Stamping, server.contentRepo, server.usageRepo, svc.Catalog)
		usage.RegisterRoutes(v1, server.usageRepo, server.contentRepo, svc.Ledger)
		watermark.RegisterRoutes(v1, svc.Stamping, svc.Signer)
		ledger.RegisterRoutes(v1, svc.Ledger, svc.Contract)
		platforms.RegisterRoutes(v1, svc.Catalog)
		notifications.RegisterRoutes(v1, server.notifications)
		websocket.RegisterRoutes(v1, server.hub, ws.OriginChecker(cfg.CORSOrigins, cfg.IsProduction()))
	}

	// scanner nodes report at high frequency and authenticate with their own key
	nodes := router.Group("/api/v1")
	scanner.RegisterRoutes(nodes, svc.Scanner, server.buffer, server.contentRepo, cfg.TouchRate, cfg.ScannerAPIKey)

	return nil
}

// serves the registered OpenAPI document
func SwaggerHandler(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		errors.InternalError(c, "failed to read api docs", err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}

func (s *Server) healthChecks() map[string]health.Checker {
	return map[string]health.Checker{
		"postgres": s.db.Ping,
		"redis": func(ctx context.Context) error {
			return s.buffer.Client().Ping(ctx).Err()
		},
	}
}
