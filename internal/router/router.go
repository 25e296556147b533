package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rlportal/research-log/internal/auth"
	"github.com/rlportal/research-log/internal/config"
	"github.com/rlportal/research-log/internal/handler"
	"github.com/rlportal/research-log/internal/middleware"
)

// Handlers groups the per-capability handlers the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Members  *handler.MemberHandler
	Research *handler.ResearchHandler
	Upload   *handler.UploadHandler
	Logs     *handler.LogHandler
}

// Register mounts all routes on the provided Echo instance. /api/login and
// /api/anon-key are public; every other /api route runs the bearer-auth
// middleware first, so handlers can rely on a Principal being present.
// Login additionally runs the Redis token bucket to slow down credential
// stuffing.
func Register(e *echo.Echo, h Handlers, verifier auth.Verifier, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.POST("/login", h.Auth.Login, middleware.NewTokenBucket(rlCfg, rdb))
	api.GET("/anon-key", h.Auth.AnonKey)

	authed := api.Group("", middleware.RequireAuth(verifier))
	authed.GET("/members", h.Members.List)
	authed.GET("/research-summary", h.Members.Summary)
	authed.POST("/research", h.Research.Create)
	authed.GET("/research", h.Research.List)
	authed.POST("/upload", h.Upload.Upload)
	authed.POST("/log", h.Logs.Create)
	authed.GET("/logs", h.Logs.List)
	authed.GET("/me", h.Auth.Me)
}
