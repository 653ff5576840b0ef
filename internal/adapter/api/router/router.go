package router

import (
	"path/filepath"

	"github.com/labstack/echo/v4"

	"snaptext/internal/adapter/api/handler"
	"snaptext/internal/adapter/api/middleware"
	"snaptext/internal/infrastructure/metrics"
)

type Options struct {
	PublicDir       string
	UploadBodyLimit string
	MetricsPath     string
}

func Setup(
	e *echo.Echo,
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	opts Options,
) {
	SetupSubmissionRouter(e, handlers.Submission, authMiddleware, rateLimitMiddleware, opts.UploadBodyLimit)
	SetupHealthRouter(e, handlers.Health)

	if opts.MetricsPath != "" {
		metrics.Register(e, opts.MetricsPath)
	}

	if opts.PublicDir != "" {
		e.File("/", filepath.Join(opts.PublicDir, "index.html"))
		e.Static("/static", opts.PublicDir)
	}
}
