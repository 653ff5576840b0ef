package router

import (
	"snaptext/internal/adapter/api/handler"
	"snaptext/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const generateAction = "generate"

func SetupSubmissionRouter(
	e *echo.Echo,
	submissionHandler *handler.SubmissionHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	uploadBodyLimit string,
) {
	// Registered per route so unknown paths still 404.
	auth := authMiddleware.Authenticate

	e.GET("/database-content", submissionHandler.GetDatabaseContent, auth)
	e.DELETE("/delete-submission", submissionHandler.DeleteSubmission, auth)

	// Generation routes share one per-user budget
	limit := rateLimitMiddleware.Limit(generateAction)
	e.POST("/process-urls", submissionHandler.ProcessURLs, auth, limit)

	upload := []echo.MiddlewareFunc{auth, limit}
	if uploadBodyLimit != "" {
		upload = append([]echo.MiddlewareFunc{echomiddleware.BodyLimit(uploadBodyLimit)}, upload...)
	}
	e.POST("/upload", submissionHandler.Upload, upload...)
}
