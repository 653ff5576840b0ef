package handler

import (
	"github.com/labstack/echo/v4"

	"snaptext/internal/adapter/api/middleware"
	"snaptext/internal/usecase"
	"snaptext/pkg/errors"
	"snaptext/pkg/logger"
	"snaptext/pkg/response"
)

type SubmissionHandler struct {
	submissionUseCase *usecase.SubmissionUseCase
}

func NewSubmissionHandler(submissionUseCase *usecase.SubmissionUseCase) *SubmissionHandler {
	return &SubmissionHandler{
		submissionUseCase: submissionUseCase,
	}
}

// Folder and URL presence are checked by the use case so their errors come
// out in a fixed order; the validator only rejects malformed URLs.
type processURLsRequest struct {
	FolderName string   `json:"folderName"`
	URLs       []string `json:"urls" validate:"dive,url"`
}

type deleteSubmissionRequest struct {
	FolderName string `json:"folderName" query:"folderName"`
}

func (h *SubmissionHandler) ProcessURLs(c echo.Context) error {
	var req processURLsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.submissionUseCase.Process(c.Request().Context(), usecase.ProcessInput{
		UserID:     middleware.UserID(c),
		FolderName: req.FolderName,
		URLs:       req.URLs,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *SubmissionHandler) GetDatabaseContent(c echo.Context) error {
	content, err := h.submissionUseCase.ListContent(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, content)
}

func (h *SubmissionHandler) DeleteSubmission(c echo.Context) error {
	var req deleteSubmissionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := h.submissionUseCase.Delete(c.Request().Context(), middleware.UserID(c), req.FolderName); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Folder deleted successfully.")
}

func (h *SubmissionHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		logger.Warn("Error reading multipart form: %v", err)
		return response.Error(c, errors.NoFiles(err))
	}

	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["images[]"]
	}

	var folderName string
	if values := form.Value["folderName"]; len(values) > 0 {
		folderName = values[0]
	}

	result, err := h.submissionUseCase.Upload(c.Request().Context(), usecase.UploadInput{
		UserID:     middleware.UserID(c),
		FolderName: folderName,
		Files:      files,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
