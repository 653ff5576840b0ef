package usecase

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"snaptext/internal/domain/entity"
	"snaptext/internal/domain/repository"
	"snaptext/internal/domain/service"
	"snaptext/internal/infrastructure/metrics"
	"snaptext/pkg/errors"
	"snaptext/pkg/logger"
)

const (
	descriptionContentType = "text/plain"
	defaultContentType     = "application/octet-stream"
)

type SubmissionUseCase struct {
	store          service.ObjectStore
	tracking       repository.TrackingRepository
	generator      service.DescriptionGenerator
	concurrency    int
	maxUploadFiles int
	maxUploadBytes int64
	now            func() time.Time
}

type SubmissionOptions struct {
	ListConcurrency int
	MaxUploadFiles  int
	MaxUploadBytes  int64
}

func NewSubmissionUseCase(
	store service.ObjectStore,
	tracking repository.TrackingRepository,
	generator service.DescriptionGenerator,
	opts SubmissionOptions,
) *SubmissionUseCase {
	if opts.ListConcurrency <= 0 {
		opts.ListConcurrency = 8
	}
	if opts.MaxUploadFiles <= 0 {
		opts.MaxUploadFiles = 10
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 * 1024 * 1024
	}

	return &SubmissionUseCase{
		store:          store,
		tracking:       tracking,
		generator:      generator,
		concurrency:    opts.ListConcurrency,
		maxUploadFiles: opts.MaxUploadFiles,
		maxUploadBytes: opts.MaxUploadBytes,
		now:            time.Now,
	}
}

type ProcessInput struct {
	UserID     string
	FolderName string
	URLs       []string
}

type UploadInput struct {
	UserID     string
	FolderName string
	Files      []*multipart.FileHeader
}

// Process generates a listing for images the client already uploaded to the
// folder, stores it next to them and tracks the folder.
func (uc *SubmissionUseCase) Process(ctx context.Context, input ProcessInput) (*entity.ProcessResult, error) {
	if !entity.OwnsFolder(input.UserID, input.FolderName) {
		logger.Warn("User %s tried to process folder %q", input.UserID, input.FolderName)
		return nil, errors.InvalidFolder()
	}

	if len(input.URLs) == 0 {
		return nil, errors.NoURLs()
	}

	result, err := uc.describe(ctx, input.UserID, input.FolderName, input.URLs)
	if err != nil {
		return nil, errors.Internal("Internal server error processing URLs.", err)
	}

	result.Message = "Processing complete."
	return result, nil
}

// Upload stores multipart images under the folder, then describes them the
// same way Process does.
func (uc *SubmissionUseCase) Upload(ctx context.Context, input UploadInput) (*entity.ProcessResult, error) {
	if len(input.Files) == 0 {
		return nil, errors.NoFiles(nil)
	}
	if len(input.Files) > uc.maxUploadFiles {
		return nil, errors.BadRequest(fmt.Sprintf("Too many files. At most %d are allowed.", uc.maxUploadFiles), nil)
	}
	for _, file := range input.Files {
		if file.Size > uc.maxUploadBytes {
			return nil, errors.BadRequest(fmt.Sprintf("File %s exceeds the %d MB limit.", file.Filename, uc.maxUploadBytes/(1024*1024)), nil)
		}
	}

	folderName := input.FolderName
	if folderName == "" {
		folderName = fmt.Sprintf("%sgroup-%d", entity.UserRoot(input.UserID), uc.now().UnixMilli())
	} else if !entity.OwnsFolder(input.UserID, folderName) {
		return nil, errors.InvalidFolder()
	}

	urls := make([]string, 0, len(input.Files))
	for _, file := range input.Files {
		url, err := uc.storeImage(ctx, folderName, file)
		if err != nil {
			logger.Error("Failed to upload %s to %s: %v", file.Filename, folderName, err)
			return nil, errors.Internal("Internal server error.", err)
		}
		urls = append(urls, url)
	}
	logger.Info("Uploaded %d files to %s", len(urls), folderName)

	result, err := uc.describe(ctx, input.UserID, folderName, urls)
	if err != nil {
		return nil, errors.Internal("Internal server error.", err)
	}

	result.Message = "Files uploaded successfully."
	return result, nil
}

func (uc *SubmissionUseCase) storeImage(ctx context.Context, folderName string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	key := fmt.Sprintf("%s/%d-%s-%s", folderName, uc.now().UnixMilli(), shortID(), filepath.Base(file.Filename))
	token := uuid.NewString()

	if err := uc.store.Write(ctx, key, src, service.WriteOptions{
		ContentType:   contentType,
		DownloadToken: token,
	}); err != nil {
		return "", err
	}

	return uc.store.PublicURL(key, token), nil
}

// describe runs the generate, persist, track sequence shared by both flows.
// Only a failed description write is an error; generation and tracking
// failures degrade silently.
func (uc *SubmissionUseCase) describe(ctx context.Context, userID, folderName string, urls []string) (*entity.ProcessResult, error) {
	description, ok := uc.generator.Generate(ctx, folderName, urls)

	key := entity.DescriptionKey(folderName)
	token := uuid.NewString()
	err := uc.store.Write(ctx, key, strings.NewReader(description), service.WriteOptions{
		ContentType:   descriptionContentType,
		DownloadToken: token,
	})
	if err != nil {
		logger.Error("Failed to save description for %s: %v", folderName, err)
		return nil, err
	}
	logger.Info("Description saved to %s", key)

	if err := uc.tracking.Add(ctx, userID, folderName); err != nil {
		metrics.TrackingIndexErrors.WithLabelValues("add").Inc()
		logger.Error("Failed to track folder %s for user %s: %v", folderName, userID, err)
	}

	result := &entity.ProcessResult{
		FolderName:     folderName,
		URLs:           urls,
		DescriptionURL: uc.store.PublicURL(key, token),
	}
	if ok {
		result.Description = &description
	}
	return result, nil
}

// ListContent returns every tracked folder of the user with the public URLs
// of its blobs.
func (uc *SubmissionUseCase) ListContent(ctx context.Context, userID string) (entity.DatabaseContent, error) {
	record, err := uc.tracking.Read(ctx, userID)
	if err != nil {
		logger.Error("Failed to read tracking record of %s: %v", userID, err)
		return nil, errors.Internal("Failed to fetch database content.", err)
	}

	if !record.Exists {
		logger.Warn("tracking_record.txt does not exist for %s", userID)
		return nil, errors.NotFound("tracking_record.txt", nil)
	}

	folders := record.NonBlankFolders()
	listed := make([][]string, len(folders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, folderName := range folders {
		i, folderName := i, folderName
		g.Go(func() error {
			urls, err := uc.folderURLs(gctx, folderName)
			if err != nil {
				return fmt.Errorf("list %s: %w", folderName, err)
			}
			listed[i] = urls
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Failed to fetch database content for %s: %v", userID, err)
		return nil, errors.Internal("Failed to fetch database content.", err)
	}

	content := make(entity.DatabaseContent, len(folders))
	for i, folderName := range folders {
		content[folderName] = listed[i]
	}
	return content, nil
}

func (uc *SubmissionUseCase) folderURLs(ctx context.Context, folderName string) ([]string, error) {
	blobs, err := uc.store.List(ctx, entity.FolderPrefix(folderName))
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(blobs))
	for _, blob := range blobs {
		if !blob.Public() {
			logger.Warn("No download token for %s", blob.Key)
			continue
		}
		urls = append(urls, uc.store.PublicURL(blob.Key, blob.DownloadToken))
	}
	return urls, nil
}

// Delete removes every blob of the folder, then untracks it. The record is
// left alone when any blob could not be deleted.
func (uc *SubmissionUseCase) Delete(ctx context.Context, userID, folderName string) error {
	if !entity.OwnsFolder(userID, folderName) {
		logger.Warn("User %s tried to delete folder %q", userID, folderName)
		return errors.InvalidFolder()
	}

	blobs, err := uc.store.List(ctx, entity.FolderPrefix(folderName))
	if err != nil {
		logger.Error("Failed to list %s for deletion: %v", folderName, err)
		return errors.Internal("Internal server error deleting submission.", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, blob := range blobs {
		blob := blob
		g.Go(func() error {
			return uc.store.Delete(gctx, blob.Key)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Failed to delete %s: %v", folderName, err)
		return errors.Internal("Internal server error deleting submission.", err)
	}
	logger.Info("Deleted %d blobs under %s", len(blobs), folderName)

	if err := uc.tracking.Remove(ctx, userID, folderName); err != nil {
		metrics.TrackingIndexErrors.WithLabelValues("remove").Inc()
		logger.Error("Failed to untrack folder %s for user %s: %v", folderName, userID, err)
	}

	return nil
}

func shortID() string {
	id := uuid.New()
	return fmt.Sprintf("%x", id[:4])
}
