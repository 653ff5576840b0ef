package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"snaptext/internal/domain/entity"
	"snaptext/internal/domain/service"
)

const (
	// DownloadTokensMetadataKey is the custom metadata field Firebase Storage
	// reads access tokens from. It may hold several comma-separated tokens.
	DownloadTokensMetadataKey = "firebaseStorageDownloadTokens"

	publicURLFormat       = "https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s"
	defaultStorageTimeout = 30 * time.Second
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
	timeout    time.Duration
}

func NewCloudStorageClient(ctx context.Context, bucketName string, timeout time.Duration, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	if timeout <= 0 {
		timeout = defaultStorageTimeout
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
		timeout:    timeout,
	}, nil
}

// ConfigureCORS lets the allowed browser origins upload straight into the
// bucket. An existing CORS configuration is left untouched.
func (c *CloudStorageClient) ConfigureCORS(ctx context.Context, origins []string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	bucket := c.client.Bucket(c.bucketName)

	corsConfig := storage.CORS{
		MaxAge:          time.Hour,
		Methods:         []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		Origins:         origins,
		ResponseHeaders: []string{"Content-Type", "Authorization", "x-goog-resumable"},
	}

	bucketAttrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %w", err)
	}

	if len(bucketAttrs.CORS) == 0 {
		bucketUpdate := storage.BucketAttrsToUpdate{
			CORS: []storage.CORS{corsConfig},
		}

		if _, err := bucket.Update(ctx, bucketUpdate); err != nil {
			return fmt.Errorf("failed to update bucket CORS: %w", err)
		}
	}

	return nil
}

func (c *CloudStorageClient) Read(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	r, err := c.client.Bucket(c.bucketName).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, service.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (c *CloudStorageClient) Write(ctx context.Context, key string, r io.Reader, opts service.WriteOptions) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	wc := c.client.Bucket(c.bucketName).Object(key).NewWriter(ctx)
	wc.ContentType = opts.ContentType
	if opts.DownloadToken != "" {
		wc.Metadata = map[string]string{
			DownloadTokensMetadataKey: opts.DownloadToken,
		}
	}

	if _, err := io.Copy(wc, r); err != nil {
		// Close commits whatever was buffered; cancelling first aborts the upload.
		cancel()
		wc.Close()
		return fmt.Errorf("failed to copy %s to GCS: %w", key, err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close writer for %s: %w", key, err)
	}

	return nil
}

func (c *CloudStorageClient) List(ctx context.Context, prefix string) ([]entity.Blob, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	it := c.client.Bucket(c.bucketName).Objects(ctx, &storage.Query{Prefix: prefix})

	var blobs []entity.Blob
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}

		blobs = append(blobs, blobFromAttrs(attrs))
	}

	return blobs, nil
}

func (c *CloudStorageClient) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.client.Bucket(c.bucketName).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (c *CloudStorageClient) PublicURL(key, token string) string {
	return PublicURL(c.bucketName, key, token)
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

// PublicURL builds the Firebase Storage download URL of an object holding
// the given access token.
func PublicURL(bucketName, key, token string) string {
	return fmt.Sprintf(publicURLFormat, bucketName, url.PathEscape(key), url.QueryEscape(token))
}

func blobFromAttrs(attrs *storage.ObjectAttrs) entity.Blob {
	return entity.Blob{
		Key:           attrs.Name,
		ContentType:   attrs.ContentType,
		Size:          attrs.Size,
		DownloadToken: tokenFromMetadata(attrs.Metadata),
		Updated:       attrs.Updated,
	}
}

func tokenFromMetadata(metadata map[string]string) string {
	tokens := metadata[DownloadTokensMetadataKey]
	if tokens == "" {
		return ""
	}
	first, _, _ := strings.Cut(tokens, ",")
	return strings.TrimSpace(first)
}
