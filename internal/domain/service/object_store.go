package service

import (
	"context"
	"errors"
	"io"

	"snaptext/internal/domain/entity"
)

var ErrObjectNotFound = errors.New("object not found")

type WriteOptions struct {
	ContentType string
	// DownloadToken makes the object publicly fetchable through PublicURL.
	// Left empty, the object stays private.
	DownloadToken string
}

// ObjectStore is the bucket the submissions live in. Read returns
// ErrObjectNotFound for a missing key.
type ObjectStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, r io.Reader, opts WriteOptions) error
	List(ctx context.Context, prefix string) ([]entity.Blob, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key, token string) string
	Close() error
}
