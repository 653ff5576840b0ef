package repository

import (
	"context"

	"snaptext/internal/domain/entity"
)

// TrackingRepository maintains the per-user tracking record. Add and Remove
// are read-modify-write cycles over the whole record with no concurrency
// control: two concurrent mutations for the same user can lose one update.
type TrackingRepository interface {
	Read(ctx context.Context, userID string) (*entity.TrackingRecord, error)
	List(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, folderName string) error
	Remove(ctx context.Context, userID, folderName string) error
}
