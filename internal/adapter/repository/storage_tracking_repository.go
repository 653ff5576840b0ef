package repository

import (
	"bytes"
	"context"
	"errors"

	"snaptext/internal/domain/entity"
	"snaptext/internal/domain/repository"
	"snaptext/internal/domain/service"
	"snaptext/pkg/logger"
)

const trackingContentType = "text/plain"

type storageTrackingRepository struct {
	store service.ObjectStore
}

// NewStorageTrackingRepository keeps each user's tracking record as a plain
// text blob in the submissions bucket, one folder key per line.
func NewStorageTrackingRepository(store service.ObjectStore) repository.TrackingRepository {
	return &storageTrackingRepository{
		store: store,
	}
}

func (r *storageTrackingRepository) Read(ctx context.Context, userID string) (*entity.TrackingRecord, error) {
	data, err := r.store.Read(ctx, entity.TrackingRecordKey(userID))
	if err != nil {
		if errors.Is(err, service.ErrObjectNotFound) {
			return &entity.TrackingRecord{UserID: userID}, nil
		}
		return nil, err
	}

	return entity.ParseTrackingRecord(userID, data), nil
}

func (r *storageTrackingRepository) List(ctx context.Context, userID string) ([]string, error) {
	record, err := r.Read(ctx, userID)
	if err != nil {
		return nil, err
	}
	return record.Folders, nil
}

func (r *storageTrackingRepository) Add(ctx context.Context, userID, folderName string) error {
	record, err := r.Read(ctx, userID)
	if err != nil {
		return err
	}

	if record.Contains(folderName) {
		return nil
	}

	record.Folders = append([]string{folderName}, record.Folders...)
	if err := r.save(ctx, record); err != nil {
		return err
	}

	logger.Info("Folder name %q added to the top of the tracking record of %s", folderName, userID)
	return nil
}

func (r *storageTrackingRepository) Remove(ctx context.Context, userID, folderName string) error {
	record, err := r.Read(ctx, userID)
	if err != nil {
		return err
	}

	// Never create a record just to remove from it.
	if !record.Exists {
		return nil
	}

	kept := record.Folders[:0]
	for _, f := range record.Folders {
		if f != folderName {
			kept = append(kept, f)
		}
	}
	record.Folders = kept

	return r.save(ctx, record)
}

func (r *storageTrackingRepository) save(ctx context.Context, record *entity.TrackingRecord) error {
	return r.store.Write(ctx, entity.TrackingRecordKey(record.UserID), bytes.NewReader(record.Encode()), service.WriteOptions{
		ContentType: trackingContentType,
	})
}
