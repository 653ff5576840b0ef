package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaptext/internal/domain/entity"
	"snaptext/internal/domain/service"
	"snaptext/internal/infrastructure/storage"
)

func seedRecord(t *testing.T, store *storage.MemoryStore, userID, content string) {
	t.Helper()
	err := store.Write(context.Background(), entity.TrackingRecordKey(userID), strings.NewReader(content), service.WriteOptions{ContentType: "text/plain"})
	require.NoError(t, err)
}

func readRaw(t *testing.T, store *storage.MemoryStore, userID string) string {
	t.Helper()
	data, err := store.Read(context.Background(), entity.TrackingRecordKey(userID))
	require.NoError(t, err)
	return string(data)
}

func TestListMissingRecordIsEmpty(t *testing.T) {
	repo := NewStorageTrackingRepository(storage.NewMemoryStore("bucket"))

	record, err := repo.Read(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, record.Exists)

	folders, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestAddPrependsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore("bucket")
	repo := NewStorageTrackingRepository(store)

	require.NoError(t, repo.Add(ctx, "u1", "users/u1/a"))
	require.NoError(t, repo.Add(ctx, "u1", "users/u1/b"))

	folders, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"users/u1/b", "users/u1/a"}, folders)
	assert.Equal(t, "users/u1/b\nusers/u1/a", readRaw(t, store, "u1"))
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore("bucket")
	repo := NewStorageTrackingRepository(store)

	require.NoError(t, repo.Add(ctx, "u1", "users/u1/a"))
	require.NoError(t, repo.Add(ctx, "u1", "users/u1/b"))
	require.NoError(t, repo.Add(ctx, "u1", "users/u1/a"))

	folders, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"users/u1/b", "users/u1/a"}, folders)
}

func TestAddExistingDoesNotRewrite(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore("bucket")
	repo := NewStorageTrackingRepository(store)
	seedRecord(t, store, "u1", "users/u1/a\n")

	store.FailOn["write"] = entity.TrackingRecordKey("u1")

	assert.NoError(t, repo.Add(ctx, "u1", "users/u1/a"))
	assert.Error(t, repo.Add(ctx, "u1", "users/u1/b"))
}

func TestRemoveDropsEveryDuplicate(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore("bucket")
	repo := NewStorageTrackingRepository(store)
	seedRecord(t, store, "u1", "users/u1/a\nusers/u1/b\nusers/u1/a")

	require.NoError(t, repo.Remove(ctx, "u1", "users/u1/a"))

	folders, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"users/u1/b"}, folders)
}

func TestRemoveLastFolderLeavesEmptyRecord(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore("bucket")
	repo := NewStorageTrackingRepository(store)
	seedRecord(t, store, "u1", "users/u1/a")

	require.NoError(t, repo.Remove(ctx, "u1", "users/u1/a"))

	record, err := repo.Read(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, record.Exists)
	assert.Empty(t, record.Folders)
}

func TestRemoveWithoutRecordCreatesNothing(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore("bucket")
	repo := NewStorageTrackingRepository(store)

	require.NoError(t, repo.Remove(ctx, "u1", "users/u1/a"))

	assert.Empty(t, store.Keys())
}

func TestRecordsAreIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore("bucket")
	repo := NewStorageTrackingRepository(store)

	require.NoError(t, repo.Add(ctx, "u1", "users/u1/a"))
	require.NoError(t, repo.Add(ctx, "u2", "users/u2/z"))

	assert.Equal(t, []string{"users/u1/record/tracking_record.txt", "users/u2/record/tracking_record.txt"}, store.Keys())

	folders, err := repo.List(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"users/u2/z"}, folders)
}

func TestReadPropagatesStorageErrors(t *testing.T) {
	store := storage.NewMemoryStore("bucket")
	store.FailOn["read"] = "users/u1/"
	repo := NewStorageTrackingRepository(store)

	_, err := repo.Read(context.Background(), "u1")
	assert.Error(t, err)
	assert.Error(t, repo.Add(context.Background(), "u1", "users/u1/a"))
	assert.Error(t, repo.Remove(context.Background(), "u1", "users/u1/a"))
}
