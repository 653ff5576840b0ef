package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"snaptext/internal/domain/service"
)

func TestPublicURLEscapesWholeKey(t *testing.T) {
	got := PublicURL("etsydb-fdad2.appspot.com", "users/u1/abc/my photo.png", "tok-123")

	assert.Equal(t,
		"https://firebasestorage.googleapis.com/v0/b/etsydb-fdad2.appspot.com/o/users%2Fu1%2Fabc%2Fmy%20photo.png?alt=media&token=tok-123",
		got)
}

func TestTokenFromMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		want     string
	}{
		{"nil metadata", nil, ""},
		{"no token", map[string]string{"other": "x"}, ""},
		{"single token", map[string]string{DownloadTokensMetadataKey: "abc"}, "abc"},
		{"several tokens", map[string]string{DownloadTokensMetadataKey: "abc, def"}, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenFromMetadata(tt.metadata))
		})
	}
}

func TestBlobFromAttrs(t *testing.T) {
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	blob := blobFromAttrs(&storage.ObjectAttrs{
		Name:        "users/u1/abc/description.txt",
		ContentType: "text/plain",
		Size:        42,
		Updated:     updated,
		Metadata:    map[string]string{DownloadTokensMetadataKey: "tok"},
	})

	assert.Equal(t, "users/u1/abc/description.txt", blob.Key)
	assert.Equal(t, "text/plain", blob.ContentType)
	assert.EqualValues(t, 42, blob.Size)
	assert.Equal(t, "tok", blob.DownloadToken)
	assert.True(t, blob.Public())
	assert.Equal(t, updated, blob.Updated)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("bucket")

	require.NoError(t, store.Write(ctx, "users/u1/abc/b.png", strings.NewReader("b"), service.WriteOptions{ContentType: "image/png", DownloadToken: "t2"}))
	require.NoError(t, store.Write(ctx, "users/u1/abc/a.png", strings.NewReader("a"), service.WriteOptions{ContentType: "image/png"}))
	require.NoError(t, store.Write(ctx, "users/u1/abcd/c.png", strings.NewReader("c"), service.WriteOptions{}))

	data, err := store.Read(ctx, "users/u1/abc/b.png")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	blobs, err := store.List(ctx, "users/u1/abc/")
	require.NoError(t, err)
	require.Len(t, blobs, 2)
	assert.Equal(t, "users/u1/abc/a.png", blobs[0].Key)
	assert.False(t, blobs[0].Public())
	assert.Equal(t, "t2", blobs[1].DownloadToken)

	require.NoError(t, store.Delete(ctx, "users/u1/abc/a.png"))
	require.NoError(t, store.Delete(ctx, "users/u1/abc/missing.png"))

	_, err = store.Read(ctx, "users/u1/abc/a.png")
	assert.ErrorIs(t, err, service.ErrObjectNotFound)
	assert.Equal(t, []string{"users/u1/abc/b.png", "users/u1/abcd/c.png"}, store.Keys())
}

func TestMemoryStoreInjectedFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("bucket")
	store.FailOn["write"] = "users/u1/record/"

	err := store.Write(ctx, "users/u1/record/tracking_record.txt", strings.NewReader("x"), service.WriteOptions{})

	var failure *FailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "write", failure.Op)
	assert.Empty(t, store.Keys())
}

// fakeGCS accepts uploads and records every object whose body arrived in full.
type fakeGCS struct {
	mu      sync.Mutex
	objects []string
}

func newFakeGCSClient(t *testing.T) (*CloudStorageClient, *fakeGCS) {
	t.Helper()
	fake := &fakeGCS{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return
		}
		fake.mu.Lock()
		fake.objects = append(fake.objects, string(body))
		fake.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"bucket":"bucket","name":"users/u1/abc/a.png"}`)
	}))
	t.Cleanup(srv.Close)

	client, err := NewCloudStorageClient(context.Background(), "bucket", 5*time.Second,
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, fake
}

func (f *fakeGCS) stored() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.objects...)
}

// brokenReader yields some bytes and then fails, like a dropped multipart stream.
type brokenReader struct {
	sent bool
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "partial image bytes"), nil
	}
	return 0, errors.New("client connection reset")
}

func TestWriteUploadsObjectWithToken(t *testing.T) {
	client, fake := newFakeGCSClient(t)

	err := client.Write(context.Background(), "users/u1/abc/a.png", strings.NewReader("png bytes"), service.WriteOptions{
		ContentType:   "image/png",
		DownloadToken: "tok-1",
	})
	require.NoError(t, err)

	objects := fake.stored()
	require.Len(t, objects, 1)
	assert.Contains(t, objects[0], "png bytes")
	assert.Contains(t, objects[0], DownloadTokensMetadataKey)
}

func TestWriteDiscardsObjectWhenSourceFails(t *testing.T) {
	client, fake := newFakeGCSClient(t)

	err := client.Write(context.Background(), "users/u1/abc/a.png", &brokenReader{}, service.WriteOptions{
		ContentType:   "image/png",
		DownloadToken: "tok-1",
	})

	assert.ErrorContains(t, err, "client connection reset")
	assert.Empty(t, fake.stored())
}
