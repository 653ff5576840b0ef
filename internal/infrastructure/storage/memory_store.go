package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"snaptext/internal/domain/entity"
	"snaptext/internal/domain/service"
)

type memoryObject struct {
	data []byte
	blob entity.Blob
}

// MemoryStore is an in-process ObjectStore with the same key, token and URL
// semantics as the GCS client. It backs local runs without a bucket and the
// tests of everything above the storage layer.
type MemoryStore struct {
	mu         sync.RWMutex
	bucketName string
	objects    map[string]memoryObject

	// FailOn makes the named operation ("read", "write", "list", "delete")
	// fail for keys or prefixes matching the given value.
	FailOn map[string]string
}

func NewMemoryStore(bucketName string) *MemoryStore {
	return &MemoryStore{
		bucketName: bucketName,
		objects:    make(map[string]memoryObject),
		FailOn:     make(map[string]string),
	}
}

func (s *MemoryStore) fail(op, key string) error {
	if match, ok := s.FailOn[op]; ok && strings.HasPrefix(key, match) {
		return &FailureError{Op: op, Key: key}
	}
	return nil
}

func (s *MemoryStore) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.fail("read", key); err != nil {
		return nil, err
	}

	obj, ok := s.objects[key]
	if !ok {
		return nil, service.ErrObjectNotFound
	}
	return bytes.Clone(obj.data), nil
}

func (s *MemoryStore) Write(ctx context.Context, key string, r io.Reader, opts service.WriteOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("write", key); err != nil {
		return err
	}

	s.objects[key] = memoryObject{
		data: data,
		blob: entity.Blob{
			Key:           key,
			ContentType:   opts.ContentType,
			Size:          int64(len(data)),
			DownloadToken: opts.DownloadToken,
			Updated:       time.Now(),
		},
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context, prefix string) ([]entity.Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.fail("list", prefix); err != nil {
		return nil, err
	}

	var blobs []entity.Blob
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			blobs = append(blobs, obj.blob)
		}
	}
	// GCS lists in lexicographic key order.
	sort.Slice(blobs, func(i, j int) bool { return blobs[i].Key < blobs[j].Key })
	return blobs, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("delete", key); err != nil {
		return err
	}

	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) PublicURL(key, token string) string {
	return PublicURL(s.bucketName, key, token)
}

func (s *MemoryStore) Close() error {
	return nil
}

// Keys returns every stored key in order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type FailureError struct {
	Op  string
	Key string
}

func (e *FailureError) Error() string {
	return "injected " + e.Op + " failure for " + e.Key
}
