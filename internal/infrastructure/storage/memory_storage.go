package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	transferapp "github.com/erp/catalog/internal/application/transfer"
)

var _ transferapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in memory. It is used when object storage
// is disabled and in tests.
type MemoryObjectStorage struct {
	// BaseURL prefixes generated download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryObjectStorage creates an empty MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "memory://exports",
		objects: make(map[string]memoryObject),
	}
}

// Upload reads size bytes from body and stores them under key
func (s *MemoryObjectStorage) Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	data, err := io.ReadAll(io.LimitReader(body, size))
	if err != nil {
		return fmt.Errorf("read upload body: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("upload body has %d bytes, expected %d", len(data), size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

// GenerateDownloadURL returns a pseudo URL for a stored key
func (s *MemoryObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if _, ok := s.Object(key); !ok {
		return "", time.Time{}, fmt.Errorf("object %q does not exist", key)
	}

	expiresAt := time.Now().Add(expiresIn)
	u := s.BaseURL + "/" + key + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
	return u, expiresAt, nil
}

// Object returns a copy of the stored bytes for key
func (s *MemoryObjectStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

// ContentType returns the content type recorded for key
func (s *MemoryObjectStorage) ContentType(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[key].contentType
}

// Len returns the number of stored objects
func (s *MemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
