package storage

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/cookbook/pkg/lifecycle"
)

var _ System = (*Memory)(nil)

// Memory is a process-local System. The zero value is ready to use.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

type memoryBlob struct {
	data        []byte
	contentType string
	modified    time.Time
}

// NewMemory creates an empty in-memory storage system.
func NewMemory() *Memory {
	return &Memory{}
}

// Start is a no-op; the memory system has nothing to initialize.
func (m *Memory) Start(lc *lifecycle.Coordinator) error {
	return nil
}

func (m *Memory) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.blobs == nil {
		m.blobs = make(map[string]memoryBlob)
	}
	m.blobs[key] = memoryBlob{
		data:        slices.Clone(data),
		contentType: contentType,
		modified:    time.Now().UTC(),
	}
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(b.data), nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[key]; !ok {
		return ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}

func (m *Memory) List(ctx context.Context, prefix string) ([]Object, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	objects := make([]Object, 0)
	for key, b := range m.blobs {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		objects = append(objects, Object{
			Key:          key,
			Size:         int64(len(b.data)),
			ContentType:  b.contentType,
			LastModified: b.modified,
		})
	}

	slices.SortFunc(objects, func(a, b Object) int {
		return strings.Compare(a.Key, b.Key)
	})
	return objects, nil
}
