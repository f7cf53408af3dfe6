package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync"

	"batchtrace/internal/report"
)

// Memory is an in-memory object store for development and tests. URLs it
// "signs" are not cryptographically protected; they only encode the same
// parameters a real signer would fix, so tests can assert the policy.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemory creates an empty in-memory object store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Put stores an object.
func (m *Memory) Put(object string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[object] = data
}

func (m *Memory) Exists(_ context.Context, object string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[object]
	return ok, nil
}

func (m *Memory) SignedURL(_ context.Context, object string, opts report.SignOptions) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[object]; !ok {
		return "", fmt.Errorf("object %s does not exist", object)
	}
	q := url.Values{
		"expires":                      {fmt.Sprintf("%d", opts.Expires.Unix())},
		"response-content-disposition": {fmt.Sprintf("attachment; filename=%q", opts.Filename)},
	}
	return "https://storage.invalid/" + object + "?" + q.Encode(), nil
}

func (m *Memory) ReadObject(_ context.Context, object string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[object]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

// Health always succeeds; the memory store has no external dependency.
func (m *Memory) Health(context.Context) error { return nil }
