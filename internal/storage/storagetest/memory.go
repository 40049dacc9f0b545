// Package storagetest provides an in-memory storage.Gateway for tests.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"onway_routes/internal/storage"
)

// ErrInjected is the failure returned for keys registered with FailDeleteOf.
var ErrInjected = errors.New("storagetest: injected failure")

// Memory keeps objects in a map and records every delete attempt.
type Memory struct {
	mu       sync.Mutex
	objects  map[string]bool
	failing  map[string]error
	attempts []string
}

var _ storage.Gateway = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{objects: map[string]bool{}, failing: map[string]error{}}
}

// Put stores an object as if a client had uploaded it.
func (m *Memory) Put(collection storage.Collection, fileName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[storage.ObjectKey(collection, fileName)] = true
}

// FailDeleteOf makes every delete of the object fail with ErrInjected.
func (m *Memory) FailDeleteOf(collection storage.Collection, fileName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[storage.ObjectKey(collection, fileName)] = ErrInjected
}

// Has reports whether the object is still stored.
func (m *Memory) Has(collection storage.Collection, fileName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[storage.ObjectKey(collection, fileName)]
}

// Len is the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// DeleteAttempts lists the keys Delete was called with, in call order.
func (m *Memory) DeleteAttempts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.attempts...)
}

func (m *Memory) Delete(_ context.Context, collection storage.Collection, fileName string) error {
	key := storage.ObjectKey(collection, fileName)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, key)
	if err := m.failing[key]; err != nil {
		return err
	}
	if !m.objects[key] {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	delete(m.objects, key)
	return nil
}

func (m *Memory) Exists(_ context.Context, collection storage.Collection, fileName string) (bool, error) {
	return m.Has(collection, fileName), nil
}

func (m *Memory) IssueUploadURL(_ context.Context, collection storage.Collection, fileName, _ string) (string, error) {
	return "https://upload.test/" + storage.ObjectKey(collection, fileName), nil
}
