package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/rok/pkg/story"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	stories   map[string]*story.Story
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		stories: make(map[string]*story.Story),
	}
}

// AddStory registers a story under filename
func (m *MockStorage) AddStory(filename string, s *story.Story) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stories[filename] = s
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// ListStories mocks listing stories, keyed by story name or filename
func (m *MockStorage) ListStories(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.stories))
	for filename, s := range m.stories {
		name := s.Name()
		if name == "" {
			name = filename
		}
		out[name] = filename
	}
	return out, nil
}

// GetStory mocks loading a story
func (m *MockStorage) GetStory(ctx context.Context, filename string) (*story.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stories[filename]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStoryNotFound, filename)
	}
	return s, nil
}
