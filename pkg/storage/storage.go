package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/rok/pkg/story"
)

// ErrStoryNotFound is returned when a story file does not exist.
var ErrStoryNotFound = errors.New("story not found")

// Storage defines how stories are found and loaded. Stories are read-only;
// nothing about a playthrough is ever written back.
type Storage interface {
	// Health
	Ping(ctx context.Context) error

	// ListStories maps story names to their filenames.
	ListStories(ctx context.Context) (map[string]string, error)

	// GetStory loads a story by filename. Repeated calls may return the same
	// *story.Story, which is safe because stories are immutable.
	GetStory(ctx context.Context, filename string) (*story.Story, error)
}
