package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jwebster45206/rok/pkg/storage"
	"github.com/jwebster45206/rok/pkg/story"
)

// FileStorage implements storage.Storage over a directory of story files.
// Parsed stories are cached; they are immutable, so every telling of the
// same file shares one graph.
type FileStorage struct {
	logger  *slog.Logger
	dataDir string

	mu    sync.RWMutex
	cache map[string]*story.Story
}

// Ensure FileStorage implements Storage interface
var _ storage.Storage = (*FileStorage)(nil)

// NewFileStorage creates a file storage rooted at dataDir/stories.
func NewFileStorage(dataDir string, logger *slog.Logger) *FileStorage {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FileStorage{
		logger:  logger,
		dataDir: dataDir,
		cache:   make(map[string]*story.Story),
	}
}

func (f *FileStorage) storiesDir() string {
	return filepath.Join(f.dataDir, "stories")
}

func (f *FileStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(f.storiesDir())
	if err != nil {
		return fmt.Errorf("stories directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("stories path is not a directory: %s", f.storiesDir())
	}
	return nil
}

func (f *FileStorage) ListStories(ctx context.Context) (map[string]string, error) {
	entries, err := os.ReadDir(f.storiesDir())
	if err != nil {
		f.logger.Error("Failed to read stories directory", "error", err)
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	stories := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !IsStoryFile(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		filename := entry.Name()
		s, err := f.GetStory(ctx, filename)
		if err != nil {
			f.logger.Warn("Skipping unreadable story file", "filename", filename, "error", err)
			continue
		}

		name := s.Name()
		if name == "" {
			name = strings.TrimSuffix(filename, filepath.Ext(filename))
		}
		stories[name] = filename
	}

	return stories, nil
}

func (f *FileStorage) GetStory(ctx context.Context, filename string) (*story.Story, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return nil, fmt.Errorf("%w: invalid filename %q", storage.ErrStoryNotFound, filename)
	}

	f.mu.RLock()
	s, ok := f.cache[filename]
	f.mu.RUnlock()
	if ok {
		return s, nil
	}

	path := filepath.Join(f.storiesDir(), filename)
	f.logger.Debug("Loading story", "filename", filename, "full_path", path)

	s, err := LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	if cached, ok := f.cache[filename]; ok {
		s = cached
	} else {
		f.cache[filename] = s
	}
	f.mu.Unlock()

	return s, nil
}

// IsStoryFile reports whether path has a story file extension.
func IsStoryFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFile reads and decodes one story file, choosing the format by
// extension.
func LoadFile(ctx context.Context, path string) (*story.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrStoryNotFound, path)
		}
		return nil, fmt.Errorf("failed to read story file: %w", err)
	}
	defer func() {
		_ = file.Close() // Ignore error in defer
	}()

	var s *story.Story
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = story.DecodeYAML(file)
	case ".json":
		s, err = story.DecodeJSON(file)
	default:
		return nil, fmt.Errorf("unsupported story file extension: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load story %s: %w", filepath.Base(path), err)
	}
	return s, nil
}
