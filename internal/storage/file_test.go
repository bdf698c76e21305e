package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/rok/pkg/storage"
)

const caveJSON = `{
  "name": "The Cave",
  "intro": "mouth",
  "scenes": {
    "mouth": {"message": "A dark cave.", "choices": {"enter": {"type": "MoveScene", "destination": "deep"}}},
    "deep": {"message": "It is very dark.", "choices": {"leave": {"type": "Exit"}}}
  }
}`

const meadowYAML = `
intro: field
scenes:
  field:
    message: Sunlight and grass.
    choices:
      rest:
        type: Exit
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dataDir := t.TempDir()
	storiesDir := filepath.Join(dataDir, "stories")
	require.NoError(t, os.MkdirAll(storiesDir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(storiesDir, name), []byte(content), 0o644))
	}
	return dataDir
}

func TestFileStorage_GetStory(t *testing.T) {
	dataDir := setupDataDir(t, map[string]string{
		"cave.json":   caveJSON,
		"meadow.yaml": meadowYAML,
	})
	fs := NewFileStorage(dataDir, testLogger())
	ctx := context.Background()

	cave, err := fs.GetStory(ctx, "cave.json")
	require.NoError(t, err)
	assert.Equal(t, "The Cave", cave.Name())
	assert.Equal(t, "mouth", cave.Intro())

	meadow, err := fs.GetStory(ctx, "meadow.yaml")
	require.NoError(t, err)
	field, ok := meadow.Lookup("field")
	require.True(t, ok)
	assert.Equal(t, "Sunlight and grass.", field.Message())

	again, err := fs.GetStory(ctx, "cave.json")
	require.NoError(t, err)
	assert.Same(t, cave, again, "parsed stories are cached")
}

func TestFileStorage_GetStoryErrors(t *testing.T) {
	dataDir := setupDataDir(t, map[string]string{
		"broken.json": `{"intro": "a", "scenes": {"a": {"message": "m", "choices": {"x": {"type": "Fly"}}}}}`,
		"notes.txt":   "not a story",
	})
	fs := NewFileStorage(dataDir, testLogger())
	ctx := context.Background()

	_, err := fs.GetStory(ctx, "missing.json")
	assert.ErrorIs(t, err, storage.ErrStoryNotFound)

	_, err = fs.GetStory(ctx, "../secrets.json")
	assert.ErrorIs(t, err, storage.ErrStoryNotFound)

	_, err = fs.GetStory(ctx, "broken.json")
	assert.Error(t, err)

	_, err = fs.GetStory(ctx, "notes.txt")
	assert.Error(t, err)
}

func TestFileStorage_ListStories(t *testing.T) {
	dataDir := setupDataDir(t, map[string]string{
		"cave.json":   caveJSON,
		"meadow.yaml": meadowYAML,
		"broken.json": `{`,
		"readme.md":   "# stories",
	})
	fs := NewFileStorage(dataDir, testLogger())

	stories, err := fs.ListStories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"The Cave": "cave.json",
		"meadow":   "meadow.yaml",
	}, stories)
}

func TestFileStorage_ListStoriesIgnoresSubdirectories(t *testing.T) {
	dataDir := setupDataDir(t, map[string]string{"cave.json": caveJSON})
	sub := filepath.Join(dataDir, "stories", "sub")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "folder.json"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "cave.json"), []byte(meadowYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "deep.yaml"), []byte(meadowYAML), 0o644))

	stories, err := NewFileStorage(dataDir, testLogger()).ListStories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"The Cave": "cave.json"}, stories)
}

func TestFileStorage_ListStoriesMissingDir(t *testing.T) {
	_, err := NewFileStorage(filepath.Join(t.TempDir(), "nope"), testLogger()).ListStories(context.Background())
	assert.Error(t, err)
}

func TestFileStorage_Ping(t *testing.T) {
	dataDir := setupDataDir(t, nil)
	assert.NoError(t, NewFileStorage(dataDir, testLogger()).Ping(context.Background()))
	assert.Error(t, NewFileStorage(filepath.Join(dataDir, "nope"), testLogger()).Ping(context.Background()))
}

func TestLoadFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFile(ctx, "story.json")
	assert.ErrorIs(t, err, context.Canceled)
}
