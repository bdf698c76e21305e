package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/rok/internal/session"
	"github.com/jwebster45206/rok/pkg/storage"
	"github.com/jwebster45206/rok/pkg/story"
	"github.com/jwebster45206/rok/pkg/textfilter"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func newTestStorage(t *testing.T) *storage.MockStorage {
	t.Helper()
	hello, err := story.New("Hello", "intro", map[string]story.SceneSpec{
		"intro": {Message: "Hello, what the hell", Choices: map[string]story.Choice{
			"next":   story.MoveScene{Destination: "outro"},
			"void":   story.MoveScene{Destination: "nowhere"},
			"--exit": story.Exit{},
		}},
		"outro": {Message: "Goodbye", Choices: map[string]story.Choice{
			"--exit": story.Exit{},
		}},
	})
	require.NoError(t, err)

	headless, err := story.New("Headless", "missing", map[string]story.SceneSpec{})
	require.NoError(t, err)

	ms := storage.NewMockStorage()
	ms.AddStory("hello.json", hello)
	ms.AddStory("headless.json", headless)
	return ms
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, &buf))
	return rr
}

func decodeTelling(t *testing.T, rr *httptest.ResponseRecorder) TellingResponse {
	t.Helper()
	var resp TellingResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestTellingHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "starts at intro",
			body:           CreateTellingRequest{Story: "hello.json"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing story field",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "story is required",
		},
		{
			name:           "unknown story",
			body:           CreateTellingRequest{Story: "nope.json"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Story not found",
		},
		{
			name:           "intro scene missing",
			body:           CreateTellingRequest{Story: "headless.json"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTellingHandler(testLogger(), newTestStorage(t), session.NewRegistry(), nil)
			rr := do(t, h, http.MethodPost, "/v1/tellings", tt.body)
			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedStatus == http.StatusCreated {
				resp := decodeTelling(t, rr)
				assert.NotEqual(t, uuid.Nil, resp.ID)
				assert.Equal(t, "hello.json", resp.Story)
				assert.Equal(t, "intro", resp.Scene)
				assert.Equal(t, "Hello, what the hell", resp.Message)
				assert.True(t, resp.Running)
				assert.Equal(t, []string{"--exit", "next", "void"}, resp.Verbs)
				return
			}

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errResp.Error)
			} else {
				assert.NotEmpty(t, errResp.Error)
			}
		})
	}
}

func TestTellingHandler_Playthrough(t *testing.T) {
	h := NewTellingHandler(testLogger(), newTestStorage(t), session.NewRegistry(), nil)

	created := decodeTelling(t, do(t, h, http.MethodPost, "/v1/tellings", CreateTellingRequest{Story: "hello.json"}))
	choices := "/v1/tellings/" + created.ID.String() + "/choices"

	rr := do(t, h, http.MethodPost, choices, ChoiceRequest{Verb: "bogus"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	assert.Equal(t, "unknown verb: bogus", errResp.Error)
	assert.Equal(t, []string{"--exit", "next", "void"}, errResp.Verbs)

	rr = do(t, h, http.MethodPost, choices, ChoiceRequest{Verb: "void"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, h, http.MethodGet, "/v1/tellings/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "intro", decodeTelling(t, rr).Scene)

	rr = do(t, h, http.MethodPost, choices, ChoiceRequest{Verb: "next"})
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeTelling(t, rr)
	assert.Equal(t, "Goodbye", resp.Message)
	assert.True(t, resp.Running)

	rr = do(t, h, http.MethodPost, choices, ChoiceRequest{Verb: "--exit"})
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeTelling(t, rr)
	assert.Equal(t, "Goodbye", resp.Message)
	assert.False(t, resp.Running)

	rr = do(t, h, http.MethodPost, choices, ChoiceRequest{Verb: "--exit"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, h, http.MethodDelete, "/v1/tellings/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/v1/tellings/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTellingHandler_FiltersMessages(t *testing.T) {
	h := NewTellingHandler(testLogger(), newTestStorage(t), session.NewRegistry(), textfilter.ForRating("PG"))

	rr := do(t, h, http.MethodPost, "/v1/tellings", CreateTellingRequest{Story: "hello.json"})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Hello, what the heck", decodeTelling(t, rr).Message)
}

func TestTellingHandler_Routing(t *testing.T) {
	h := NewTellingHandler(testLogger(), newTestStorage(t), session.NewRegistry(), nil)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"list", http.MethodGet, "/v1/tellings", http.StatusOK},
		{"bad method on collection", http.MethodPut, "/v1/tellings", http.StatusMethodNotAllowed},
		{"invalid id", http.MethodGet, "/v1/tellings/not-a-uuid", http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/v1/tellings/" + uuid.NewString(), http.StatusNotFound},
		{"unknown id delete", http.MethodDelete, "/v1/tellings/" + uuid.NewString(), http.StatusNotFound},
		{"bad method on telling", http.MethodPatch, "/v1/tellings/" + uuid.NewString(), http.StatusMethodNotAllowed},
		{"unknown subresource", http.MethodGet, "/v1/tellings/" + uuid.NewString() + "/a/b", http.StatusNotFound},
		{"unknown single subresource", http.MethodGet, "/v1/tellings/" + uuid.NewString() + "/history", http.StatusNotFound},
		{"unknown subresource post", http.MethodPost, "/v1/tellings/" + uuid.NewString() + "/verbs", http.StatusNotFound},
		{"bad method on choices", http.MethodGet, "/v1/tellings/" + uuid.NewString() + "/choices", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestStoryHandler(t *testing.T) {
	h := NewStoryHandler(testLogger(), newTestStorage(t))

	rr := do(t, h, http.MethodGet, "/v1/stories", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stories map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stories))
	assert.Equal(t, map[string]string{"Hello": "hello.json", "Headless": "headless.json"}, stories)

	rr = do(t, h, http.MethodPost, "/v1/stories", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedHealth string
	}{
		{"healthy", nil, http.StatusOK, "healthy"},
		{"storage down", errors.New("no stories dir"), http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := newTestStorage(t)
			ms.SetPingError(tt.pingErr)
			h := NewHealthHandler(ms, session.NewRegistry(), testLogger())

			rr := do(t, h, http.MethodGet, "/health", nil)
			assert.Equal(t, tt.expectedStatus, rr.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedHealth, resp.Status)
			assert.Equal(t, "rok", resp.Service)
		})
	}
}
