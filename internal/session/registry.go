package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/rok/pkg/story"
	"github.com/jwebster45206/rok/pkg/telling"
)

var ErrSessionNotFound = errors.New("telling not found")

// Session is one hosted playthrough. Access to its Telling is serialised by
// mu so each Telling has a single caller at a time.
type Session struct {
	ID        uuid.UUID
	StoryFile string
	CreatedAt time.Time

	mu      sync.Mutex
	telling *telling.Telling
}

// Registry holds sessions in memory for the life of the process. Nothing is
// persisted.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Create starts a new telling of s. It fails with
// telling.ErrIntroSceneNotFound without registering anything.
func (r *Registry) Create(storyFile string, s *story.Story) (uuid.UUID, telling.Snapshot, error) {
	t, err := telling.New(s)
	if err != nil {
		return uuid.Nil, telling.Snapshot{}, err
	}

	sess := &Session{
		ID:        uuid.New(),
		StoryFile: storyFile,
		CreatedAt: time.Now(),
		telling:   t,
	}

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	return sess.ID, t.Snapshot(), nil
}

func (r *Registry) get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Get returns the session and a snapshot of its telling.
func (r *Registry) Get(id uuid.UUID) (*Session, telling.Snapshot, error) {
	sess, err := r.get(id)
	if err != nil {
		return nil, telling.Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess, sess.telling.Snapshot(), nil
}

// Apply applies verb to the session's telling. The returned snapshot is
// the state after the attempt, unchanged when err is non-nil.
func (r *Registry) Apply(id uuid.UUID, verb string) (telling.Snapshot, error) {
	sess, err := r.get(id)
	if err != nil {
		return telling.Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	err = sess.telling.ApplyChoice(verb)
	return sess.telling.Snapshot(), err
}

func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// IDs returns all session IDs, oldest first.
func (r *Registry) IDs() []uuid.UUID {
	r.mu.RLock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	ids := make([]uuid.UUID, len(all))
	for i, s := range all {
		ids[i] = s.ID
	}
	return ids
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
