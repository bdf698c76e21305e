package telling

import (
	"fmt"

	"github.com/jwebster45206/rok/pkg/story"
)

// Telling is one playthrough of a story: the current scene and whether the
// story is still running. The scene is kept as a key and resolved against
// the story on each access.
//
// A Telling is not safe for concurrent use. Concurrent playthroughs of the
// same story each get their own Telling.
type Telling struct {
	story   *story.Story
	scene   string
	running bool
}

// Snapshot is a read-only view of a Telling at one point in time.
type Snapshot struct {
	Scene   string   `json:"scene"`
	Message string   `json:"message"`
	Running bool     `json:"running"`
	Verbs   []string `json:"verbs"`
}

// New starts a telling at the story's intro scene.
func New(s *story.Story) (*Telling, error) {
	if s == nil {
		return nil, ErrIntroSceneNotFound
	}
	if _, ok := s.Lookup(s.Intro()); !ok {
		return nil, ErrIntroSceneNotFound
	}
	return &Telling{
		story:   s,
		scene:   s.Intro(),
		running: true,
	}, nil
}

func (t *Telling) Story() *story.Story { return t.story }

// CurrentScene returns the key of the current scene. After the story ends it
// is the scene Exit was chosen from.
func (t *Telling) CurrentScene() string { return t.scene }

func (t *Telling) CurrentMessage() string { return t.current().Message() }

func (t *Telling) IsRunning() bool { return t.running }

// Verbs lists the verbs offered by the current scene.
func (t *Telling) Verbs() []string { return t.current().Verbs() }

func (t *Telling) Snapshot() Snapshot {
	return Snapshot{
		Scene:   t.scene,
		Message: t.CurrentMessage(),
		Running: t.running,
		Verbs:   t.Verbs(),
	}
}

// ApplyChoice looks verb up in the current scene and applies it. On error
// the telling is left exactly as it was.
func (t *Telling) ApplyChoice(verb string) error {
	if !t.running {
		return ErrStopped
	}

	choice, ok := t.current().Choice(verb)
	if !ok {
		return &ChoiceNotFoundError{Verb: verb}
	}

	switch c := choice.(type) {
	case story.MoveScene:
		if _, ok := t.story.Lookup(c.Destination); !ok {
			return &SceneNotFoundError{Destination: c.Destination}
		}
		t.scene = c.Destination
	case story.Exit:
		t.running = false
	default:
		return fmt.Errorf("unsupported choice kind %q", choice.Kind())
	}
	return nil
}

// current resolves the current scene. New and ApplyChoice only ever store
// keys that resolve, and the story never changes.
func (t *Telling) current() *story.Scene {
	sc, _ := t.story.Lookup(t.scene)
	return sc
}
