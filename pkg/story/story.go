package story

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownChoiceType = errors.New("unknown choice type")
	ErrMissingField      = errors.New("missing required field")
	ErrNilChoice         = errors.New("nil choice")
)

// Story is the immutable graph of scenes for one story. It is safe to share
// between goroutines; nothing mutates it after construction.
type Story struct {
	name   string
	intro  string
	scenes map[string]*Scene
}

// Scene is a named node in the story graph: a message shown on arrival and
// the choices available from it, keyed by verb.
type Scene struct {
	message string
	choices map[string]Choice
}

// SceneSpec is the input used to build a Scene.
type SceneSpec struct {
	Message string
	Choices map[string]Choice
}

// New builds a Story from the given scenes. Input maps are copied.
// Any intro key is accepted, including ""; telling.New reports one that
// does not resolve.
func New(name, intro string, scenes map[string]SceneSpec) (*Story, error) {
	if scenes == nil {
		return nil, fmt.Errorf("%w: scenes", ErrMissingField)
	}

	s := &Story{
		name:   name,
		intro:  intro,
		scenes: make(map[string]*Scene, len(scenes)),
	}
	for key, spec := range scenes {
		choices := make(map[string]Choice, len(spec.Choices))
		for verb, c := range spec.Choices {
			if c == nil {
				return nil, fmt.Errorf("scene %q verb %q: %w", key, verb, ErrNilChoice)
			}
			choices[verb] = c
		}
		s.scenes[key] = &Scene{message: spec.Message, choices: choices}
	}
	return s, nil
}

func (s *Story) Name() string  { return s.name }
func (s *Story) Intro() string { return s.intro }

// Lookup returns the scene stored under key.
func (s *Story) Lookup(key string) (*Scene, bool) {
	sc, ok := s.scenes[key]
	return sc, ok
}

// SceneKeys returns every scene key in sorted order.
func (s *Story) SceneKeys() []string {
	keys := make([]string, 0, len(s.scenes))
	for k := range s.scenes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (sc *Scene) Message() string { return sc.message }

// Choice returns the choice bound to verb. Matching is exact and
// case-sensitive.
func (sc *Scene) Choice(verb string) (Choice, bool) {
	c, ok := sc.choices[verb]
	return c, ok
}

// Verbs returns the scene's verbs in sorted order.
func (sc *Scene) Verbs() []string {
	verbs := make([]string, 0, len(sc.choices))
	for v := range sc.choices {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)
	return verbs
}
