package story

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// storyRecord is the on-disk shape of a story file. Pointer and map fields
// let the decoders tell a missing field from an empty one.
type storyRecord struct {
	Name   string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Intro  *string                `json:"intro" yaml:"intro"`
	Scenes map[string]sceneRecord `json:"scenes" yaml:"scenes"`
}

type sceneRecord struct {
	Message *string                 `json:"message" yaml:"message"`
	Choices map[string]choiceRecord `json:"choices" yaml:"choices"`
}

// DecodeJSON reads a story in JSON form. Unknown fields are rejected.
func DecodeJSON(r io.Reader) (*Story, error) {
	var rec storyRecord
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode story JSON: %w", err)
	}
	return rec.build()
}

// DecodeYAML reads a story in YAML form. Unknown fields are rejected.
func DecodeYAML(r io.Reader) (*Story, error) {
	var rec storyRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode story YAML: %w", err)
	}
	return rec.build()
}

func (rec storyRecord) build() (*Story, error) {
	if rec.Intro == nil {
		return nil, fmt.Errorf("%w: intro", ErrMissingField)
	}
	if rec.Scenes == nil {
		return nil, fmt.Errorf("%w: scenes", ErrMissingField)
	}

	specs := make(map[string]SceneSpec, len(rec.Scenes))
	for key, sr := range rec.Scenes {
		if sr.Message == nil {
			return nil, fmt.Errorf("scene %q: %w: message", key, ErrMissingField)
		}
		if sr.Choices == nil {
			return nil, fmt.Errorf("scene %q: %w: choices", key, ErrMissingField)
		}
		choices := make(map[string]Choice, len(sr.Choices))
		for verb, cr := range sr.Choices {
			c, err := cr.toChoice()
			if err != nil {
				return nil, fmt.Errorf("scene %q verb %q: %w", key, verb, err)
			}
			choices[verb] = c
		}
		specs[key] = SceneSpec{Message: *sr.Message, Choices: choices}
	}

	return New(rec.Name, *rec.Intro, specs)
}
