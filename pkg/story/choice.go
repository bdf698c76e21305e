package story

import (
	"fmt"
)

// ChoiceKind names a Choice variant. It is also the "type" discriminator
// used in story files.
type ChoiceKind string

const (
	KindMoveScene ChoiceKind = "MoveScene"
	KindExit      ChoiceKind = "Exit"
)

// Choice is an action bound to a verb within a scene. The set of
// implementations is closed: MoveScene and Exit.
type Choice interface {
	Kind() ChoiceKind
	choice()
}

// MoveScene moves the telling to another scene.
type MoveScene struct {
	Destination string
}

func (MoveScene) Kind() ChoiceKind { return KindMoveScene }
func (MoveScene) choice()          {}

// Exit ends the story.
type Exit struct{}

func (Exit) Kind() ChoiceKind { return KindExit }
func (Exit) choice()          {}

// choiceRecord is the on-disk shape of a choice, shared by the JSON and
// YAML decoders.
type choiceRecord struct {
	Type        ChoiceKind `json:"type" yaml:"type"`
	Destination string     `json:"destination,omitempty" yaml:"destination,omitempty"`
}

func (r choiceRecord) toChoice() (Choice, error) {
	switch r.Type {
	case KindMoveScene:
		if r.Destination == "" {
			return nil, fmt.Errorf("%w: destination", ErrMissingField)
		}
		return MoveScene{Destination: r.Destination}, nil
	case KindExit:
		return Exit{}, nil
	case "":
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChoiceType, r.Type)
	}
}
