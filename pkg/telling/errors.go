package telling

import (
	"errors"
	"fmt"
)

var (
	// ErrIntroSceneNotFound means the story's intro key does not name a scene.
	ErrIntroSceneNotFound = errors.New("story must have an intro scene to start at")
	ErrChoiceNotFound     = errors.New("choice not found")
	ErrSceneNotFound      = errors.New("scene not found")
	// ErrStopped is returned by ApplyChoice once the story has ended.
	ErrStopped = errors.New("story has ended")
)

// ChoiceNotFoundError reports a verb the current scene does not offer.
type ChoiceNotFoundError struct {
	Verb string
}

func (e *ChoiceNotFoundError) Error() string {
	return fmt.Sprintf("unknown verb: %s", e.Verb)
}

func (e *ChoiceNotFoundError) Unwrap() error { return ErrChoiceNotFound }

// SceneNotFoundError reports a MoveScene choice whose destination is not in
// the story.
type SceneNotFoundError struct {
	Destination string
}

func (e *SceneNotFoundError) Error() string {
	return fmt.Sprintf("unknown move destination: %s", e.Destination)
}

func (e *SceneNotFoundError) Unwrap() error { return ErrSceneNotFound }
