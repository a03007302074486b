// Package scene defines the host environment the anchor correction runs against (a clock,
// dependency evaluation, object lookup, pose access and keyframing) and provides an in-memory
// implementation of it.
package scene

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/anchorfix/keyframe"
	"go.viam.com/anchorfix/spatialmath"
)

// ErrNotFound is returned when an object cannot be resolved by name.
var ErrNotFound = errors.New("object not found")

// ErrNotEvaluated is returned when transforms are read after the scene changed but before it
// was evaluated again.
var ErrNotEvaluated = errors.New("scene changed since last evaluation")

// Object is anything in the scene that can be looked up by name.
type Object interface {
	Name() string
}

// Subject is an object whose pose is expressed in the space of a parent object.
type Subject interface {
	Object
	// Parent returns the object the subject's pose is relative to, or nil.
	Parent() Object
}

// Clock is the scene's current-time cursor.
type Clock interface {
	CurrentFrame() int
	SetCurrentFrame(frame int)
}

// Evaluator brings every dependent transform up to date with the clock and any pose writes.
// It must be called after every clock change before any transform is read.
type Evaluator interface {
	Evaluate(ctx context.Context) error
}

// Resolver looks objects up by name.
type Resolver interface {
	ResolveByName(name string) (Object, error)
}

// Selector returns the subject the user has selected, or nil.
type Selector interface {
	Selection() Subject
}

// Poser reads evaluated transforms and writes parent-space poses.
type Poser interface {
	WorldTransform(obj Object) (spatialmath.Transform, error)
	ParentSpacePose(s Subject) (spatialmath.Transform, error)
	SetParentSpacePose(s Subject, pose spatialmath.Transform) error
}

// Keyer exposes a subject's rotation mode and records keyframes from its current pose.
type Keyer interface {
	RotationMode(s Subject) keyframe.RotationMode
	InsertKeyframe(s Subject, ch keyframe.Channel, frame int) error
}

// Host is the full set of host capabilities.
type Host interface {
	Clock
	Evaluator
	Resolver
	Selector
	Poser
	Keyer
}
