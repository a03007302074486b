// Package referenceframe defines frames whose local transforms are animated over time and the
// frame system that composes them into world transforms.
package referenceframe

import (
	"github.com/pkg/errors"

	"go.viam.com/anchorfix/spatialmath"
)

// Frame is a named coordinate system positioned relative to its parent.
type Frame interface {
	// Name returns the name of the frame.
	Name() string

	// Transform is the transform that goes FROM this frame TO its parent's frame at the given time.
	Transform(frame int) (spatialmath.Transform, error)
}

// staticFrame is a frame that never moves relative to its parent. Only the world uses it.
type staticFrame struct {
	name      string
	transform spatialmath.Transform
}

// NewZeroStaticFrame creates a frame with no translation or orientation changes.
func NewZeroStaticFrame(name string) Frame {
	return &staticFrame{name, spatialmath.NewZeroTransform()}
}

func (sf *staticFrame) Name() string {
	return sf.name
}

func (sf *staticFrame) Transform(int) (spatialmath.Transform, error) {
	return sf.transform, nil
}

// AnimatedFrame is a frame whose transform to its parent follows a Track.
type AnimatedFrame struct {
	name  string
	track *Track
}

// NewAnimatedFrame creates a frame driven by track.
func NewAnimatedFrame(name string, track *Track) *AnimatedFrame {
	if track == nil {
		track = NewTrack()
	}
	return &AnimatedFrame{name: name, track: track}
}

// Name returns the name of the frame.
func (af *AnimatedFrame) Name() string {
	return af.name
}

// Track returns the track driving the frame.
func (af *AnimatedFrame) Track() *Track {
	return af.track
}

// Transform evaluates the track at frame.
func (af *AnimatedFrame) Transform(frame int) (spatialmath.Transform, error) {
	tf, err := af.track.At(frame)
	if err != nil {
		return spatialmath.Transform{}, errors.Wrapf(err, "frame %q", af.name)
	}
	return tf, nil
}
