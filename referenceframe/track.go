package referenceframe

import (
	"sort"

	"github.com/golang/geo/r3"

	"go.viam.com/anchorfix/spatialmath"
)

// Track is a set of local transforms keyed on integer frames. Between keys the translation and
// scale are interpolated linearly and the orientation spherically; outside the keyed range the
// nearest key holds.
type Track struct {
	keys   map[int]spatialmath.Transform
	frames []int
}

// NewTrack returns an empty Track.
func NewTrack() *Track {
	return &Track{keys: map[int]spatialmath.Transform{}}
}

// NewStaticTrack returns a Track holding tf for all time.
func NewStaticTrack(tf spatialmath.Transform) *Track {
	t := NewTrack()
	t.Set(0, tf)
	return t
}

// Set keys tf at frame, replacing any existing key.
func (t *Track) Set(frame int, tf spatialmath.Transform) {
	if _, ok := t.keys[frame]; !ok {
		idx := sort.SearchInts(t.frames, frame)
		t.frames = append(t.frames, 0)
		copy(t.frames[idx+1:], t.frames[idx:])
		t.frames[idx] = frame
	}
	t.keys[frame] = tf
}

// Len returns the number of keys.
func (t *Track) Len() int {
	return len(t.frames)
}

// Frames returns the keyed frames in increasing order.
func (t *Track) Frames() []int {
	return append([]int(nil), t.frames...)
}

// At evaluates the track at frame.
func (t *Track) At(frame int) (spatialmath.Transform, error) {
	if len(t.frames) == 0 {
		return spatialmath.Transform{}, ErrEmptyTrack
	}
	if tf, ok := t.keys[frame]; ok {
		return tf, nil
	}
	idx := sort.SearchInts(t.frames, frame)
	if idx == 0 {
		return t.keys[t.frames[0]], nil
	}
	if idx == len(t.frames) {
		return t.keys[t.frames[len(t.frames)-1]], nil
	}
	before, after := t.frames[idx-1], t.frames[idx]
	amount := float64(frame-before) / float64(after-before)
	return interpolate(t.keys[before], t.keys[after], amount), nil
}

func interpolate(a, b spatialmath.Transform, amount float64) spatialmath.Transform {
	lerp := func(u, v r3.Vector) r3.Vector {
		return u.Add(v.Sub(u).Mul(amount))
	}
	return spatialmath.NewTransformWithScale(
		lerp(a.Point(), b.Point()),
		spatialmath.Slerp(a.Orientation(), b.Orientation(), amount),
		lerp(a.Scale(), b.Scale()),
	)
}
