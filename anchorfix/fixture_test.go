package anchorfix

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/anchorfix/keyframe"
	"go.viam.com/anchorfix/logging"
	"go.viam.com/anchorfix/referenceframe"
	"go.viam.com/anchorfix/scene"
	"go.viam.com/anchorfix/spatialmath"
)

// linearTrack moves from a to b over [start, end].
func linearTrack(a, b spatialmath.Transform, start, end int) *referenceframe.Track {
	track := referenceframe.NewTrack()
	track.Set(start, a)
	track.Set(end, b)
	return track
}

func translation(x, y, z float64) spatialmath.Transform {
	return spatialmath.NewTranslation(r3.Vector{X: x, Y: y, Z: z})
}

func spinZ(degrees float64) spatialmath.Transform {
	return spatialmath.NewTransform(r3.Vector{}, &spatialmath.R4AA{Theta: degrees * math.Pi / 180, RZ: 1})
}

type rig struct {
	anchor       *referenceframe.Track
	armature     *referenceframe.Track
	subject      *referenceframe.Track
	subjectMode  keyframe.RotationMode
	subjectUnder string
}

// build makes a scene with "anchor" and "armature" under the world and "bone" under
// subjectUnder (the armature by default), with bone selected and the clock at frame 1.
func (r rig) build(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.NewScene("rig", logging.NewTestLogger(t))
	if r.anchor == nil {
		r.anchor = referenceframe.NewStaticTrack(spatialmath.NewZeroTransform())
	}
	if r.armature == nil {
		r.armature = referenceframe.NewStaticTrack(spatialmath.NewZeroTransform())
	}
	if r.subjectUnder == "" {
		r.subjectUnder = "armature"
	}
	test.That(t, s.AddObject("anchor", "", nil, r.anchor), test.ShouldBeNil)
	test.That(t, s.AddObject("armature", "", nil, r.armature), test.ShouldBeNil)
	test.That(t, s.AddObject("bone", r.subjectUnder, r.subjectMode, r.subject), test.ShouldBeNil)
	test.That(t, s.Select("bone"), test.ShouldBeNil)
	s.SetCurrentFrame(1)
	return s
}

// worlds evaluates the scene at every frame in [start, end] and returns the world transforms
// of the named object. The clock is put back afterwards.
func worlds(t *testing.T, s *scene.Scene, name string, start, end int) map[int]spatialmath.Transform {
	t.Helper()
	ctx := context.Background()
	obj, err := s.ResolveByName(name)
	test.That(t, err, test.ShouldBeNil)
	was := s.CurrentFrame()
	out := map[int]spatialmath.Transform{}
	for f := start; f <= end; f++ {
		s.SetCurrentFrame(f)
		test.That(t, s.Evaluate(ctx), test.ShouldBeNil)
		tf, err := s.WorldTransform(obj)
		test.That(t, err, test.ShouldBeNil)
		out[f] = tf
	}
	s.SetCurrentFrame(was)
	test.That(t, s.Evaluate(ctx), test.ShouldBeNil)
	return out
}

type recordingObserver struct {
	started  []Phase
	finished []Phase
	errs     []error
	frames   map[Phase][]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{frames: map[Phase][]int{}}
}

func (o *recordingObserver) PhaseStarted(phase Phase, _ int) {
	o.started = append(o.started, phase)
}

func (o *recordingObserver) FrameDone(phase Phase, frame int) {
	o.frames[phase] = append(o.frames[phase], frame)
}

func (o *recordingObserver) PhaseFinished(phase Phase, err error) {
	o.finished = append(o.finished, phase)
	o.errs = append(o.errs, err)
}

func mustResolve(t *testing.T, s *scene.Scene, name string) scene.Object {
	t.Helper()
	obj, err := s.ResolveByName(name)
	test.That(t, err, test.ShouldBeNil)
	return obj
}
