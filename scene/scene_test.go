package scene

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/anchorfix/keyframe"
	"go.viam.com/anchorfix/logging"
	"go.viam.com/anchorfix/referenceframe"
	"go.viam.com/anchorfix/spatialmath"
)

func slidingTrack(from, to r3.Vector, start, end int) *referenceframe.Track {
	track := referenceframe.NewTrack()
	track.Set(start, spatialmath.NewTranslation(from))
	track.Set(end, spatialmath.NewTranslation(to))
	return track
}

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	s := NewScene("test", logging.NewTestLogger(t))
	test.That(t, s.AddObject("rig", "", nil,
		slidingTrack(r3.Vector{}, r3.Vector{X: 10}, 0, 10)), test.ShouldBeNil)
	test.That(t, s.AddObject("hand", "rig", keyframe.QuaternionMode{},
		referenceframe.NewStaticTrack(spatialmath.NewTranslation(r3.Vector{Y: 1}))), test.ShouldBeNil)
	return s
}

func TestSceneEvaluate(t *testing.T) {
	ctx := context.Background()
	s := newTestScene(t)

	hand, err := s.ResolveByName("hand")
	test.That(t, err, test.ShouldBeNil)

	_, err = s.WorldTransform(hand)
	test.That(t, errors.Is(err, ErrNotEvaluated), test.ShouldBeTrue)

	s.SetCurrentFrame(5)
	test.That(t, s.Evaluate(ctx), test.ShouldBeNil)
	world, err := s.WorldTransform(hand)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(world.Point(), r3.Vector{X: 5, Y: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, s.Evaluations(), test.ShouldEqual, 1)

	_, err = s.ResolveByName("nobody")
	test.That(t, errors.Is(err, ErrNotFound), test.ShouldBeTrue)
}

func TestSceneSelection(t *testing.T) {
	s := newTestScene(t)
	test.That(t, s.Selection(), test.ShouldBeNil)

	test.That(t, s.Select("hand"), test.ShouldBeNil)
	subj := s.Selection()
	test.That(t, subj, test.ShouldNotBeNil)
	test.That(t, subj.Name(), test.ShouldEqual, "hand")
	test.That(t, subj.Parent().Name(), test.ShouldEqual, "rig")

	test.That(t, s.Select("rig"), test.ShouldBeNil)
	test.That(t, s.Selection().Parent(), test.ShouldBeNil)

	test.That(t, errors.Is(s.Select("ghost"), ErrNotFound), test.ShouldBeTrue)
	test.That(t, s.Select(""), test.ShouldBeNil)
	test.That(t, s.Selection(), test.ShouldBeNil)
}

func TestScenePoseOverride(t *testing.T) {
	ctx := context.Background()
	s := newTestScene(t)
	test.That(t, s.Select("hand"), test.ShouldBeNil)
	hand := s.Selection()

	s.SetCurrentFrame(2)
	test.That(t, s.Evaluate(ctx), test.ShouldBeNil)
	pose := spatialmath.NewTranslation(r3.Vector{Z: 4})
	test.That(t, s.SetParentSpacePose(hand, pose), test.ShouldBeNil)

	_, err := s.ParentSpacePose(hand)
	test.That(t, errors.Is(err, ErrNotEvaluated), test.ShouldBeTrue)
	test.That(t, errors.Is(s.InsertKeyframe(hand, keyframe.Translation, 2), ErrNotEvaluated), test.ShouldBeTrue)

	test.That(t, s.Evaluate(ctx), test.ShouldBeNil)
	local, err := s.ParentSpacePose(hand)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.TransformAlmostEqual(local, pose, 1e-12), test.ShouldBeTrue)
	world, err := s.WorldTransform(hand)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(world.Point(), r3.Vector{X: 2, Z: 4}, 1e-9), test.ShouldBeTrue)

	// Moving the clock drops the override.
	s.SetCurrentFrame(3)
	test.That(t, s.Evaluate(ctx), test.ShouldBeNil)
	local, err = s.ParentSpacePose(hand)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(local.Point(), r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
}

func TestSceneInsertKeyframe(t *testing.T) {
	ctx := context.Background()
	s := newTestScene(t)
	test.That(t, s.Select("hand"), test.ShouldBeNil)
	hand := s.Selection()
	test.That(t, s.RotationMode(hand), test.ShouldResemble, keyframe.QuaternionMode{})

	s.SetCurrentFrame(4)
	test.That(t, s.Evaluate(ctx), test.ShouldBeNil)
	test.That(t, s.SetParentSpacePose(hand, spatialmath.NewTranslation(r3.Vector{X: -4, Y: 1})), test.ShouldBeNil)
	test.That(t, s.Evaluate(ctx), test.ShouldBeNil)
	test.That(t, s.InsertKeyframe(hand, keyframe.Translation, 4), test.ShouldBeNil)
	test.That(t, s.InsertKeyframe(hand, keyframe.RotationQuaternion, 4), test.ShouldBeNil)

	values, ok := s.Keyframes().Value("hand", keyframe.Translation, 4)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, values, test.ShouldResemble, []float64{-4, 1, 0})
	values, ok = s.Keyframes().Value("hand", keyframe.RotationQuaternion, 4)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, values, test.ShouldResemble, []float64{1, 0, 0, 0})

	// The key is baked into the track, so it survives a clock change.
	s.SetCurrentFrame(0)
	s.SetCurrentFrame(4)
	test.That(t, s.Evaluate(ctx), test.ShouldBeNil)
	world, err := s.WorldTransform(hand)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(world.Point(), r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)

	track, ok := s.Track("hand")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, track.Frames(), test.ShouldResemble, []int{0, 4})
}

func TestSceneAddObject(t *testing.T) {
	s := newTestScene(t)
	test.That(t, s.AddObject("world", "", nil, nil), test.ShouldNotBeNil)
	test.That(t, s.AddObject("", "", nil, nil), test.ShouldNotBeNil)
	test.That(t, errors.Is(s.AddObject("finger", "arm", nil, nil), ErrNotFound), test.ShouldBeTrue)
	test.That(t, s.AddObject("hand", "", nil, nil), test.ShouldNotBeNil)

	test.That(t, s.Select("rig"), test.ShouldBeNil)
	test.That(t, s.RotationMode(s.Selection()), test.ShouldResemble, keyframe.EulerMode{Order: spatialmath.XYZ})
}
