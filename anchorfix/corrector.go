package anchorfix

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/anchorfix/keyframe"
	"go.viam.com/anchorfix/scene"
	"go.viam.com/anchorfix/spatialmath"
)

// Correction is the corrected pose of the subject at one frame.
type Correction struct {
	Frame int
	// DesiredWorld is where the subject should be in world space.
	DesiredWorld spatialmath.Transform
	// Local is DesiredWorld expressed in the subject's parent space, the pose that is committed.
	Local spatialmath.Transform
}

// CorrectOptions tune how corrections are computed.
type CorrectOptions struct {
	// KeepRotation replaces the rotation and scale of each desired world transform with the
	// subject's original ones, so only translation changes. Without it the subject also turns
	// with the inverse of any anchor rotation since the reference frame.
	KeepRotation bool
}

// Plan computes the correction of every sampled frame. Each frame uses only its own sample:
//
//	desired = reference anchor · inverse(anchor world) · subject world
//
// with the translation change then limited to the axes in mask, and
//
//	local = inverse(parent world) · desired
//
// Every inversion happens here, so a singular anchor or parent at any frame fails the plan
// before anything is written.
func Plan(table *SampleTable, mask AxisMask, opts CorrectOptions) ([]Correction, error) {
	if table == nil || table.Len() == 0 {
		return nil, newConfigurationError("frame range", "no frames sampled")
	}
	ref := table.ReferenceAnchorPose()
	corrections := make([]Correction, 0, table.Len())
	for _, s := range table.samples {
		anchorInv, err := spatialmath.Invert(s.AnchorWorld)
		if err != nil {
			return nil, &SingularTransformError{Frame: s.Frame, Which: "anchor", Err: err}
		}
		parentInv, err := spatialmath.Invert(s.ParentWorld)
		if err != nil {
			return nil, &SingularTransformError{Frame: s.Frame, Which: "parent", Err: err}
		}

		desired := spatialmath.Compose(spatialmath.Compose(ref, anchorInv), s.SubjectWorld)
		original := s.SubjectWorld.Point()
		delta := mask.Apply(desired.Point().Sub(original))
		desired = desired.WithPoint(original.Add(delta))
		if opts.KeepRotation {
			desired = desired.WithBasis(s.SubjectWorld.Basis())
		}

		corrections = append(corrections, Correction{
			Frame:        s.Frame,
			DesiredWorld: desired,
			Local:        spatialmath.Compose(parentInv, desired),
		})
	}
	return corrections, nil
}

// Commit writes each correction as the subject's pose at its frame and keys translation and
// rotation there. The rotation goes on the channel the subject's rotation mode uses. A host
// failure stops the commit; frames written before it stay written.
func Commit(
	ctx context.Context,
	host scene.Host,
	subject scene.Subject,
	corrections []Correction,
	observer Observer,
) error {
	observer = observerOrNop(observer)
	rotation, err := keyframe.RotationChannel(host.RotationMode(subject))
	if err != nil {
		return err
	}
	for _, c := range corrections {
		host.SetCurrentFrame(c.Frame)
		if err := host.SetParentSpacePose(subject, c.Local); err != nil {
			return errors.Wrapf(err, "setting pose at frame %d", c.Frame)
		}
		// keyframe inserts read the evaluated pose, not the assigned one
		if err := host.Evaluate(ctx); err != nil {
			return errors.Wrapf(err, "evaluating frame %d", c.Frame)
		}
		for _, ch := range []keyframe.Channel{keyframe.Translation, rotation} {
			if err := host.InsertKeyframe(subject, ch, c.Frame); err != nil {
				return errors.Wrapf(err, "keying %s at frame %d", ch, c.Frame)
			}
		}
		observer.FrameDone(PhaseCorrect, c.Frame)
	}
	return nil
}

// Correct plans every frame of table and commits the result.
func Correct(
	ctx context.Context,
	host scene.Host,
	subject scene.Subject,
	table *SampleTable,
	mask AxisMask,
	opts CorrectOptions,
	observer Observer,
) ([]Correction, error) {
	corrections, err := Plan(table, mask, opts)
	if err != nil {
		return nil, err
	}
	if err := Commit(ctx, host, subject, corrections, observer); err != nil {
		return nil, err
	}
	return corrections, nil
}
