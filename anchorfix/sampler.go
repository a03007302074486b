package anchorfix

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/anchorfix/scene"
	"go.viam.com/anchorfix/spatialmath"
)

// Sample holds the transforms read at one frame. Transforms are values, so a sample is a
// snapshot that later evaluations cannot change.
type Sample struct {
	Frame int
	// ParentWorld is the world transform of the subject's parent, the space its local pose
	// lives in.
	ParentWorld  spatialmath.Transform
	SubjectWorld spatialmath.Transform
	AnchorWorld  spatialmath.Transform
}

// SampleTable is the samples of a contiguous frame range, in frame order.
type SampleTable struct {
	samples []Sample
}

// NewSampleTable builds a table from samples of consecutive increasing frames.
func NewSampleTable(samples []Sample) (*SampleTable, error) {
	if len(samples) == 0 {
		return nil, newConfigurationError("frame range", "no frames sampled")
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Frame != samples[i-1].Frame+1 {
			return nil, errors.Errorf("sample %d is for frame %d, expected %d", i, samples[i].Frame, samples[i-1].Frame+1)
		}
	}
	return &SampleTable{samples: append([]Sample(nil), samples...)}, nil
}

// Len returns the number of sampled frames.
func (st *SampleTable) Len() int {
	return len(st.samples)
}

// Start returns the first sampled frame.
func (st *SampleTable) Start() int {
	return st.samples[0].Frame
}

// End returns the last sampled frame.
func (st *SampleTable) End() int {
	return st.samples[len(st.samples)-1].Frame
}

// At returns the sample for frame.
func (st *SampleTable) At(frame int) (Sample, bool) {
	if frame < st.Start() || frame > st.End() {
		return Sample{}, false
	}
	return st.samples[frame-st.Start()], true
}

// Samples returns a copy of every sample.
func (st *SampleTable) Samples() []Sample {
	return append([]Sample(nil), st.samples...)
}

// ReferenceAnchorPose returns the anchor's world transform at the first frame, the pose the
// subject is re-anchored to.
func (st *SampleTable) ReferenceAnchorPose() spatialmath.Transform {
	return st.samples[0].AnchorWorld
}

// SampleFrames steps the host clock through [start, end] and records, at each frame, the
// world transforms of the subject's parent, the subject and the anchor. It moves the clock and
// nothing else; restoring the clock is up to the caller.
func SampleFrames(
	ctx context.Context,
	host scene.Host,
	anchor scene.Object,
	subject scene.Subject,
	start, end int,
	observer Observer,
) (*SampleTable, error) {
	if anchor == nil {
		return nil, newConfigurationError("anchor", "no anchor object")
	}
	if subject == nil {
		return nil, newConfigurationError("subject", "no subject selected")
	}
	parent := subject.Parent()
	if parent == nil {
		return nil, newConfigurationError("subject", "%q has no parent space", subject.Name())
	}
	if err := checkFrameRange(start, end); err != nil {
		return nil, err
	}

	observer = observerOrNop(observer)
	n := end - start + 1
	samples := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		frame := start + i
		host.SetCurrentFrame(frame)
		if err := host.Evaluate(ctx); err != nil {
			return nil, errors.Wrapf(err, "evaluating frame %d", frame)
		}
		parentWorld, err := host.WorldTransform(parent)
		if err != nil {
			return nil, errors.Wrapf(err, "reading parent %q at frame %d", parent.Name(), frame)
		}
		local, err := host.ParentSpacePose(subject)
		if err != nil {
			return nil, errors.Wrapf(err, "reading subject %q at frame %d", subject.Name(), frame)
		}
		anchorWorld, err := host.WorldTransform(anchor)
		if err != nil {
			return nil, errors.Wrapf(err, "reading anchor %q at frame %d", anchor.Name(), frame)
		}
		samples = append(samples, Sample{
			Frame:        frame,
			ParentWorld:  parentWorld,
			SubjectWorld: spatialmath.Compose(parentWorld, local),
			AnchorWorld:  anchorWorld,
		})
		observer.FrameDone(PhaseSample, frame)
	}
	return NewSampleTable(samples)
}
