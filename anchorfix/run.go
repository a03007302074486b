package anchorfix

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"go.viam.com/anchorfix/keyframe"
	"go.viam.com/anchorfix/logging"
	"go.viam.com/anchorfix/scene"
	"go.viam.com/anchorfix/spatialmath"
)

// Report describes a completed run.
type Report struct {
	Subject         string
	Parent          string
	Anchor          string
	RotationMode    keyframe.RotationMode
	FrameStart      int
	FrameEnd        int
	Frames          int
	Mask            AxisMask
	KeepRotation    bool
	ReferenceAnchor spatialmath.Transform
	Samples         []Sample
	Corrections     []Correction
}

// heldClock remembers the host clock so it can be put back when a run ends.
type heldClock struct {
	host  scene.Host
	frame int
}

func holdClock(host scene.Host) *heldClock {
	return &heldClock{host: host, frame: host.CurrentFrame()}
}

func (c *heldClock) restore(ctx context.Context) error {
	c.host.SetCurrentFrame(c.frame)
	return c.host.Evaluate(ctx)
}

// Run fixes the host's selected subject to cfg.Anchor over the configured frame range. All
// configuration problems are reported before the clock is touched. Once sampling starts, the
// clock is returned to its starting frame however the run ends.
func Run(
	ctx context.Context,
	host scene.Host,
	cfg *Config,
	logger logging.Logger,
	observer Observer,
) (report *Report, err error) {
	observer = observerOrNop(observer)

	observer.PhaseStarted(PhaseValidate, 0)
	anchor, subject, parent, start, err := resolve(host, cfg)
	observer.PhaseFinished(PhaseValidate, err)
	if err != nil {
		return nil, err
	}
	mode := host.RotationMode(subject)

	clock := holdClock(host)
	defer func() {
		observer.PhaseStarted(PhaseRestore, 0)
		restoreErr := clock.restore(ctx)
		observer.PhaseFinished(PhaseRestore, restoreErr)
		if restoreErr != nil {
			logger.Errorw("failed to restore clock", "frame", clock.frame, "error", restoreErr)
			err = multierr.Append(err, restoreErr)
			report = nil
		}
	}()

	frames := cfg.FrameEnd - start + 1
	logger.Infow("fixing anchor motion",
		"subject", subject.Name(),
		"parent", parent.Name(),
		"anchor", anchor.Name(),
		"rotation_mode", mode.String(),
		"frames", fmt.Sprintf("%d-%d", start, cfg.FrameEnd),
		"axes", cfg.Mask.String(),
		"keep_rotation", cfg.KeepRotation,
	)

	observer.PhaseStarted(PhaseSample, frames)
	table, err := SampleFrames(ctx, host, anchor, subject, start, cfg.FrameEnd, observer)
	observer.PhaseFinished(PhaseSample, err)
	if err != nil {
		return nil, err
	}
	ref := table.ReferenceAnchorPose()
	logger.Infow("reference anchor", "frame", start, "translation", ref.Point())

	observer.PhaseStarted(PhaseCorrect, frames)
	corrections, err := Correct(ctx, host, subject, table, cfg.Mask, CorrectOptions{KeepRotation: cfg.KeepRotation}, observer)
	observer.PhaseFinished(PhaseCorrect, err)
	if err != nil {
		return nil, err
	}
	logger.Infof("fixed %d frames (%d→%d)", len(corrections), start, cfg.FrameEnd)

	return &Report{
		Subject:         subject.Name(),
		Parent:          parent.Name(),
		Anchor:          anchor.Name(),
		RotationMode:    mode,
		FrameStart:      start,
		FrameEnd:        cfg.FrameEnd,
		Frames:          frames,
		Mask:            cfg.Mask,
		KeepRotation:    cfg.KeepRotation,
		ReferenceAnchor: ref,
		Samples:         table.Samples(),
		Corrections:     corrections,
	}, nil
}

// resolve checks cfg against the host and returns what a run operates on.
func resolve(host scene.Host, cfg *Config) (scene.Object, scene.Subject, scene.Object, int, error) {
	if cfg == nil {
		return nil, nil, nil, 0, newConfigurationError("config", "no configuration")
	}
	if err := cfg.Validate(""); err != nil {
		return nil, nil, nil, 0, err
	}
	anchor, err := host.ResolveByName(cfg.Anchor)
	if err != nil {
		return nil, nil, nil, 0, newConfigurationError("anchor", "%v", err)
	}
	subject := host.Selection()
	if subject == nil {
		return nil, nil, nil, 0, newConfigurationError("subject", "nothing is selected")
	}
	if cfg.Subject != "" && subject.Name() != cfg.Subject {
		return nil, nil, nil, 0, newConfigurationError("subject",
			"selection is %q, not %q", subject.Name(), cfg.Subject)
	}
	parent := subject.Parent()
	if parent == nil {
		return nil, nil, nil, 0, newConfigurationError("subject", "%q has no parent space", subject.Name())
	}
	start := host.CurrentFrame()
	if cfg.FrameStart != nil {
		start = *cfg.FrameStart
	}
	if err := checkFrameRange(start, cfg.FrameEnd); err != nil {
		return nil, nil, nil, 0, err
	}
	return anchor, subject, parent, start, nil
}
