package cli

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/anchorfix/anchorfix"
	"go.viam.com/anchorfix/logging"
	"go.viam.com/anchorfix/report"
	"go.viam.com/anchorfix/scene"
)

// newCLILogger logs to the app's error writer so that logs never mix with requested output.
// --debug and --quiet win over --log-level.
func newCLILogger(c *cli.Context) (logging.Logger, error) {
	level, err := logging.LevelFromString(c.String(flagLogLevel))
	if err != nil {
		return nil, errors.Wrapf(err, "bad --%s", flagLogLevel)
	}
	switch {
	case c.Bool(flagDebug):
		level = logging.DEBUG
	case c.Bool(flagQuiet):
		level = logging.WARN
	}
	logger := logging.NewBlankLogger("anchorfix")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(level)
	return logger, nil
}

func fixConfigFromFlags(c *cli.Context) (*anchorfix.Config, error) {
	mask, err := anchorfix.ParseAxisMask(c.String(flagAxes))
	if err != nil {
		return nil, errors.Wrapf(err, "bad --%s", flagAxes)
	}
	cfg := &anchorfix.Config{
		Anchor:       c.String(flagAnchor),
		Subject:      c.String(flagSubject),
		FrameEnd:     c.Int(flagFrameEnd),
		Mask:         mask,
		KeepRotation: c.Bool(flagKeepRotation),
	}
	if c.IsSet(flagFrameStart) {
		start := c.Int(flagFrameStart)
		cfg.FrameStart = &start
	}
	return cfg, cfg.Validate("")
}

// FixAction corrects the subject in a scene file and writes the requested outputs.
func FixAction(c *cli.Context) error {
	if err := fix(c); err != nil {
		errorf(c.App.ErrWriter, "anchor fix failed: %v", err)
		return cli.Exit("", 1)
	}
	return nil
}

func fix(c *cli.Context) error {
	logger, err := newCLILogger(c)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync() //nolint:errcheck
	}()

	cfg, err := fixConfigFromFlags(c)
	if err != nil {
		return err
	}
	s, err := scene.Read(c.Path(flagScene), logger.Sublogger("scene"))
	if err != nil {
		return err
	}
	if cfg.Subject != "" {
		if err := s.Select(cfg.Subject); err != nil {
			return errors.Wrap(err, "cannot select subject")
		}
	}
	if cfg.Mask == (anchorfix.AxisMask{}) {
		warningf(c.App.ErrWriter, "no axes to correct, frames will be keyed unchanged")
	}

	subjectName := cfg.Subject
	if sel := s.Selection(); sel != nil {
		subjectName = sel.Name()
	}
	pm := NewProgressManager(fixSteps(subjectName, cfg.Anchor),
		WithProgressOutput(logger.GetLevel() <= logging.INFO),
		WithProgressWriter(c.App.ErrWriter),
	)
	defer pm.Stop()
	_ = pm.Start("fix") //nolint:errcheck

	rep, err := anchorfix.Run(c.Context, s, cfg, logger, newProgressObserver(pm))
	if err != nil {
		_ = pm.Fail("fix", err) //nolint:errcheck
		return err
	}
	_ = pm.Complete("fix") //nolint:errcheck

	if err := writeOutputs(c, s, rep); err != nil {
		return err
	}
	successf(c.App.Writer, "fixed %d frames of %q to %q (%d→%d, axes %s)",
		rep.Frames, rep.Subject, rep.Anchor, rep.FrameStart, rep.FrameEnd, rep.Mask)
	return nil
}

func writeOutputs(c *cli.Context, s *scene.Scene, rep *anchorfix.Report) error {
	if c.Bool(flagTable) {
		printf(c.App.Writer, "%s", report.Table(rep))
	}
	if path := c.Path(flagPlot); path != "" {
		if err := report.SavePlot(rep, path); err != nil {
			return errors.Wrap(err, "cannot write plot")
		}
		infof(c.App.Writer, "wrote plot to %s", path)
	}
	if path := c.Path(flagKeys); path != "" {
		if err := writeFile(path, s.Keyframes().WriteJSON); err != nil {
			return errors.Wrap(err, "cannot write keyframes")
		}
		infof(c.App.Writer, "wrote %d keyframes to %s", s.Keyframes().Len(), path)
	}
	if path := c.Path(flagOut); path != "" {
		cfg, err := s.Config()
		if err != nil {
			return err
		}
		if err := writeFile(path, func(f io.Writer) error { return scene.Write(f, cfg) }); err != nil {
			return errors.Wrap(err, "cannot write scene")
		}
		infof(c.App.Writer, "wrote scene to %s", path)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return write(f)
}
