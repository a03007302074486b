package anchorfix

import (
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/anchorfix/spatialmath"
	"go.viam.com/anchorfix/utils"
)

// AxisMask selects which world translation axes a correction may change.
type AxisMask struct {
	X, Y, Z bool
}

// AllAxes corrects every axis.
var AllAxes = AxisMask{X: true, Y: true, Z: true}

var axisNames = []string{"x", "y", "z"}

// ParseAxisMask reads a mask such as "xz" or "XYZ". "none" corrects nothing.
func ParseAxisMask(s string) (AxisMask, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" {
		return AxisMask{}, nil
	}
	if s == "" {
		return AxisMask{}, errors.New("axis mask is empty, use \"none\" to correct no axes")
	}
	var m AxisMask
	for _, c := range s {
		switch c {
		case 'x':
			m.X = true
		case 'y':
			m.Y = true
		case 'z':
			m.Z = true
		default:
			return AxisMask{}, errors.Errorf("unknown axis %q in mask %q", c, s)
		}
	}
	return m, nil
}

// Axes returns the lowercase names of the enabled axes in x, y, z order.
func (m AxisMask) Axes() []string {
	enabled := [3]bool{m.X, m.Y, m.Z}
	return lo.Filter(axisNames, func(_ string, i int) bool { return enabled[i] })
}

func (m AxisMask) String() string {
	if axes := m.Axes(); len(axes) > 0 {
		return strings.Join(axes, "")
	}
	return "none"
}

// Apply zeroes the components of v on disabled axes.
func (m AxisMask) Apply(v r3.Vector) r3.Vector {
	return spatialmath.MaskVector(v, m.X, m.Y, m.Z)
}

// MarshalText encodes the mask as its String form.
func (m AxisMask) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mask written by MarshalText or ParseAxisMask.
func (m *AxisMask) UnmarshalText(text []byte) error {
	parsed, err := ParseAxisMask(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MaxFrames is the longest frame range a single run accepts.
const MaxFrames = 1 << 20

// checkFrameRange returns a ConfigurationError unless start..end holds 1 to MaxFrames frames.
func checkFrameRange(start, end int) error {
	if start > end {
		return newConfigurationError("frame range", "start frame %d is after end frame %d", start, end)
	}
	// end-start wraps negative when the range spans more than half of int.
	if span := end - start; span < 0 || span >= MaxFrames {
		return newConfigurationError("frame range", "frames %d-%d span more than %d frames", start, end, MaxFrames)
	}
	return nil
}

// Config is one invocation of the fixer.
type Config struct {
	// Anchor is the name of the object whose motion is removed.
	Anchor string `json:"anchor"`
	// Subject, when set, must name the host's selection. Hosts that select by name use it to
	// pick the subject before running.
	Subject string `json:"subject,omitempty"`
	// FrameStart overrides the reference frame, which is otherwise the current frame.
	FrameStart *int     `json:"frame_start,omitempty"`
	FrameEnd   int      `json:"frame_end"`
	Mask       AxisMask `json:"axes"`
	// KeepRotation corrects translation only, keeping the subject's own world rotation.
	KeepRotation bool `json:"keep_rotation,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var errs error
	if cfg.Anchor == "" {
		errs = multierr.Append(errs, newConfigurationError("anchor", "an anchor name is required"))
	}
	if cfg.FrameStart != nil {
		errs = multierr.Append(errs, checkFrameRange(*cfg.FrameStart, cfg.FrameEnd))
	}
	if errs != nil {
		return utils.NewConfigValidationError(path, errs)
	}
	return nil
}
