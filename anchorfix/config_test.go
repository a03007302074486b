package anchorfix

import (
	"encoding/json"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/test"
)

func TestParseAxisMask(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want AxisMask
		str  string
	}{
		{"xyz", AllAxes, "xyz"},
		{"ZX", AxisMask{X: true, Z: true}, "xz"},
		{" y ", AxisMask{Y: true}, "y"},
		{"xx", AxisMask{X: true}, "x"},
		{"none", AxisMask{}, "none"},
	} {
		got, err := ParseAxisMask(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldResemble, tc.want)
		test.That(t, got.String(), test.ShouldEqual, tc.str)
	}

	_, err := ParseAxisMask("xw")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = ParseAxisMask("")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAxisMaskApply(t *testing.T) {
	v := r3.Vector{X: 1, Y: -2, Z: 3}
	test.That(t, AllAxes.Apply(v), test.ShouldResemble, v)
	test.That(t, AxisMask{Y: true}.Apply(v), test.ShouldResemble, r3.Vector{Y: -2})
	test.That(t, AxisMask{}.Apply(v), test.ShouldResemble, r3.Vector{})
	test.That(t, AxisMask{X: true, Z: true}.Axes(), test.ShouldResemble, []string{"x", "z"})
}

func TestConfigJSON(t *testing.T) {
	var cfg Config
	err := json.Unmarshal([]byte(`{"anchor": "root", "frame_start": 2, "frame_end": 40, "axes": "xy"}`), &cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Anchor, test.ShouldEqual, "root")
	test.That(t, *cfg.FrameStart, test.ShouldEqual, 2)
	test.That(t, cfg.Mask, test.ShouldResemble, AxisMask{X: true, Y: true})
	test.That(t, cfg.Validate("fix"), test.ShouldBeNil)

	out, err := json.Marshal(cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(out), test.ShouldContainSubstring, `"axes":"xy"`)

	err = json.Unmarshal([]byte(`{"anchor": "root", "axes": "q"}`), &cfg)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigValidate(t *testing.T) {
	start := 9
	cfg := Config{FrameStart: &start, FrameEnd: 3}
	err := cfg.Validate("fix")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `error validating "fix"`)
	test.That(t, len(multierr.Errors(errors.Cause(err))), test.ShouldEqual, 2)

	var cfgErr *ConfigurationError
	test.That(t, errors.As(err, &cfgErr), test.ShouldBeTrue)
	test.That(t, cfgErr.Field, test.ShouldEqual, "anchor")
}
