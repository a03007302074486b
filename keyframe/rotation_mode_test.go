package keyframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/anchorfix/spatialmath"
)

func TestParseRotationMode(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected RotationMode
	}{
		{"QUATERNION", QuaternionMode{}},
		{"quaternion", QuaternionMode{}},
		{"AXIS_ANGLE", AxisAngleMode{}},
		{"XYZ", EulerMode{Order: spatialmath.XYZ}},
		{"zyx", EulerMode{Order: spatialmath.ZYX}},
		{"", EulerMode{Order: spatialmath.XYZ}},
	} {
		t.Run(tc.in, func(t *testing.T) {
			mode, err := ParseRotationMode(tc.in)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, mode, test.ShouldResemble, tc.expected)
		})
	}

	_, err := ParseRotationMode("MATRIX")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "MATRIX")
}

func TestRotationModeString(t *testing.T) {
	test.That(t, QuaternionMode{}.String(), test.ShouldEqual, "QUATERNION")
	test.That(t, AxisAngleMode{}.String(), test.ShouldEqual, "AXIS_ANGLE")
	test.That(t, EulerMode{Order: spatialmath.YZX}.String(), test.ShouldEqual, "YZX")
}

func TestRotationChannel(t *testing.T) {
	ch, err := RotationChannel(QuaternionMode{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ch, test.ShouldEqual, RotationQuaternion)

	ch, err = RotationChannel(AxisAngleMode{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ch, test.ShouldEqual, RotationAxisAngle)

	ch, err = RotationChannel(EulerMode{Order: spatialmath.ZXY})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ch, test.ShouldEqual, RotationEuler)

	_, err = RotationChannel(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestChannelValues(t *testing.T) {
	local := spatialmath.NewTransform(
		r3.Vector{X: 1, Y: 2, Z: 3},
		&spatialmath.R4AA{Theta: math.Pi / 2, RZ: 1},
	)

	v, err := ChannelValues(Translation, QuaternionMode{}, local)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldResemble, []float64{1, 2, 3})

	v, err = ChannelValues(RotationQuaternion, QuaternionMode{}, local)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldHaveLength, 4)
	test.That(t, v[0], test.ShouldAlmostEqual, math.Cos(math.Pi/4))
	test.That(t, v[3], test.ShouldAlmostEqual, math.Sin(math.Pi/4))

	v, err = ChannelValues(RotationAxisAngle, AxisAngleMode{}, local)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v[0], test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, v[3], test.ShouldAlmostEqual, 1)

	v, err = ChannelValues(RotationEuler, EulerMode{Order: spatialmath.ZYX}, local)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldHaveLength, 3)
	test.That(t, v[2], test.ShouldAlmostEqual, math.Pi/2)

	_, err = ChannelValues(Channel(9), QuaternionMode{}, local)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestOrientationFromValuesRoundTrip(t *testing.T) {
	local := spatialmath.NewTransform(r3.Vector{}, &spatialmath.EulerAngles{X: 0.2, Y: -0.4, Z: 1.1})
	for _, mode := range []RotationMode{
		QuaternionMode{},
		AxisAngleMode{},
		EulerMode{Order: spatialmath.XYZ},
		EulerMode{Order: spatialmath.YXZ},
	} {
		ch, err := RotationChannel(mode)
		test.That(t, err, test.ShouldBeNil)
		values, err := ChannelValues(ch, mode, local)
		test.That(t, err, test.ShouldBeNil)
		o, err := OrientationFromValues(mode, values)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.OrientationAlmostEqual(o, local.Orientation()), test.ShouldBeTrue)
	}

	_, err := OrientationFromValues(QuaternionMode{}, []float64{1, 0})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = OrientationFromValues(EulerMode{}, []float64{1, 0})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestChannelText(t *testing.T) {
	text, err := RotationAxisAngle.MarshalText()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(text), test.ShouldEqual, "rotation_axis_angle")

	var ch Channel
	test.That(t, ch.UnmarshalText([]byte("rotation_euler")), test.ShouldBeNil)
	test.That(t, ch, test.ShouldEqual, RotationEuler)
	test.That(t, ch.UnmarshalText([]byte("scale")), test.ShouldNotBeNil)

	_, err = Channel(-1).MarshalText()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, Channel(7).String(), test.ShouldEqual, "unknown")
}
