package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestParseRotationOrder(t *testing.T) {
	for i, name := range []string{"XYZ", "xzy", "YXZ", "yzx", " ZXY ", "ZYX"} {
		order, err := ParseRotationOrder(name)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, order, test.ShouldEqual, RotationOrder(i))
	}
	_, err := ParseRotationOrder("QUATERNION")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, RotationOrder(42).String(), test.ShouldEqual, "UNKNOWN")
}

func TestEulerElementalRotations(t *testing.T) {
	// a single elemental rotation is the same in every order
	for order := XYZ; order <= ZYX; order++ {
		ea := &EulerAngles{Z: math.Pi / 2, Order: order}
		rm := ea.RotationMatrix()
		// +90 about Z takes +X to +Y
		test.That(t, rm.Col(0).X, test.ShouldAlmostEqual, 0)
		test.That(t, rm.Col(0).Y, test.ShouldAlmostEqual, 1)
	}
}

func TestEulerOrderMatters(t *testing.T) {
	xyz := &EulerAngles{X: math.Pi / 2, Z: math.Pi / 2, Order: XYZ}
	zyx := &EulerAngles{X: math.Pi / 2, Z: math.Pi / 2, Order: ZYX}
	test.That(t, OrientationAlmostEqual(xyz, zyx), test.ShouldBeFalse)

	// XYZ applies X first: Rz * Rx
	expected := QuatToRotationMatrix(
		quat.Mul(elementalQuat(2, math.Pi/2), elementalQuat(0, math.Pi/2)),
	)
	rm := xyz.RotationMatrix()
	for i := range expected.mat {
		test.That(t, rm.mat[i], test.ShouldAlmostEqual, expected.mat[i])
	}
}

func TestEulerRoundTrip(t *testing.T) {
	angles := [][3]float64{
		{0.1, 0.2, 0.3},
		{-0.7, 0.4, 1.2},
		{1.3, -1.1, -0.9},
		{0, 0, 0},
	}
	for order := XYZ; order <= ZYX; order++ {
		for _, a := range angles {
			ea := &EulerAngles{X: a[0], Y: a[1], Z: a[2], Order: order}
			back := QuatToEulerAngles(ea.Quaternion(), order)
			test.That(t, back.Order, test.ShouldEqual, order)
			test.That(t, back.X, test.ShouldAlmostEqual, a[0])
			test.That(t, back.Y, test.ShouldAlmostEqual, a[1])
			test.That(t, back.Z, test.ShouldAlmostEqual, a[2])
		}
	}
}

func TestEulerGimbalLock(t *testing.T) {
	for order := XYZ; order <= ZYX; order++ {
		for _, b := range []float64{math.Pi / 2, -math.Pi / 2} {
			ea := &EulerAngles{Order: order}
			axes := rotationOrderAxes[order]
			ea.setAngle(axes[0], 0.3)
			ea.setAngle(axes[1], b)
			back := QuatToEulerAngles(ea.Quaternion(), order)
			test.That(t, OrientationAlmostEqual(ea, back), test.ShouldBeTrue)
		}
	}
}

func TestEulerReorder(t *testing.T) {
	ea := &EulerAngles{X: 0.3, Y: -0.2, Z: 0.9, Order: YZX}
	zxy := ea.EulerAngles(ZXY)
	test.That(t, zxy.Order, test.ShouldEqual, ZXY)
	test.That(t, OrientationAlmostEqual(ea, zxy), test.ShouldBeTrue)
	test.That(t, ea.EulerAngles(YZX), test.ShouldEqual, ea)
}
