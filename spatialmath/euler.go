package spatialmath

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/anchorfix/utils"
)

// RotationOrder is the sequence in which the three elemental rotations of an Euler triple are
// applied. XYZ rotates about X first and Z last, i.e. R = Rz * Ry * Rx.
type RotationOrder int

// The six Tait-Bryan orders.
const (
	XYZ RotationOrder = iota
	XZY
	YXZ
	YZX
	ZXY
	ZYX
)

var rotationOrderNames = [...]string{"XYZ", "XZY", "YXZ", "YZX", "ZXY", "ZYX"}

// the axis indices applied first, second and third.
var rotationOrderAxes = [...][3]int{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

func (o RotationOrder) String() string {
	if o < XYZ || o > ZYX {
		return "UNKNOWN"
	}
	return rotationOrderNames[o]
}

// even reports whether the axis sequence is an even permutation of XYZ.
func (o RotationOrder) even() bool {
	return o == XYZ || o == YZX || o == ZXY
}

// ParseRotationOrder parses one of "XYZ", "XZY", "YXZ", "YZX", "ZXY", "ZYX", case insensitively.
func ParseRotationOrder(s string) (RotationOrder, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range rotationOrderNames {
		if name == upper {
			return RotationOrder(i), nil
		}
	}
	return XYZ, errors.Errorf("unknown rotation order %q", s)
}

// EulerAngles are three rotations, in radians, about the X, Y and Z axes, applied in Order.
type EulerAngles struct {
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
	Z     float64       `json:"z"`
	Order RotationOrder `json:"-"`
}

// NewEulerAngles creates an empty EulerAngles struct with XYZ order.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

func (ea *EulerAngles) angle(axis int) float64 {
	switch axis {
	case 0:
		return ea.X
	case 1:
		return ea.Y
	default:
		return ea.Z
	}
}

func (ea *EulerAngles) setAngle(axis int, v float64) {
	switch axis {
	case 0:
		ea.X = v
	case 1:
		ea.Y = v
	default:
		ea.Z = v
	}
}

// AxisAngles returns the orientation in axis angle representation.
func (ea *EulerAngles) AxisAngles() *R4AA {
	aa := QuatToR4AA(ea.Quaternion())
	return &aa
}

// Quaternion returns orientation in quaternion representation.
func (ea *EulerAngles) Quaternion() quat.Number {
	axes := rotationOrderAxes[ea.Order]
	q := quat.Number{Real: 1}
	for _, axis := range axes {
		q = quat.Mul(elementalQuat(axis, ea.angle(axis)), q)
	}
	return q
}

// EulerAngles returns the same rotation expressed in the given order.
func (ea *EulerAngles) EulerAngles(order RotationOrder) *EulerAngles {
	if order == ea.Order {
		return ea
	}
	return QuatToEulerAngles(ea.Quaternion(), order)
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (ea *EulerAngles) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(ea.Quaternion())
}

func elementalQuat(axis int, theta float64) quat.Number {
	s, c := math.Sincos(theta / 2)
	switch axis {
	case 0:
		return quat.Number{Real: c, Imag: s}
	case 1:
		return quat.Number{Real: c, Jmag: s}
	default:
		return quat.Number{Real: c, Kmag: s}
	}
}

// QuatToEulerAngles converts a quaternion to Euler angles in the given order.
func QuatToEulerAngles(q quat.Number, order RotationOrder) *EulerAngles {
	return rotationMatrixToEulerAngles(QuatToRotationMatrix(q), order)
}

// For R = R_k(c) * R_j(b) * R_i(a) with (i, j, k) an even permutation:
//
//	R[k][i] = -sin(b), R[k][j] = cos(b)sin(a), R[k][k] = cos(b)cos(a),
//	R[j][i] = cos(b)sin(c), R[i][i] = cos(b)cos(c).
//
// Odd permutations flip the sign of the off-diagonal terms.
func rotationMatrixToEulerAngles(rm *RotationMatrix, order RotationOrder) *EulerAngles {
	axes := rotationOrderAxes[order]
	i, j, k := axes[0], axes[1], axes[2]
	sign := 1.
	if !order.even() {
		sign = -1.
	}

	sinB := utils.Clamp(-sign*rm.At(k, i), -1, 1)
	b := math.Asin(sinB)

	var a, c float64
	if math.Abs(sinB) < 1-1e-9 {
		a = math.Atan2(sign*rm.At(k, j), rm.At(k, k))
		c = math.Atan2(sign*rm.At(j, i), rm.At(i, i))
	} else {
		// gimbal lock: only a+c (or a-c) is observable, put it all in a.
		s := 1.
		if sinB < 0 {
			s = -1.
		}
		a = math.Atan2(s*rm.At(i, j), rm.At(j, j))
		c = 0
	}

	ea := &EulerAngles{Order: order}
	ea.setAngle(i, a)
	ea.setAngle(j, b)
	ea.setAngle(k, c)
	return ea
}
