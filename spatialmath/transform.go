package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/anchorfix/utils"
)

// ErrSingular is returned when a transform has no inverse.
var ErrSingular = errors.New("transform is singular")

// transforms whose 3x3 block has a determinant smaller than this are not inverted.
const singularEpsilon = 1e-12

// Transform is a 4x4 homogeneous transform: a 3x3 rotation and scale block plus a translation.
// Transforms are values; copying one snapshots it. The zero value is the zero matrix, which is
// singular; use NewZeroTransform for the identity.
type Transform struct {
	m mgl64.Mat4
}

// NewZeroTransform returns the identity transform.
func NewZeroTransform() Transform {
	return Transform{mgl64.Ident4()}
}

// NewTransformFromMatrix wraps a homogeneous matrix.
func NewTransformFromMatrix(m mgl64.Mat4) Transform {
	return Transform{m}
}

// NewTranslation returns a transform that only translates by point.
func NewTranslation(point r3.Vector) Transform {
	return Transform{mgl64.Translate3D(point.X, point.Y, point.Z)}
}

// NewTransform creates a transform that rotates by o and then translates by point.
// A nil orientation is no rotation.
func NewTransform(point r3.Vector, o Orientation) Transform {
	return NewTransformWithScale(point, o, r3.Vector{X: 1, Y: 1, Z: 1})
}

// NewTransformWithScale creates a transform that scales, rotates by o and translates by point.
func NewTransformWithScale(point r3.Vector, o Orientation, scale r3.Vector) Transform {
	rot := mgl64.Ident4()
	if o != nil {
		rot = quatToMgl(Normalize(o.Quaternion())).Mat4()
	}
	m := mgl64.Translate3D(point.X, point.Y, point.Z).
		Mul4(rot).
		Mul4(mgl64.Scale3D(scale.X, scale.Y, scale.Z))
	return Transform{m}
}

// Matrix returns the homogeneous matrix.
func (t Transform) Matrix() mgl64.Mat4 {
	return t.m
}

// Point returns the translation component.
func (t Transform) Point() r3.Vector {
	return r3.Vector{X: t.m.At(0, 3), Y: t.m.At(1, 3), Z: t.m.At(2, 3)}
}

// WithPoint returns a copy of t with its translation replaced.
func (t Transform) WithPoint(p r3.Vector) Transform {
	t.m.Set(0, 3, p.X)
	t.m.Set(1, 3, p.Y)
	t.m.Set(2, 3, p.Z)
	return t
}

// Basis returns the 3x3 rotation and scale block.
func (t Transform) Basis() mgl64.Mat3 {
	return t.m.Mat3()
}

// WithBasis returns a copy of t with its 3x3 rotation and scale block replaced.
func (t Transform) WithBasis(b mgl64.Mat3) Transform {
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			t.m.Set(r, c, b.At(r, c))
		}
	}
	return t
}

// Scale returns the length of each basis column. A reflected basis reports a negative X scale.
func (t Transform) Scale() r3.Vector {
	s := r3.Vector{
		X: t.m.Col(0).Vec3().Len(),
		Y: t.m.Col(1).Vec3().Len(),
		Z: t.m.Col(2).Vec3().Len(),
	}
	if t.m.Mat3().Det() < 0 {
		s.X = -s.X
	}
	return s
}

// HasShear reports whether the basis columns of t are not mutually orthogonal, in which case
// it cannot be written as translation, rotation and scale alone. Collapsed axes are ignored.
func (t Transform) HasShear(epsilon float64) bool {
	cols := [3]mgl64.Vec3{t.m.Col(0).Vec3(), t.m.Col(1).Vec3(), t.m.Col(2).Vec3()}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			li, lj := cols[i].Len(), cols[j].Len()
			if li == 0 || lj == 0 {
				continue
			}
			if math.Abs(cols[i].Dot(cols[j])/(li*lj)) > epsilon {
				return true
			}
		}
	}
	return false
}

// Orientation returns the rotation of t with scale removed.
func (t Transform) Orientation() Orientation {
	scale := t.Scale()
	factors := [3]float64{scale.X, scale.Y, scale.Z}
	rm := &RotationMatrix{}
	for c := 0; c < 3; c++ {
		f := factors[c]
		if f == 0 {
			// a collapsed axis carries no rotation information
			rm.mat[3*c+c] = 1
			continue
		}
		for r := 0; r < 3; r++ {
			rm.mat[3*r+c] = t.m.At(r, c) / f
		}
	}
	return NewOrientationFromQuaternion(rm.Quaternion())
}

// Determinant returns the determinant of the 3x3 block.
func (t Transform) Determinant() float64 {
	return t.m.Mat3().Det()
}

func (t Transform) String() string {
	p := t.Point()
	ea := t.Orientation().EulerAngles(XYZ)
	return fmt.Sprintf("{X:%.3f Y:%.3f Z:%.3f Rx:%.2f Ry:%.2f Rz:%.2f}",
		p.X, p.Y, p.Z,
		utils.RadToDeg(ea.X), utils.RadToDeg(ea.Y), utils.RadToDeg(ea.Z),
	)
}

// Compose returns a·b: b is applied first, then a.
func Compose(a, b Transform) Transform {
	return Transform{a.m.Mul4(b.m)}
}

// Invert returns the inverse of t, or an error wrapping ErrSingular if t has none.
func Invert(t Transform) (Transform, error) {
	det := t.Determinant()
	if math.IsNaN(det) || math.Abs(det) < singularEpsilon {
		return Transform{}, errors.Wrapf(ErrSingular, "determinant %g", det)
	}
	return Transform{t.m.Inv()}, nil
}

// TransformAlmostEqual returns whether every matrix element of a and b is within epsilon.
func TransformAlmostEqual(a, b Transform, epsilon float64) bool {
	for i := range a.m {
		if !utils.Float64AlmostEqual(a.m[i], b.m[i], epsilon) {
			return false
		}
	}
	return true
}
