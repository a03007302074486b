package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 matrix in row major order.
// m[3*r + c] is the element in the r'th row and c'th column.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates the rotation matrix from a slice of 9 values in row major order.
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, errors.Errorf("input slice has %d elements, need exactly 9", len(m))
	}
	rm := &RotationMatrix{}
	copy(rm.mat[:], m)
	return rm, nil
}

// At returns the element in the r'th row and c'th column.
func (rm *RotationMatrix) At(r, c int) float64 {
	return rm.mat[3*r+c]
}

// Row returns the r'th row of the matrix.
func (rm *RotationMatrix) Row(r int) r3.Vector {
	return r3.Vector{X: rm.At(r, 0), Y: rm.At(r, 1), Z: rm.At(r, 2)}
}

// Col returns the c'th column of the matrix.
func (rm *RotationMatrix) Col(c int) r3.Vector {
	return r3.Vector{X: rm.At(0, c), Y: rm.At(1, c), Z: rm.At(2, c)}
}

// AxisAngles returns the orientation in axis angle representation.
func (rm *RotationMatrix) AxisAngles() *R4AA {
	aa := QuatToR4AA(rm.Quaternion())
	return &aa
}

// Quaternion returns orientation in quaternion representation.
func (rm *RotationMatrix) Quaternion() quat.Number {
	return Normalize(mglToQuat(mgl64.Mat4ToQuat(rm.mat4())))
}

// EulerAngles returns orientation in Euler angle representation.
func (rm *RotationMatrix) EulerAngles(order RotationOrder) *EulerAngles {
	return rotationMatrixToEulerAngles(rm, order)
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return rm
}

func (rm *RotationMatrix) mat4() mgl64.Mat4 {
	m := mgl64.Ident4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, rm.At(r, c))
		}
	}
	return m
}
