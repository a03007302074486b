package spatialmath

import (
	"github.com/golang/geo/r3"

	"go.viam.com/anchorfix/utils"
)

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}

// MaskVector keeps the components of v whose flag is set and zeroes the rest.
func MaskVector(v r3.Vector, x, y, z bool) r3.Vector {
	var out r3.Vector
	if x {
		out.X = v.X
	}
	if y {
		out.Y = v.Y
	}
	if z {
		out.Z = v.Z
	}
	return out
}
