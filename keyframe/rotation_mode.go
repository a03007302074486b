package keyframe

import (
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/anchorfix/spatialmath"
)

// RotationMode is how an object stores its rotation. It is one of QuaternionMode,
// AxisAngleMode or EulerMode.
type RotationMode interface {
	String() string
	isRotationMode()
}

// QuaternionMode stores rotation as a (w, x, y, z) quaternion.
type QuaternionMode struct{}

// AxisAngleMode stores rotation as (angle, x, y, z).
type AxisAngleMode struct{}

// EulerMode stores rotation as X, Y, Z angles applied in Order.
type EulerMode struct {
	Order spatialmath.RotationOrder
}

func (QuaternionMode) String() string { return "QUATERNION" }
func (AxisAngleMode) String() string  { return "AXIS_ANGLE" }
func (m EulerMode) String() string    { return m.Order.String() }

func (QuaternionMode) isRotationMode() {}
func (AxisAngleMode) isRotationMode()  {}
func (EulerMode) isRotationMode()      {}

// ParseRotationMode parses "QUATERNION", "AXIS_ANGLE" or an Euler order such as "XYZ".
// An empty string is XYZ Euler, the default for new objects.
func ParseRotationMode(s string) (RotationMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return EulerMode{Order: spatialmath.XYZ}, nil
	case "QUATERNION":
		return QuaternionMode{}, nil
	case "AXIS_ANGLE":
		return AxisAngleMode{}, nil
	}
	order, err := spatialmath.ParseRotationOrder(s)
	if err != nil {
		return nil, errors.Errorf("unknown rotation mode %q", s)
	}
	return EulerMode{Order: order}, nil
}

// RotationChannel returns the channel a rotation keyframe is written to for mode.
func RotationChannel(mode RotationMode) (Channel, error) {
	switch mode.(type) {
	case QuaternionMode:
		return RotationQuaternion, nil
	case AxisAngleMode:
		return RotationAxisAngle, nil
	case EulerMode:
		return RotationEuler, nil
	default:
		return Translation, errors.Errorf("unsupported rotation mode %T", mode)
	}
}

// ChannelValues extracts the values of ch from a local pose. Rotations are encoded as the
// channel requires; an Euler channel uses the order of mode when mode is Euler, else XYZ.
func ChannelValues(ch Channel, mode RotationMode, local spatialmath.Transform) ([]float64, error) {
	switch ch {
	case Translation:
		p := local.Point()
		return []float64{p.X, p.Y, p.Z}, nil
	case RotationQuaternion:
		q := local.Orientation().Quaternion()
		return []float64{q.Real, q.Imag, q.Jmag, q.Kmag}, nil
	case RotationAxisAngle:
		aa := local.Orientation().AxisAngles()
		return []float64{aa.Theta, aa.RX, aa.RY, aa.RZ}, nil
	case RotationEuler:
		order := spatialmath.XYZ
		if em, ok := mode.(EulerMode); ok {
			order = em.Order
		}
		ea := local.Orientation().EulerAngles(order)
		return []float64{ea.X, ea.Y, ea.Z}, nil
	default:
		return nil, errors.Errorf("unknown channel %d", int(ch))
	}
}

// OrientationFromValues is the inverse of ChannelValues for the rotation channel of mode.
func OrientationFromValues(mode RotationMode, values []float64) (spatialmath.Orientation, error) {
	switch m := mode.(type) {
	case QuaternionMode:
		if len(values) != 4 {
			return nil, errors.Errorf("quaternion rotation needs 4 values, got %d", len(values))
		}
		return spatialmath.NewOrientationFromQuaternion(quatFromValues(values)), nil
	case AxisAngleMode:
		if len(values) != 4 {
			return nil, errors.Errorf("axis angle rotation needs 4 values, got %d", len(values))
		}
		return &spatialmath.R4AA{Theta: values[0], RX: values[1], RY: values[2], RZ: values[3]}, nil
	case EulerMode:
		if len(values) != 3 {
			return nil, errors.Errorf("euler rotation needs 3 values, got %d", len(values))
		}
		return &spatialmath.EulerAngles{X: values[0], Y: values[1], Z: values[2], Order: m.Order}, nil
	default:
		return nil, errors.Errorf("unsupported rotation mode %T", mode)
	}
}

func quatFromValues(values []float64) quat.Number {
	return quat.Number{Real: values[0], Imag: values[1], Jmag: values[2], Kmag: values[3]}
}
