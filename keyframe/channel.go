// Package keyframe records per-frame channel values for animated objects and selects which
// rotation channel an object's rotation mode keys into.
package keyframe

import (
	"github.com/pkg/errors"
)

// Channel is an animatable property of an object.
type Channel int

// The channels a rigid transform is keyed on.
const (
	Translation Channel = iota
	RotationQuaternion
	RotationAxisAngle
	RotationEuler
)

var channelPaths = [...]string{"location", "rotation_quaternion", "rotation_axis_angle", "rotation_euler"}

// DataPath returns the host property path of the channel.
func (c Channel) DataPath() string {
	if c < Translation || c > RotationEuler {
		return "unknown"
	}
	return channelPaths[c]
}

func (c Channel) String() string {
	return c.DataPath()
}

// MarshalText implements encoding.TextMarshaler.
func (c Channel) MarshalText() ([]byte, error) {
	if c < Translation || c > RotationEuler {
		return nil, errors.Errorf("unknown channel %d", int(c))
	}
	return []byte(c.DataPath()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Channel) UnmarshalText(text []byte) error {
	parsed, err := ParseChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseChannel parses a data path such as "location" or "rotation_euler".
func ParseChannel(path string) (Channel, error) {
	for i, p := range channelPaths {
		if p == path {
			return Channel(i), nil
		}
	}
	return Translation, errors.Errorf("unknown channel %q", path)
}
