package referenceframe

import "github.com/pkg/errors"

// ErrEmptyTrack is returned when an animated frame is evaluated with no keys.
var ErrEmptyTrack = errors.New("track has no keys")

// NewParentFrameMissingError returns an error indicating that a frame is missing a parent.
func NewParentFrameMissingError() error {
	return errors.New("parent frame is nil")
}

// NewFrameMissingError returns an error indicating that the named frame is not in the frame system.
func NewFrameMissingError(name string) error {
	return errors.Errorf("frame with name %q not in frame system", name)
}

// NewFrameAlreadyExistsError returns an error indicating that a frame with that name is already present.
func NewFrameAlreadyExistsError(name string) error {
	return errors.Errorf("frame with name %q already in frame system", name)
}
