package referenceframe

import (
	"sort"

	"github.com/pkg/errors"

	"go.viam.com/anchorfix/spatialmath"
)

// World is the string "world", but made into an exported constant.
const World = "world"

var errNoParent = errors.New("no parent")

// FrameSystem represents a tree of frames connected to each other, allowing for transformations
// from any frame to the world.
type FrameSystem interface {
	// Name returns the name of this FrameSystem
	Name() string

	// World returns the frame corresponding to the root of the FrameSystem, from which other frames are defined with respect to
	World() Frame

	// FrameNames returns the sorted names of all of the frames that exist in the FrameSystem, excluding the world
	FrameNames() []string

	// Frame returns the Frame in the FrameSystem with the given name, or nil
	Frame(name string) Frame

	// AddFrame inserts a given Frame into the FrameSystem as a child of the parent Frame
	AddFrame(frame, parent Frame) error

	// TracebackFrame traces the parentage of the given frame up to the world, and returns the full list of frames in between.
	// The list will include both the query frame and the world frame
	TracebackFrame(frame Frame) ([]Frame, error)

	// Parent returns the parent Frame for the given Frame in the FrameSystem
	Parent(frame Frame) (Frame, error)

	// WorldTransform composes the transforms from frame up to the world at the given time. Overrides
	// replaces the transform of any frame named in it.
	WorldTransform(frame Frame, time int, overrides map[string]spatialmath.Transform) (spatialmath.Transform, error)
}

// simpleFrameSystem implements FrameSystem. It is a simple tree graph.
type simpleFrameSystem struct {
	name    string
	world   Frame // separate from the map of frames so it can be detached easily
	frames  map[string]Frame
	parents map[Frame]Frame
}

// NewEmptyFrameSystem creates a frame system holding only the world frame.
func NewEmptyFrameSystem(name string) FrameSystem {
	worldFrame := NewZeroStaticFrame(World)
	return &simpleFrameSystem{name, worldFrame, map[string]Frame{}, map[Frame]Frame{}}
}

// Name returns the name of the simpleFrameSystem.
func (sfs *simpleFrameSystem) Name() string {
	return sfs.name
}

// World returns the base world frame.
func (sfs *simpleFrameSystem) World() Frame {
	return sfs.world
}

// Parent returns the parent frame of the input frame. errNoParent if input is World.
func (sfs *simpleFrameSystem) Parent(frame Frame) (Frame, error) {
	if !sfs.frameExists(frame.Name()) {
		return nil, NewFrameMissingError(frame.Name())
	}
	if frame == sfs.world {
		return nil, errNoParent
	}
	return sfs.parents[frame], nil
}

// frameExists is a helper function to see if a frame with a given name already exists in the system.
func (sfs *simpleFrameSystem) frameExists(name string) bool {
	if name == World {
		return true
	}
	_, ok := sfs.frames[name]
	return ok
}

// Frame returns the frame given the name of the frame. Returns nil if the frame is not found.
func (sfs *simpleFrameSystem) Frame(name string) Frame {
	if name == World {
		return sfs.world
	}
	return sfs.frames[name]
}

// TracebackFrame traces the parentage of the given frame up to the world, and returns the full list of frames in between.
// The list will include both the query frame and the world frame.
func (sfs *simpleFrameSystem) TracebackFrame(query Frame) ([]Frame, error) {
	if !sfs.frameExists(query.Name()) {
		return nil, NewFrameMissingError(query.Name())
	}
	if query == sfs.world {
		return []Frame{query}, nil
	}
	parents, err := sfs.TracebackFrame(sfs.parents[query])
	if err != nil {
		return nil, err
	}
	return append([]Frame{query}, parents...), nil
}

// FrameNames returns the list of frame names registered in the frame system.
func (sfs *simpleFrameSystem) FrameNames() []string {
	frameNames := make([]string, 0, len(sfs.frames))
	for k := range sfs.frames {
		frameNames = append(frameNames, k)
	}
	sort.Strings(frameNames)
	return frameNames
}

func (sfs *simpleFrameSystem) checkName(name string, parent Frame) error {
	if !sfs.frameExists(parent.Name()) {
		return errors.Errorf("parent frame with name %q not in frame system", parent.Name())
	}
	if sfs.frameExists(name) {
		return NewFrameAlreadyExistsError(name)
	}
	return nil
}

// AddFrame sets an already defined Frame into the system. Since a frame can only be added under
// a parent already in the system, the result is always a tree.
func (sfs *simpleFrameSystem) AddFrame(frame, parent Frame) error {
	if parent == nil {
		return NewParentFrameMissingError()
	}
	if err := sfs.checkName(frame.Name(), parent); err != nil {
		return err
	}
	sfs.frames[frame.Name()] = frame
	sfs.parents[frame] = parent
	return nil
}

// WorldTransform composes the local transforms from the world down to frame.
func (sfs *simpleFrameSystem) WorldTransform(
	frame Frame,
	time int,
	overrides map[string]spatialmath.Transform,
) (spatialmath.Transform, error) {
	chain, err := sfs.TracebackFrame(frame)
	if err != nil {
		return spatialmath.Transform{}, err
	}
	world := spatialmath.NewZeroTransform()
	// chain runs from the query frame to the world; compose from the world end.
	for i := len(chain) - 1; i >= 0; i-- {
		f := chain[i]
		if f == sfs.world {
			continue
		}
		local, ok := overrides[f.Name()]
		if !ok {
			local, err = f.Transform(time)
			if err != nil {
				return spatialmath.Transform{}, err
			}
		}
		world = spatialmath.Compose(world, local)
	}
	return world, nil
}
