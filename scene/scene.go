package scene

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/anchorfix/keyframe"
	"go.viam.com/anchorfix/logging"
	"go.viam.com/anchorfix/referenceframe"
	"go.viam.com/anchorfix/spatialmath"
)

// Scene is an in-memory Host. Objects are animated frames in a frame system. Pose writes are
// held as overrides until the clock moves, and inserting a keyframe bakes the evaluated local
// pose into the object's track, so later evaluations see it.
type Scene struct {
	name   string
	logger logging.Logger

	fs     referenceframe.FrameSystem
	frames map[string]*referenceframe.AnimatedFrame
	modes  map[string]keyframe.RotationMode
	keys   *keyframe.Store

	current   int
	selected  string
	overrides map[string]spatialmath.Transform

	dirty       bool
	locals      map[string]spatialmath.Transform
	worlds      map[string]spatialmath.Transform
	evaluations int
}

// NewScene returns an empty scene at frame 0.
func NewScene(name string, logger logging.Logger) *Scene {
	return &Scene{
		name:      name,
		logger:    logger,
		fs:        referenceframe.NewEmptyFrameSystem(name),
		frames:    map[string]*referenceframe.AnimatedFrame{},
		modes:     map[string]keyframe.RotationMode{},
		keys:      keyframe.NewStore(),
		overrides: map[string]spatialmath.Transform{},
		dirty:     true,
	}
}

// Name returns the scene name.
func (s *Scene) Name() string {
	return s.name
}

// AddObject adds an object driven by track under parent. An empty parent is the world. A nil
// mode is XYZ Euler.
func (s *Scene) AddObject(name, parent string, mode keyframe.RotationMode, track *referenceframe.Track) error {
	if name == "" || name == referenceframe.World {
		return errors.Errorf("invalid object name %q", name)
	}
	parentFrame := s.fs.World()
	if parent != "" && parent != referenceframe.World {
		parentFrame = s.fs.Frame(parent)
		if parentFrame == nil {
			return errors.Wrapf(ErrNotFound, "parent %q of %q", parent, name)
		}
	}
	frame := referenceframe.NewAnimatedFrame(name, track)
	if err := s.fs.AddFrame(frame, parentFrame); err != nil {
		return err
	}
	if mode == nil {
		mode = keyframe.EulerMode{Order: spatialmath.XYZ}
	}
	s.frames[name] = frame
	s.modes[name] = mode
	s.dirty = true
	return nil
}

// Select makes the named object the selection. An empty name clears it.
func (s *Scene) Select(name string) error {
	if name != "" && s.frames[name] == nil {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	s.selected = name
	return nil
}

// Keyframes returns the keyframes inserted so far.
func (s *Scene) Keyframes() *keyframe.Store {
	return s.keys
}

// Evaluations returns how many times the scene has been evaluated.
func (s *Scene) Evaluations() int {
	return s.evaluations
}

// Track returns the track driving the named object.
func (s *Scene) Track(name string) (*referenceframe.Track, bool) {
	f, ok := s.frames[name]
	if !ok {
		return nil, false
	}
	return f.Track(), true
}

// CurrentFrame returns the clock.
func (s *Scene) CurrentFrame() int {
	return s.current
}

// SetCurrentFrame moves the clock, dropping any pose overrides.
func (s *Scene) SetCurrentFrame(frame int) {
	s.current = frame
	s.overrides = map[string]spatialmath.Transform{}
	s.dirty = true
}

// Evaluate recomputes every object's local and world transform at the current frame.
func (s *Scene) Evaluate(ctx context.Context) error {
	locals := make(map[string]spatialmath.Transform, len(s.frames))
	worlds := make(map[string]spatialmath.Transform, len(s.frames))
	for _, name := range s.fs.FrameNames() {
		frame := s.frames[name]
		local, ok := s.overrides[name]
		if !ok {
			var err error
			local, err = frame.Transform(s.current)
			if err != nil {
				return err
			}
		}
		world, err := s.fs.WorldTransform(frame, s.current, s.overrides)
		if err != nil {
			return err
		}
		locals[name] = local
		worlds[name] = world
	}
	s.locals = locals
	s.worlds = worlds
	s.dirty = false
	s.evaluations++
	s.logger.CDebugw(ctx, "evaluated scene", "frame", s.current, "objects", len(locals))
	return nil
}

// ResolveByName returns the named object.
func (s *Scene) ResolveByName(name string) (Object, error) {
	if _, ok := s.frames[name]; !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return &sceneObject{scene: s, name: name}, nil
}

// Selection returns the selected object, or nil.
func (s *Scene) Selection() Subject {
	if s.selected == "" {
		return nil
	}
	return &sceneObject{scene: s, name: s.selected}
}

// WorldTransform returns the evaluated world transform of obj.
func (s *Scene) WorldTransform(obj Object) (spatialmath.Transform, error) {
	if s.dirty {
		return spatialmath.Transform{}, ErrNotEvaluated
	}
	tf, ok := s.worlds[obj.Name()]
	if !ok {
		return spatialmath.Transform{}, errors.Wrapf(ErrNotFound, "%q", obj.Name())
	}
	return tf, nil
}

// ParentSpacePose returns the evaluated pose of subj relative to its parent.
func (s *Scene) ParentSpacePose(subj Subject) (spatialmath.Transform, error) {
	if s.dirty {
		return spatialmath.Transform{}, ErrNotEvaluated
	}
	tf, ok := s.locals[subj.Name()]
	if !ok {
		return spatialmath.Transform{}, errors.Wrapf(ErrNotFound, "%q", subj.Name())
	}
	return tf, nil
}

// SetParentSpacePose overrides the pose of subj relative to its parent until the clock moves.
func (s *Scene) SetParentSpacePose(subj Subject, pose spatialmath.Transform) error {
	if _, ok := s.frames[subj.Name()]; !ok {
		return errors.Wrapf(ErrNotFound, "%q", subj.Name())
	}
	s.overrides[subj.Name()] = pose
	s.dirty = true
	return nil
}

// RotationMode returns how subj stores its rotation.
func (s *Scene) RotationMode(subj Subject) keyframe.RotationMode {
	if mode, ok := s.modes[subj.Name()]; ok {
		return mode
	}
	return keyframe.EulerMode{Order: spatialmath.XYZ}
}

// InsertKeyframe records the evaluated value of ch for subj at frame.
func (s *Scene) InsertKeyframe(subj Subject, ch keyframe.Channel, frame int) error {
	if s.dirty {
		return ErrNotEvaluated
	}
	local, ok := s.locals[subj.Name()]
	if !ok {
		return errors.Wrapf(ErrNotFound, "%q", subj.Name())
	}
	values, err := keyframe.ChannelValues(ch, s.RotationMode(subj), local)
	if err != nil {
		return err
	}
	s.keys.Insert(subj.Name(), ch, frame, values)
	s.frames[subj.Name()].Track().Set(frame, local)
	s.logger.Debugw("inserted keyframe", "object", subj.Name(), "channel", ch.DataPath(), "frame", frame)
	return nil
}

type sceneObject struct {
	scene *Scene
	name  string
}

func (o *sceneObject) Name() string {
	return o.name
}

func (o *sceneObject) Parent() Object {
	frame := o.scene.fs.Frame(o.name)
	if frame == nil {
		return nil
	}
	parent, err := o.scene.fs.Parent(frame)
	if err != nil || parent == nil || parent == o.scene.fs.World() {
		return nil
	}
	return &sceneObject{scene: o.scene, name: parent.Name()}
}
