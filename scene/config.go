package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/a8m/envsubst"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/anchorfix/keyframe"
	"go.viam.com/anchorfix/logging"
	"go.viam.com/anchorfix/referenceframe"
	"go.viam.com/anchorfix/spatialmath"
	"go.viam.com/anchorfix/utils"
)

// Config describes a scene: its clock, selection and animated objects.
type Config struct {
	Name         string         `json:"name"`
	CurrentFrame int            `json:"frame_current"`
	Selected     string         `json:"selected,omitempty"`
	Objects      []ObjectConfig `json:"objects"`
}

// ObjectConfig describes one animated object.
type ObjectConfig struct {
	Name         string      `json:"name"`
	Parent       string      `json:"parent,omitempty"`
	RotationMode string      `json:"rotation_mode,omitempty"`
	Keys         []KeyConfig `json:"keys"`
}

// KeyConfig is the local pose of an object at a frame. Rotation values are read according to the
// object's rotation mode: (w, x, y, z) for QUATERNION, (angle, x, y, z) for AXIS_ANGLE and
// (x, y, z) radians for Euler orders. A missing rotation is no rotation, a missing scale is 1.
type KeyConfig struct {
	Frame       int        `json:"frame"`
	Translation r3.Vector  `json:"translation"`
	Rotation    []float64  `json:"rotation,omitempty"`
	Scale       *r3.Vector `json:"scale,omitempty"`
}

// Transform builds the local transform the key describes.
func (kc KeyConfig) Transform(mode keyframe.RotationMode) (spatialmath.Transform, error) {
	var o spatialmath.Orientation
	if len(kc.Rotation) > 0 {
		var err error
		o, err = keyframe.OrientationFromValues(mode, kc.Rotation)
		if err != nil {
			return spatialmath.Transform{}, err
		}
	}
	scale := r3.Vector{X: 1, Y: 1, Z: 1}
	if kc.Scale != nil {
		scale = *kc.Scale
	}
	return spatialmath.NewTransformWithScale(kc.Translation, o, scale), nil
}

// Validate ensures all parts of the object config are valid.
func (oc *ObjectConfig) Validate(path string) error {
	if oc.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if oc.Name == referenceframe.World {
		return utils.NewConfigValidationError(path, errors.Errorf("name %q is reserved", oc.Name))
	}
	mode, err := keyframe.ParseRotationMode(oc.RotationMode)
	if err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if len(oc.Keys) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "keys")
	}
	for i, key := range oc.Keys {
		if _, err := key.Transform(mode); err != nil {
			return utils.NewConfigValidationError(fmt.Sprintf("%s.keys.%d", path, i), err)
		}
	}
	return nil
}

// Validate checks every object and the references between them, reporting all problems.
func (cfg *Config) Validate(path string) error {
	var errs error
	names := map[string]bool{}
	for i := range cfg.Objects {
		obj := &cfg.Objects[i]
		objPath := fmt.Sprintf("%s.objects.%d", path, i)
		if err := obj.Validate(objPath); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if names[obj.Name] {
			errs = multierr.Append(errs, utils.NewConfigValidationError(objPath,
				errors.Errorf("duplicate object name %q", obj.Name)))
		}
		names[obj.Name] = true
	}
	for i, obj := range cfg.Objects {
		if obj.Parent != "" && obj.Parent != referenceframe.World && !names[obj.Parent] {
			errs = multierr.Append(errs, utils.NewConfigValidationError(fmt.Sprintf("%s.objects.%d", path, i),
				errors.Errorf("unknown parent %q", obj.Parent)))
		}
	}
	if cfg.Selected != "" && !names[cfg.Selected] {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("selected object %q does not exist", cfg.Selected)))
	}
	return errs
}

// Build validates cfg and assembles the scene it describes. Objects may be listed in any order;
// parents are added before their children.
func (cfg *Config) Build(path string, logger logging.Logger) (*Scene, error) {
	if err := cfg.Validate(path); err != nil {
		return nil, err
	}
	name := cfg.Name
	if name == "" {
		name = "scene"
	}
	s := NewScene(name, logger)

	pending := append([]ObjectConfig(nil), cfg.Objects...)
	for len(pending) > 0 {
		var next []ObjectConfig
		for _, obj := range pending {
			if obj.Parent != "" && obj.Parent != referenceframe.World && s.frames[obj.Parent] == nil {
				next = append(next, obj)
				continue
			}
			if err := s.addObjectConfig(obj); err != nil {
				return nil, err
			}
		}
		if len(next) == len(pending) {
			return nil, utils.NewConfigValidationError(path,
				errors.Errorf("parent cycle between %d objects starting at %q", len(next), next[0].Name))
		}
		pending = next
	}

	if err := s.Select(cfg.Selected); err != nil {
		return nil, err
	}
	s.SetCurrentFrame(cfg.CurrentFrame)
	return s, nil
}

func (s *Scene) addObjectConfig(obj ObjectConfig) error {
	mode, err := keyframe.ParseRotationMode(obj.RotationMode)
	if err != nil {
		return err
	}
	track := referenceframe.NewTrack()
	for _, key := range obj.Keys {
		tf, err := key.Transform(mode)
		if err != nil {
			return err
		}
		track.Set(key.Frame, tf)
	}
	return s.AddObject(obj.Name, obj.Parent, mode, track)
}

// Config exports the scene, including every baked keyframe, in the form Build reads. Keys are
// written as translation, rotation and scale, so a key whose basis is sheared (a rotated pose
// under a non-uniformly scaled parent) loses the shear; a warning is logged for each such key.
func (s *Scene) Config() (*Config, error) {
	cfg := &Config{Name: s.name, CurrentFrame: s.current, Selected: s.selected}
	for _, name := range s.fs.FrameNames() {
		frame := s.frames[name]
		mode := s.modes[name]
		rotCh, err := keyframe.RotationChannel(mode)
		if err != nil {
			return nil, err
		}
		obj := ObjectConfig{Name: name, RotationMode: mode.String()}
		if parent, err := s.fs.Parent(frame); err == nil && parent != s.fs.World() {
			obj.Parent = parent.Name()
		}
		for _, f := range frame.Track().Frames() {
			tf, err := frame.Track().At(f)
			if err != nil {
				return nil, err
			}
			rotation, err := keyframe.ChannelValues(rotCh, mode, tf)
			if err != nil {
				return nil, err
			}
			if tf.HasShear(shearEpsilon) {
				s.logger.Warnw("exported key drops shear", "object", name, "frame", f)
			}
			key := KeyConfig{Frame: f, Translation: tf.Point(), Rotation: rotation}
			if scale := tf.Scale(); !unitScale(scale) {
				key.Scale = &scale
			}
			obj.Keys = append(obj.Keys, key)
		}
		cfg.Objects = append(cfg.Objects, obj)
	}
	return cfg, nil
}

const shearEpsilon = 1e-6

func unitScale(v r3.Vector) bool {
	const eps = 1e-9
	return math.Abs(v.X-1) < eps && math.Abs(v.Y-1) < eps && math.Abs(v.Z-1) < eps
}

// Read reads a scene config from the given file, expanding ${VAR} references from the
// environment, and builds it.
func Read(filePath string, logger logging.Logger) (*Scene, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a scene config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Scene, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse scene %q", originalPath)
	}
	return cfg.Build(originalPath, logger)
}

// Write writes the scene config as indented JSON.
func Write(w io.Writer, cfg *Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
