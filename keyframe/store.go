package keyframe

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
)

// Key is a single recorded keyframe.
type Key struct {
	Object  string    `json:"object"`
	Channel Channel   `json:"channel"`
	Frame   int       `json:"frame"`
	Values  []float64 `json:"values"`
}

// Store holds keyframes per object, channel and frame. Inserting on an existing
// (object, channel, frame) replaces the previous values.
type Store struct {
	keys map[string]map[Channel]map[int][]float64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{keys: map[string]map[Channel]map[int][]float64{}}
}

// Insert records values for object's channel at frame.
func (s *Store) Insert(object string, ch Channel, frame int, values []float64) {
	channels, ok := s.keys[object]
	if !ok {
		channels = map[Channel]map[int][]float64{}
		s.keys[object] = channels
	}
	frames, ok := channels[ch]
	if !ok {
		frames = map[int][]float64{}
		channels[ch] = frames
	}
	frames[frame] = append([]float64(nil), values...)
}

// Value returns the values keyed for object's channel at frame.
func (s *Store) Value(object string, ch Channel, frame int) ([]float64, bool) {
	v, ok := s.keys[object][ch][frame]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

// Objects returns the names of all objects with keyframes, sorted.
func (s *Store) Objects() []string {
	names := lo.Keys(s.keys)
	sort.Strings(names)
	return names
}

// Keys returns every keyframe of object sorted by frame, then channel.
func (s *Store) Keys(object string) []Key {
	var keys []Key
	for ch, frames := range s.keys[object] {
		for frame, values := range frames {
			keys = append(keys, Key{
				Object:  object,
				Channel: ch,
				Frame:   frame,
				Values:  append([]float64(nil), values...),
			})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Frame != keys[j].Frame {
			return keys[i].Frame < keys[j].Frame
		}
		return keys[i].Channel < keys[j].Channel
	})
	return keys
}

// Frames returns the sorted frames keyed on object's channel.
func (s *Store) Frames(object string, ch Channel) []int {
	frames := lo.Keys(s.keys[object][ch])
	sort.Ints(frames)
	return frames
}

// Len returns the total number of keyframes.
func (s *Store) Len() int {
	n := 0
	for _, channels := range s.keys {
		for _, frames := range channels {
			n += len(frames)
		}
	}
	return n
}

// WriteJSON writes all keyframes as a JSON array ordered by object, frame and channel.
func (s *Store) WriteJSON(w io.Writer) error {
	all := []Key{}
	for _, object := range s.Objects() {
		all = append(all, s.Keys(object)...)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(all)
}

// String prints out a table of every keyframe.
func (s *Store) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Object", "Frame", "Channel", "Values"})
	for _, object := range s.Objects() {
		for _, k := range s.Keys(object) {
			values := lo.Map(k.Values, func(v float64, _ int) string {
				return fmt.Sprintf("%.4f", v)
			})
			t.AppendRow(table.Row{object, k.Frame, k.Channel.DataPath(), strings.Join(values, ", ")})
		}
	}
	return t.Render()
}
