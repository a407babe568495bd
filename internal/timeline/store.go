package timeline

import (
	"sort"

	"github.com/google/uuid"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
)

// Keyframe is a named full snapshot of the grid anchored at a minute of the
// cycle.
type Keyframe struct {
	ID   string    `json:"id" yaml:"id"`
	Time int       `json:"time" yaml:"time"`
	Name string    `json:"name" yaml:"name"`
	Grid grid.Grid `json:"grid" yaml:"grid"`
}

// Clone returns a deep copy.
func (k Keyframe) Clone() Keyframe {
	k.Grid = k.Grid.Clone()
	return k
}

// Store owns the keyframes of one timeline. Keyframes are kept in insertion
// order; time order is derived on demand with a stable sort, so equal times
// keep their insertion order. Every grid always matches the store's
// dimensions.
//
// Store is not safe for concurrent use.
type Store struct {
	width  int
	height int
	frames []Keyframe
}

// NewStore creates an empty store for width x height grids.
func NewStore(width, height int) *Store {
	return &Store{width: width, height: height}
}

// NewID returns a fresh keyframe id.
func NewID() string {
	return uuid.NewString()
}

// Dimensions returns the current grid size.
func (s *Store) Dimensions() (int, int) {
	return s.width, s.height
}

// Len returns the number of keyframes.
func (s *Store) Len() int {
	return len(s.frames)
}

// Add inserts a new keyframe with a fresh id. The time is clamped into the
// cycle and the grid is copied and fitted to the store dimensions.
func (s *Store) Add(minute int, name string, g grid.Grid) Keyframe {
	kf := Keyframe{
		ID:   NewID(),
		Time: ClampMinute(minute),
		Name: name,
		Grid: g.Resize(s.width, s.height),
	}
	s.frames = append(s.frames, kf)
	return kf.Clone()
}

// Delete removes a keyframe. Deleting the only remaining keyframe is refused
// with ErrLastKeyframe and leaves the store as it was.
func (s *Store) Delete(id string) error {
	i := s.find(id)
	if i < 0 {
		return NotFoundError{ID: id}
	}
	if len(s.frames) <= 1 {
		return ErrLastKeyframe
	}
	s.frames = append(s.frames[:i], s.frames[i+1:]...)
	return nil
}

// Retime moves a keyframe, clamping the new time into [0, 1439].
func (s *Store) Retime(id string, minute int) error {
	i := s.find(id)
	if i < 0 {
		return NotFoundError{ID: id}
	}
	s.frames[i].Time = ClampMinute(minute)
	return nil
}

// Rename changes a keyframe name.
func (s *Store) Rename(id, name string) error {
	i := s.find(id)
	if i < 0 {
		return NotFoundError{ID: id}
	}
	s.frames[i].Name = name
	return nil
}

// SetGrid replaces a keyframe grid with a copy of g fitted to the store
// dimensions.
func (s *Store) SetGrid(id string, g grid.Grid) error {
	i := s.find(id)
	if i < 0 {
		return NotFoundError{ID: id}
	}
	s.frames[i].Grid = g.Resize(s.width, s.height)
	return nil
}

// Resize migrates every keyframe grid to the new dimensions.
func (s *Store) Resize(width, height int) {
	s.width, s.height = width, height
	for i := range s.frames {
		s.frames[i].Grid = s.frames[i].Grid.Resize(width, height)
	}
}

// Load replaces all keyframes. Entries without an id, or with an id already
// used earlier in the list, get a fresh one. An empty list is rejected and
// the store keeps its previous keyframes.
func (s *Store) Load(keyframes []Keyframe) error {
	return s.Reset(s.width, s.height, keyframes)
}

// Reset replaces the dimensions and all keyframes in one step.
func (s *Store) Reset(width, height int, keyframes []Keyframe) error {
	if len(keyframes) == 0 {
		return ErrEmptyTimeline
	}
	seen := make(map[string]bool, len(keyframes))
	frames := make([]Keyframe, 0, len(keyframes))
	for _, kf := range keyframes {
		id := kf.ID
		if id == "" || seen[id] {
			id = NewID()
		}
		seen[id] = true
		frames = append(frames, Keyframe{
			ID:   id,
			Time: ClampMinute(kf.Time),
			Name: kf.Name,
			Grid: kf.Grid.Resize(width, height),
		})
	}
	s.width, s.height = width, height
	s.frames = frames
	return nil
}

// Get returns a copy of the keyframe with the given id.
func (s *Store) Get(id string) (Keyframe, bool) {
	i := s.find(id)
	if i < 0 {
		return Keyframe{}, false
	}
	return s.frames[i].Clone(), true
}

// Keyframes returns copies of all keyframes in insertion order.
func (s *Store) Keyframes() []Keyframe {
	out := make([]Keyframe, len(s.frames))
	for i, kf := range s.frames {
		out[i] = kf.Clone()
	}
	return out
}

// Sorted returns copies of all keyframes ordered by time. Ties keep
// insertion order.
func (s *Store) Sorted() []Keyframe {
	out := s.Keyframes()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// IndexOf returns the position of id in time order, or -1.
func (s *Store) IndexOf(id string) int {
	for i, kf := range s.Sorted() {
		if kf.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) find(id string) int {
	for i := range s.frames {
		if s.frames[i].ID == id {
			return i
		}
	}
	return -1
}
