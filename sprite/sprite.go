package sprite

import (
	"fmt"

	"code.rocketnine.space/tslocum/tilesprite/asset"
)

// DefaultCapacity is the frame capacity of a sprite created with a
// non-positive capacity.
const DefaultCapacity = 32

// State is the playback state of a sprite.
type State int

const (
	Empty State = iota
	Playing
	Static // a single frame, zero speed, or a finished one-shot
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Playing:
		return "playing"
	case Static:
		return "static"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Canvas draws sprite frames.
type Canvas interface {
	DrawFrame(img *asset.Image, t Transform, x, y float64)
}

// Sprite is an animated sequence of frames borrowed from an asset cache.
//
// Every method is safe to call on a nil *Sprite.
type Sprite struct {
	XOffset, YOffset float64

	Mirror bool // horizontal flip
	Flip   bool // vertical flip
	Rotate bool

	clock    *Clock
	capacity int
	frames   []*asset.Image

	position int
	speed    int // frames per second
	fudge    int // sub-tick progress, in frames per second times ticks
	loop     bool
	done     bool
}

// New returns an empty sprite holding at most capacity frames.
func New(clock *Clock, capacity int) *Sprite {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Sprite{
		clock:    clock,
		capacity: capacity,
		frames:   make([]*asset.Image, 0, capacity),
	}
}

// Init empties the sprite and sets its playback policy. Negative speeds are
// clamped to zero. Orientation flags and offsets are kept.
func (s *Sprite) Init(loop bool, speed int) {
	if s == nil {
		return
	}
	if speed < 0 {
		speed = 0
	}
	if s.capacity <= 0 {
		s.capacity = DefaultCapacity
	}
	s.frames = make([]*asset.Image, 0, s.capacity)
	s.loop = loop
	s.speed = speed
	s.Reset()
}

// AddFrame appends a frame. A nil image is ignored. It panics when the
// sprite is full.
func (s *Sprite) AddFrame(img *asset.Image) {
	if s == nil || img == nil {
		return
	}
	if s.capacity <= 0 {
		s.capacity = DefaultCapacity
	}
	if len(s.frames) >= s.capacity {
		panic(fmt.Sprintf("sprite: frame capacity %d exceeded", s.capacity))
	}
	s.frames = append(s.frames, img)
}

// AddFrameNamed resolves name through c and appends it. It reports whether a
// frame was added.
func (s *Sprite) AddFrameNamed(c *asset.Cache, name string) bool {
	if s == nil {
		return false
	}
	img := c.Image(name)
	if img == nil {
		return false
	}
	s.AddFrame(img)
	return true
}

// Reset rewinds playback to the first frame.
func (s *Sprite) Reset() {
	if s == nil {
		return
	}
	s.position = 0
	s.fudge = 0
	s.done = false
}

// Advance steps playback by one logic tick. The speed is accumulated every
// tick and a frame is stepped each time a whole second's worth of ticks has
// been collected, so the long run frame rate is exact at any tick rate.
func (s *Sprite) Advance() {
	if s == nil {
		return
	}
	if s.State() != Playing {
		s.done = true
		return
	}

	tps := s.clock.rate()
	s.fudge += s.speed
	for s.fudge >= tps {
		s.fudge -= tps
		s.position++
		if s.position < len(s.frames) {
			continue
		}
		if s.loop {
			s.position = 0
			continue
		}
		s.position = len(s.frames) - 1
		s.fudge = 0
		s.done = true
		return
	}
}

// CurrentFrame returns the frame at the playback position, or nil when the
// sprite is empty.
func (s *Sprite) CurrentFrame() *asset.Image {
	if s == nil || len(s.frames) == 0 {
		return nil
	}
	return s.frames[s.position]
}

// Render draws the current frame at (x, y) shifted by the sprite offsets.
// Nothing is drawn for an empty sprite.
func (s *Sprite) Render(c Canvas, x, y float64) {
	if s == nil || c == nil || len(s.frames) == 0 {
		return
	}
	c.DrawFrame(s.CurrentFrame(), SelectTransform(s.Mirror, s.Flip, s.Rotate), x+s.XOffset, y+s.YOffset)
}

// CopyFrom replaces the sprite with the definition of other: its frames,
// playback policy, orientation and offsets. Playback starts from the first
// frame regardless of where other is.
func (s *Sprite) CopyFrom(other *Sprite) {
	if s == nil || other == nil || s == other {
		return
	}
	if s.clock == nil {
		s.clock = other.clock
	}
	s.capacity = other.capacity
	s.Init(other.loop, other.speed)
	s.frames = append(s.frames, other.frames...)

	s.Mirror = other.Mirror
	s.Flip = other.Flip
	s.Rotate = other.Rotate
	s.XOffset = other.XOffset
	s.YOffset = other.YOffset
	s.Reset()
}

// Clone returns a copy of the sprite's definition.
func (s *Sprite) Clone() *Sprite {
	if s == nil {
		return nil
	}
	c := New(s.clock, s.capacity)
	c.CopyFrom(s)
	return c
}

// State returns the playback state.
func (s *Sprite) State() State {
	switch {
	case s == nil || len(s.frames) == 0:
		return Empty
	case len(s.frames) > 1 && s.speed != 0 && !s.done:
		return Playing
	}
	return Static
}

// Len returns the number of frames.
func (s *Sprite) Len() int {
	if s == nil {
		return 0
	}
	return len(s.frames)
}

// Cap returns the frame capacity.
func (s *Sprite) Cap() int {
	if s == nil {
		return 0
	}
	return s.capacity
}

// Frame returns frame i, or nil when i is out of range.
func (s *Sprite) Frame(i int) *asset.Image {
	if s == nil || i < 0 || i >= len(s.frames) {
		return nil
	}
	return s.frames[i]
}

// Position returns the index of the current frame.
func (s *Sprite) Position() int {
	if s == nil {
		return 0
	}
	return s.position
}

// Speed returns the playback speed in frames per second.
func (s *Sprite) Speed() int {
	if s == nil {
		return 0
	}
	return s.speed
}

// Loop reports whether playback wraps around.
func (s *Sprite) Loop() bool {
	return s != nil && s.loop
}

// Done reports whether playback has finished or cannot progress.
func (s *Sprite) Done() bool {
	return s != nil && s.done
}
