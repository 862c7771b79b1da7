package sprite

import (
	"image"
	"testing"
	"testing/fstest"

	"code.rocketnine.space/tslocum/tilesprite/asset"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawCall struct {
	img  *asset.Image
	t    Transform
	x, y float64
}

type recordingCanvas struct {
	calls []drawCall
}

func (c *recordingCanvas) DrawFrame(img *asset.Image, t Transform, x, y float64) {
	c.calls = append(c.calls, drawCall{img: img, t: t, x: x, y: y})
}

func frames(n int) []*asset.Image {
	out := make([]*asset.Image, n)
	for i := range out {
		out[i] = asset.NewImage(image.NewNRGBA(image.Rect(0, 0, i+1, 1)))
	}
	return out
}

func newSprite(t *testing.T, tps int, loop bool, speed int, n int) *Sprite {
	t.Helper()
	s := New(&Clock{TicksPerSecond: tps}, 0)
	s.Init(loop, speed)
	for _, f := range frames(n) {
		s.AddFrame(f)
	}
	require.Equal(t, n, s.Len())
	return s
}

func TestAdvanceRateConversion(t *testing.T) {
	s := newSprite(t, 100, true, 25, 4)

	var steps int
	last := s.Position()
	for i := 0; i < 100; i++ {
		s.Advance()
		if s.Position() != last {
			steps++
			last = s.Position()
		}
	}

	assert.Equal(t, 25, steps)
	assert.Equal(t, 1, s.Position())
	assert.Zero(t, s.fudge)
	assert.False(t, s.Done())
	assert.Equal(t, Playing, s.State())
}

func TestAdvanceCatchesUpMultipleFrames(t *testing.T) {
	// Speed above the tick rate steps several frames per tick.
	s := newSprite(t, 10, true, 25, 8)
	s.Advance()
	assert.Equal(t, 2, s.Position())
	assert.Equal(t, 5, s.fudge)
	s.Advance()
	assert.Equal(t, 5, s.Position())
	assert.Zero(t, s.fudge)
}

func TestAdvanceOneShotClampsAndFinishes(t *testing.T) {
	s := newSprite(t, 100, false, 1000, 2)

	s.Advance()
	assert.Equal(t, 1, s.Position())
	assert.True(t, s.Done())
	assert.Equal(t, Static, s.State())

	for i := 0; i < 10; i++ {
		s.Advance()
	}
	assert.Equal(t, 1, s.Position())
	assert.True(t, s.Done())

	s.Reset()
	assert.Zero(t, s.Position())
	assert.False(t, s.Done())
	assert.Equal(t, Playing, s.State())
}

func TestAdvanceStaticSprites(t *testing.T) {
	cases := []struct {
		name  string
		speed int
		n     int
	}{
		{"empty", 10, 0},
		{"single_frame", 10, 1},
		{"zero_speed", 0, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSprite(t, 100, true, tc.speed, tc.n)
			s.Advance()
			assert.True(t, s.Done())
			assert.Zero(t, s.Position())
			s.Advance()
			assert.True(t, s.Done())
		})
	}
}

func TestInitClampsNegativeSpeed(t *testing.T) {
	s := newSprite(t, 100, true, -5, 3)
	assert.Zero(t, s.Speed())
	assert.Equal(t, Static, s.State())
}

func TestInitEmptiesFrames(t *testing.T) {
	s := newSprite(t, 100, true, 50, 3)
	s.Mirror = true
	s.XOffset = 4
	s.Advance()
	s.Advance()

	s.Init(false, 10)
	assert.Equal(t, Empty, s.State())
	assert.Zero(t, s.Len())
	assert.Zero(t, s.Position())
	assert.False(t, s.Loop())
	assert.Equal(t, 10, s.Speed())
	assert.True(t, s.Mirror)
	assert.Equal(t, 4.0, s.XOffset)
}

func TestAddFrame(t *testing.T) {
	s := New(nil, 2)
	s.AddFrame(nil)
	assert.Zero(t, s.Len(), "nil frames are ignored")

	f := frames(3)
	s.AddFrame(f[0])
	s.AddFrame(f[1])
	assert.PanicsWithValue(t, "sprite: frame capacity 2 exceeded", func() { s.AddFrame(f[2]) })
	assert.Equal(t, 2, s.Len())
	assert.Same(t, f[1], s.Frame(1))
	assert.Nil(t, s.Frame(2))
	assert.Nil(t, s.Frame(-1))
}

func TestAddFrameNamed(t *testing.T) {
	c := asset.New(fstest.MapFS{}, asset.WithLogger(zerolog.Nop()))
	f := frames(1)[0]
	c.InsertExternal("hero", f)

	s := New(nil, 0)
	assert.True(t, s.AddFrameNamed(c, "hero"))
	assert.False(t, s.AddFrameNamed(c, "missing"))
	assert.False(t, s.AddFrameNamed(nil, "hero"))
	assert.Equal(t, 1, s.Len())
	assert.Same(t, f, s.CurrentFrame())
}

func TestCurrentFrame(t *testing.T) {
	s := newSprite(t, 100, true, 100, 3)
	assert.Same(t, s.Frame(0), s.CurrentFrame())
	s.Advance()
	assert.Same(t, s.Frame(1), s.CurrentFrame())

	empty := New(nil, 0)
	assert.Nil(t, empty.CurrentFrame())
}

func TestRender(t *testing.T) {
	t.Run("empty_draws_nothing", func(t *testing.T) {
		var c recordingCanvas
		s := New(nil, 0)
		assert.NotPanics(t, func() { s.Render(&c, 10, 10) })
		assert.Empty(t, c.calls)
	})

	t.Run("offset_and_transform", func(t *testing.T) {
		var c recordingCanvas
		s := newSprite(t, 100, true, 100, 2)
		s.XOffset, s.YOffset = 3, -2
		s.Rotate, s.Mirror = true, true
		s.Advance()

		s.Render(&c, 10, 20)
		require.Len(t, c.calls, 1)
		assert.Same(t, s.Frame(1), c.calls[0].img)
		assert.Equal(t, 13.0, c.calls[0].x)
		assert.Equal(t, 18.0, c.calls[0].y)
		assert.Equal(t, Transform{Rotation: Rotate270, FlipV: true}, c.calls[0].t)
		assert.Equal(t, 1, s.Position(), "render does not change playback")
	})

	t.Run("nil_canvas", func(t *testing.T) {
		s := newSprite(t, 100, true, 100, 2)
		assert.NotPanics(t, func() { s.Render(nil, 0, 0) })
	})
}

func TestCopyFrom(t *testing.T) {
	src := newSprite(t, 100, true, 100, 4)
	src.Mirror, src.Flip = true, true
	src.XOffset, src.YOffset = 5, 6
	src.Advance()
	src.Advance()
	require.Equal(t, 2, src.Position())

	dst := New(nil, 0)
	dst.CopyFrom(src)

	assert.Zero(t, dst.Position())
	assert.Zero(t, dst.fudge)
	assert.False(t, dst.Done())
	assert.Equal(t, src.Len(), dst.Len())
	for i := 0; i < src.Len(); i++ {
		assert.Same(t, src.Frame(i), dst.Frame(i))
	}
	assert.Equal(t, src.Loop(), dst.Loop())
	assert.Equal(t, src.Speed(), dst.Speed())
	assert.True(t, dst.Mirror)
	assert.True(t, dst.Flip)
	assert.Equal(t, 5.0, dst.XOffset)
	assert.Equal(t, 6.0, dst.YOffset)

	// The frame list is a copy, not shared storage.
	dst.Init(true, 1)
	assert.Equal(t, 4, src.Len())

	twin := src.Clone()
	twin.Mirror = !src.Mirror
	assert.Zero(t, twin.Position())
	assert.NotEqual(t, src.Mirror, twin.Mirror)
}

func TestNilSprite(t *testing.T) {
	var s *Sprite
	var c recordingCanvas
	assert.NotPanics(t, func() {
		s.Init(true, 1)
		s.AddFrame(frames(1)[0])
		s.Reset()
		s.Advance()
		s.Render(&c, 0, 0)
		s.CopyFrom(New(nil, 0))
		New(nil, 0).CopyFrom(s)
	})
	assert.Nil(t, s.CurrentFrame())
	assert.Nil(t, s.Clone())
	assert.Equal(t, Empty, s.State())
	assert.Zero(t, s.Len())
	assert.Zero(t, s.Cap())
	assert.False(t, s.Done())
	assert.False(t, s.AddFrameNamed(nil, "x"))
	assert.Empty(t, c.calls)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "playing", Playing.String())
	assert.Equal(t, "static", Static.String())
}
