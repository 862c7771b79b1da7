package asset

import (
	"encoding/binary"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSound(t *testing.T) {
	fsys := fstest.MapFS{
		"sfx/step.wav":   {Data: encodeWAV(t, 22050, 2205, 0.5)},
		"sfx/broken.wav": {Data: []byte("RIFF")},
		"sfx/music.ogg":  {Data: []byte("OggS")},
	}
	c := newTestCache(fsys, "sfx/")

	snd := c.Sound("step.wav")
	require.NotNil(t, snd)
	assert.Same(t, snd, c.Sound("step.wav"))
	assert.Equal(t, beep.SampleRate(22050), snd.Format().SampleRate)
	assert.Equal(t, 2205, snd.Len())
	assert.Equal(t, 100*time.Millisecond, snd.Duration())

	assert.Nil(t, c.Sound("broken.wav"))
	assert.Nil(t, c.Sound("music.ogg"), "unsupported formats are not found")
	assert.Nil(t, c.Image("step.wav"), "sound data does not decode as an image")
}

func TestSoundPCM(t *testing.T) {
	fsys := fstest.MapFS{"step.wav": {Data: encodeWAV(t, 22050, 100, 0.5)}}
	c := newTestCache(fsys, "")
	snd := c.Sound("step.wav")
	require.NotNil(t, snd)

	t.Run("same_rate", func(t *testing.T) {
		pcm := snd.PCM(22050)
		require.Len(t, pcm, 100*4)
		left := int16(binary.LittleEndian.Uint16(pcm[0:2]))
		right := int16(binary.LittleEndian.Uint16(pcm[2:4]))
		assert.InDelta(t, 16383, left, 4)
		assert.InDelta(t, 16383, right, 4)
	})

	t.Run("resampled", func(t *testing.T) {
		pcm := snd.PCM(44100)
		assert.InDelta(t, 200*4, len(pcm), 8*4)
	})

	t.Run("empty", func(t *testing.T) {
		var s *Sound
		assert.Nil(t, s.PCM(44100))
		assert.Zero(t, s.Duration())
		assert.Nil(t, snd.PCM(0))
	})
}

func TestNewSound(t *testing.T) {
	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	snd := NewSound(format, beep.Silence(800))
	assert.Equal(t, 800, snd.Len())
	assert.Equal(t, 100*time.Millisecond, snd.Duration())
	assert.Equal(t, KindSound, snd.Kind())

	c := newTestCache(fstest.MapFS{})
	c.InsertExternal("beep", snd)
	assert.Same(t, snd, c.Sound("beep"))
}
