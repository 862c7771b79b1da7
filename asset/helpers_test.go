package asset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// countingFS records how many times each file is opened. It deliberately does
// not implement fs.ReadFileFS so every read goes through Open.
type countingFS struct {
	files fstest.MapFS
	opens map[string]int
}

func newCountingFS(files fstest.MapFS) *countingFS {
	return &countingFS{files: files, opens: make(map[string]int)}
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens[name]++
	return c.files.Open(name)
}

func (c *countingFS) total() int {
	var n int
	for _, v := range c.opens {
		n += v
	}
	return n
}

func newTestCache(fsys fs.FS, paths ...string) *Cache {
	c := New(fsys, WithLogger(zerolog.Nop()))
	for _, p := range paths {
		c.AddSearchPath(p)
	}
	return c
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// cellColor is the colour of cell (row, col) in sheets built by tileSheet.
func cellColor(row, col int) color.NRGBA {
	return color.NRGBA{R: uint8(10 + 20*row), G: uint8(10 + 20*col), B: 7, A: 255}
}

func tileSheet(rows, cols, cell int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, cols*cell, rows*cell))
	for y := 0; y < rows*cell; y++ {
		for x := 0; x < cols*cell; x++ {
			img.SetNRGBA(x, y, cellColor(y/cell, x/cell))
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// encodeWAV writes n stereo samples of the constant value v at rate.
func encodeWAV(t *testing.T, rate beep.SampleRate, n int, v float64) []byte {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "clip.wav"))
	require.NoError(t, err)
	defer f.Close()

	src := beep.Take(n, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	}))
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, src, format))

	b, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	return b
}
