package asset

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
	_ "golang.org/x/image/bmp"
)

// Codec decodes raw file contents into asset data. The cache calls it once
// per attempted search path.
type Codec interface {
	DecodeImage(r io.Reader) (image.Image, error)
	DecodeSound(name string, r io.Reader) (*Sound, error)
}

// DefaultCodec decodes PNG, GIF, JPEG and BMP images and WAV and MP3 sounds.
type DefaultCodec struct{}

// DecodeImage decodes any image format registered with the image package.
func (DefaultCodec) DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// DecodeSound decodes a sound, choosing the decoder by the extension of name.
func (DefaultCodec) DecodeSound(name string, r io.Reader) (*Sound, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".wav":
		s, format, err = wav.Decode(r)
	case ".mp3":
		s, format, err = mp3.Decode(io.NopCloser(r))
	default:
		return nil, fmt.Errorf("unsupported sound format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return NewSound(format, s), nil
}
