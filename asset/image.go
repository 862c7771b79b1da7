package asset

import (
	"image"
	"image/color"

	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// MagicColor is the colour key used by the source art. Pixels of this colour
// become fully transparent when an image is loaded.
var MagicColor = colornames.Fuchsia

// Image is a decoded image asset.
type Image struct {
	pix     *image.NRGBA
	version int
}

// NewImage copies src into a new Image. The colour key is not applied; use it
// to register pixels produced outside of the cache.
func NewImage(src image.Image) *Image {
	return &Image{pix: toNRGBA(src)}
}

// Kind implements Data.
func (i *Image) Kind() Kind {
	return KindImage
}

// Pixels returns the decoded pixels. The returned image must not be modified.
func (i *Image) Pixels() *image.NRGBA {
	if i == nil {
		return nil
	}
	return i.pix
}

// Bounds returns the bounds of the image, which always start at the origin.
func (i *Image) Bounds() image.Rectangle {
	if i == nil || i.pix == nil {
		return image.Rectangle{}
	}
	return i.pix.Bounds()
}

// Size returns the width and height of the image.
func (i *Image) Size() (int, int) {
	b := i.Bounds()
	return b.Dx(), b.Dy()
}

// Version is incremented each time the pixels are replaced by a refresh.
func (i *Image) Version() int {
	if i == nil {
		return 0
	}
	return i.version
}

func (i *Image) replace(o *Image) {
	i.pix = o.pix
	i.version++
}

// toNRGBA returns src as an NRGBA image anchored at the origin.
func toNRGBA(src image.Image) *image.NRGBA {
	if img, ok := src.(*image.NRGBA); ok && img.Rect.Min == (image.Point{}) {
		return img
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return dst
}

// applyColorKey clears every pixel matching MagicColor.
func applyColorKey(img *image.NRGBA) {
	key := color.NRGBAModel.Convert(MagicColor).(color.NRGBA)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for x := 0; x+3 < len(row); x += 4 {
			if row[x] == key.R && row[x+1] == key.G && row[x+2] == key.B {
				row[x], row[x+1], row[x+2], row[x+3] = 0, 0, 0, 0
			}
		}
	}
}

// newKeyedImage converts a freshly decoded image and applies the colour key.
// The decoded image may be reused as the backing store, so callers must not
// share it.
func newKeyedImage(src image.Image) *Image {
	pix := toNRGBA(src)
	applyColorKey(pix)
	return &Image{pix: pix}
}
