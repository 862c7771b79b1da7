package screen

import (
	"code.rocketnine.space/tslocum/tilesprite/asset"
	"code.rocketnine.space/tslocum/tilesprite/sprite"
	"github.com/hajimehoshi/ebiten/v2"
)

type upload struct {
	img     *ebiten.Image
	version int
}

// Canvas draws cached images onto an ebiten image. Pixels are uploaded to the
// GPU on first use and again whenever a refresh replaces them.
type Canvas struct {
	Target *ebiten.Image

	// Scale is applied after the draw position. Zero means 1.
	Scale float64

	// Camera is subtracted from every draw position before scaling.
	CameraX, CameraY float64

	uploads map[*asset.Image]*upload
	op      ebiten.DrawImageOptions
}

// NewCanvas returns a canvas with no target. Set Target before drawing.
func NewCanvas() *Canvas {
	return &Canvas{
		Scale:   1,
		uploads: make(map[*asset.Image]*upload),
	}
}

// Image returns the GPU copy of img, uploading it when needed.
func (c *Canvas) Image(img *asset.Image) *ebiten.Image {
	if img == nil || img.Pixels() == nil {
		return nil
	}
	if c.uploads == nil {
		c.uploads = make(map[*asset.Image]*upload)
	}
	u, ok := c.uploads[img]
	if ok && u.version == img.Version() {
		return u.img
	}
	if ok {
		u.img.Deallocate()
	}
	u = &upload{
		img:     ebiten.NewImageFromImage(img.Pixels()),
		version: img.Version(),
	}
	c.uploads[img] = u
	return u.img
}

// DrawFrame implements sprite.Canvas.
func (c *Canvas) DrawFrame(img *asset.Image, t sprite.Transform, x, y float64) {
	src := c.Image(img)
	if src == nil || c.Target == nil {
		return
	}

	w, h := img.Size()
	a := t.Affine(float64(w), float64(h))

	c.op.GeoM.Reset()
	c.op.GeoM.SetElement(0, 0, a.A)
	c.op.GeoM.SetElement(0, 1, a.B)
	c.op.GeoM.SetElement(0, 2, a.TX)
	c.op.GeoM.SetElement(1, 0, a.C)
	c.op.GeoM.SetElement(1, 1, a.D)
	c.op.GeoM.SetElement(1, 2, a.TY)
	c.draw(src, x, y)
}

// DrawImage draws img untransformed with its top left corner at (x, y).
func (c *Canvas) DrawImage(img *asset.Image, x, y float64) {
	src := c.Image(img)
	if src == nil || c.Target == nil {
		return
	}
	c.op.GeoM.Reset()
	c.draw(src, x, y)
}

func (c *Canvas) draw(src *ebiten.Image, x, y float64) {
	scale := c.Scale
	if scale == 0 {
		scale = 1
	}
	c.op.GeoM.Translate(x-c.CameraX, y-c.CameraY)
	c.op.GeoM.Scale(scale, scale)
	c.op.Filter = ebiten.FilterNearest
	c.Target.DrawImage(src, &c.op)
}

// Forget releases every uploaded image. Call it after clearing the asset
// cache so released assets do not stay on the GPU.
func (c *Canvas) Forget() {
	for img, u := range c.uploads {
		u.img.Deallocate()
		delete(c.uploads, img)
	}
}

// Uploaded returns the number of images held on the GPU.
func (c *Canvas) Uploaded() int {
	return len(c.uploads)
}
