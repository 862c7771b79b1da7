package asset

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// Region addresses a cell of a tile sheet. Its textual form is
// base:WxH:row,col, for example "tiles.png:20x20:1,2".
type Region struct {
	Base     string
	W, H     int
	Row, Col int
}

// ParseRegion parses a region specifier. Only decimal digits are accepted in
// the numeric fields; no whitespace or signs are allowed.
func ParseRegion(name string) (Region, bool) {
	// The base may itself contain colons, so split from the right.
	i := strings.LastIndexByte(name, ':')
	if i < 0 {
		return Region{}, false
	}
	cell := name[i+1:]
	rest := name[:i]
	j := strings.LastIndexByte(rest, ':')
	if j <= 0 {
		return Region{}, false
	}
	size := rest[j+1:]
	r := Region{Base: rest[:j]}

	var ok bool
	if r.W, r.H, ok = parsePair(size, 'x'); !ok || r.W == 0 || r.H == 0 {
		return Region{}, false
	}
	if r.Row, r.Col, ok = parsePair(cell, ','); !ok {
		return Region{}, false
	}
	// The far edge of the cell must fit in an int.
	if r.Col > (math.MaxInt-r.W)/r.W || r.Row > (math.MaxInt-r.H)/r.H {
		return Region{}, false
	}
	return r, true
}

func parsePair(s string, sep byte) (int, int, bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return 0, 0, false
	}
	a, ok := parseUint(s[:i])
	if !ok {
		return 0, 0, false
	}
	b, ok := parseUint(s[i+1:])
	if !ok {
		return 0, 0, false
	}
	return a, b, true
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%dx%d:%d,%d", r.Base, r.W, r.H, r.Row, r.Col)
}

// Rect returns the pixel rectangle addressed by the region.
func (r Region) Rect() image.Rectangle {
	x, y := r.Col*r.W, r.Row*r.H
	return image.Rect(x, y, x+r.W, y+r.H)
}

// extract copies the addressed cell out of sheet into a new image.
func (r Region) extract(sheet image.Image) (*image.NRGBA, error) {
	b := sheet.Bounds()
	rect := r.Rect().Add(b.Min)
	if !rect.In(b) {
		return nil, fmt.Errorf("region %s outside of %dx%d sheet", r, b.Dx(), b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, r.W, r.H))
	draw.Copy(dst, image.Point{}, sheet, rect, draw.Src, nil)
	return dst, nil
}
