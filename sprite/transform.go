package sprite

// Rotation is a clockwise rotation applied to a frame.
type Rotation int

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate270
)

// Degrees returns the clockwise rotation in degrees.
func (r Rotation) Degrees() int {
	switch r {
	case Rotate90:
		return 90
	case Rotate270:
		return 270
	}
	return 0
}

// Transform describes how a frame is drawn. Flips are applied before the
// rotation.
type Transform struct {
	Rotation Rotation
	FlipH    bool
	FlipV    bool
}

// SelectTransform maps the orientation flags of a sprite to the transform
// used to draw it.
func SelectTransform(mirror, flip, rotate bool) Transform {
	switch {
	case rotate && mirror && flip:
		return Transform{Rotation: Rotate270}
	case rotate && mirror:
		return Transform{Rotation: Rotate270, FlipV: true}
	case rotate && flip:
		return Transform{Rotation: Rotate90, FlipV: true}
	case rotate:
		return Transform{Rotation: Rotate90}
	}
	return Transform{FlipH: mirror, FlipV: flip}
}

// Affine is a 2D affine matrix mapping (x, y) to
// (A*x + B*y + TX, C*x + D*y + TY).
type Affine struct {
	A, B, C, D float64
	TX, TY     float64
}

// Apply transforms a point.
func (a Affine) Apply(x, y float64) (float64, float64) {
	return a.A*x + a.B*y + a.TX, a.C*x + a.D*y + a.TY
}

// Affine returns the matrix drawing a w by h frame with the transform. The
// frame pivots on its centre, so the centre is a fixed point.
func (t Transform) Affine(w, h float64) Affine {
	fx, fy := 1.0, 1.0
	if t.FlipH {
		fx = -1
	}
	if t.FlipV {
		fy = -1
	}

	cos, sin := 1.0, 0.0
	switch t.Rotation {
	case Rotate90:
		cos, sin = 0, 1
	case Rotate270:
		cos, sin = 0, -1
	}

	a := Affine{
		A: cos * fx,
		B: -sin * fy,
		C: sin * fx,
		D: cos * fy,
	}
	cx, cy := w/2, h/2
	a.TX = cx - (a.A*cx + a.B*cy)
	a.TY = cy - (a.C*cx + a.D*cy)
	return a
}
