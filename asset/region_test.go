package asset

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRegion(t *testing.T) {
	cases := []struct {
		in   string
		want Region
		ok   bool
	}{
		{"tiles.png:20x20:1,2", Region{Base: "tiles.png", W: 20, H: 20, Row: 1, Col: 2}, true},
		{"gfx/sheet.bmp:16x8:0,0", Region{Base: "gfx/sheet.bmp", W: 16, H: 8}, true},
		{"c:tiles.png:4x4:10,11", Region{Base: "c:tiles.png", W: 4, H: 4, Row: 10, Col: 11}, true},
		{"tiles.png", Region{}, false},
		{"tiles.png:ax20:1,2", Region{}, false},
		{"tiles.png:20x:1,2", Region{}, false},
		{"tiles.png:20X20:1,2", Region{}, false},
		{"tiles.png:20x20:1;2", Region{}, false},
		{"tiles.png:20x20:1,2,3", Region{}, false},
		{"tiles.png: 20x20:1,2", Region{}, false},
		{"tiles.png:20x20:1, 2", Region{}, false},
		{"tiles.png:+20x20:1,2", Region{}, false},
		{"tiles.png:0x20:1,2", Region{}, false},
		{":20x20:1,2", Region{}, false},
		{"20x20:1,2", Region{}, false},
		{"tiles.png:99999999999999999999x1:0,0", Region{}, false},
		{"tiles.png:16x16:0,1152921504606846976", Region{}, false},
		{"tiles.png:16x16:1152921504606846976,0", Region{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseRegion(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
			if ok {
				assert.Equal(t, tc.in, got.String())
			}
		})
	}
}

func TestRegionRect(t *testing.T) {
	r := Region{Base: "tiles.png", W: 20, H: 10, Row: 1, Col: 2}
	assert.Equal(t, image.Rect(40, 10, 60, 20), r.Rect())
}
