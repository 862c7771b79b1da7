package main

import (
	"fmt"
	"math/rand"

	"code.rocketnine.space/tslocum/tilesprite/asset"
	"github.com/Meshiest/go-dungeon/dungeon"
)

const dungeonFloor = 1

// Tile is a single cell of the level, drawn as a stack of images.
type Tile struct {
	sprites []*asset.Image
	floor   bool
}

// AddSprite adds an image to the top of the stack. Nil images are skipped.
func (t *Tile) AddSprite(img *asset.Image) {
	if img == nil {
		return
	}
	t.sprites = append(t.sprites, img)
}

// Level is a generated room of tiles.
type Level struct {
	w, h int

	tiles    [][]*Tile // (Y,X) array of tiles
	tileSize int
}

// Tile returns the tile at the provided coordinates, or nil.
func (l *Level) Tile(x, y int) *Tile {
	if x >= 0 && y >= 0 && x < l.w && y < l.h {
		return l.tiles[y][x]
	}
	return nil
}

// Size returns the size of the Level.
func (l *Level) Size() (width, height int) {
	return l.w, l.h
}

func (l *Level) isFloor(x, y float64) bool {
	t := l.Tile(int(x), int(y))
	return t != nil && t.floor
}

func (l *Level) newSpawnLocation(r *rand.Rand) (float64, float64) {
	for i := 0; i < l.w*l.h; i++ {
		x, y := r.Intn(l.w), r.Intn(l.h)
		if l.isFloor(float64(x), float64(y)) {
			return float64(x) + 0.5, float64(y) + 0.5
		}
	}
	return float64(l.w) / 2, float64(l.h) / 2
}

// NewLevel carves a random dungeon and fills it with tiles resolved through
// the asset cache.
func NewLevel(c *asset.Cache, cfg *viewerConfig, size, rooms int, r *rand.Rand) (*Level, error) {
	if size < 8 {
		return nil, fmt.Errorf("room size %d is too small", size)
	}
	l := &Level{
		w:        size,
		h:        size,
		tileSize: cfg.TileSize,
	}

	d := dungeon.NewDungeon(size, rooms)
	floorAt := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < size && y < size && d.Grid[x][y] == dungeonFloor
	}

	var floors int
	l.tiles = make([][]*Tile, l.h)
	for y := 0; y < l.h; y++ {
		l.tiles[y] = make([]*Tile, l.w)
		for x := 0; x < l.w; x++ {
			t := &Tile{}
			switch {
			case floorAt(x, y):
				t.floor = true
				t.AddSprite(c.Image(pick(r, cfg.Floor)))
				floors++
			case floorAt(x, y+1) || floorAt(x, y-1) || floorAt(x-1, y) || floorAt(x+1, y):
				t.AddSprite(c.Image(pick(r, cfg.Wall)))
			}
			l.tiles[y][x] = t
		}
	}
	if floors == 0 {
		return nil, fmt.Errorf("generated level has no floor")
	}
	return l, nil
}

func pick(r *rand.Rand, names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[r.Intn(len(names))]
}
