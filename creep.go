package main

import (
	"math/rand"

	"code.rocketnine.space/tslocum/tilesprite/sprite"
)

type creep struct {
	x, y   float64
	sprite *sprite.Sprite

	moveX, moveY float64

	tick       int
	nextAction int
}

func newCreep(x, y float64, template *sprite.Sprite) *creep {
	c := &creep{
		x:      x,
		y:      y,
		sprite: template.Clone(),
	}
	return c
}

func (c *creep) doNextAction(r *rand.Rand) {
	c.moveX = (r.Float64() - 0.5) / 10
	c.moveY = (r.Float64() - 0.5) / 10

	c.nextAction = 100 + r.Intn(400)

	// Sheets face right.
	c.sprite.Mirror = c.moveX < 0
}

func (c *creep) Update(l *Level, r *rand.Rand) {
	c.tick++
	if c.tick >= c.nextAction {
		c.doNextAction(r)
		c.tick = 0
	}

	x, y := c.x+c.moveX, c.y+c.moveY
	if l.isFloor(x, y) {
		c.x, c.y = x, y
	} else {
		c.moveX, c.moveY = -c.moveX, -c.moveY
		c.sprite.Mirror = c.moveX < 0
	}

	c.sprite.Advance()
}

func (c *creep) Position() (float64, float64) {
	return c.x, c.y
}

// effect is a one-shot animation removed once it finishes.
type effect struct {
	x, y   float64
	sprite *sprite.Sprite
}

func newEffect(x, y float64, template *sprite.Sprite) *effect {
	s := sprite.New(nil, template.Cap())
	s.CopyFrom(template)
	return &effect{x: x, y: y, sprite: s}
}

func (e *effect) Update() bool {
	e.sprite.Advance()
	return !e.sprite.Done()
}
