package sprite

// DefaultTicksPerSecond is the logic tick rate used when no Clock is given.
const DefaultTicksPerSecond = 100

// Clock carries the fixed logic tick rate of the game loop.
type Clock struct {
	TicksPerSecond int
}

func (c *Clock) rate() int {
	if c == nil || c.TicksPerSecond <= 0 {
		return DefaultTicksPerSecond
	}
	return c.TicksPerSecond
}
