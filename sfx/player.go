package sfx

import (
	"time"

	"code.rocketnine.space/tslocum/tilesprite/asset"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SampleRate is the playback sample rate.
const SampleRate = 44100

// voices is the number of players kept per sound so that overlapping plays
// do not cut each other off.
const voices = 4

type pool struct {
	players []*audio.Player
	next    int
	version int
}

// Player plays cached sounds.
type Player struct {
	ctx   *audio.Context
	log   zerolog.Logger
	muted bool
	pools map[*asset.Sound]*pool
}

type rewinder interface {
	SetPosition(offset time.Duration) error
}

// NewPlayer returns a player using ctx. A nil context creates one at
// SampleRate; ebiten allows a single context per process.
func NewPlayer(ctx *audio.Context) *Player {
	if ctx == nil {
		ctx = audio.NewContext(SampleRate)
	}
	return &Player{
		ctx:   ctx,
		log:   log.Logger,
		pools: make(map[*asset.Sound]*pool),
	}
}

// SetMuted enables or disables playback.
func (p *Player) SetMuted(muted bool) {
	p.muted = muted
	if muted {
		for _, pl := range p.pools {
			for _, player := range pl.players {
				player.Pause()
			}
		}
	}
}

// Muted reports whether playback is disabled.
func (p *Player) Muted() bool {
	return p.muted
}

// Play plays s at the given volume. A nil sound plays nothing.
func (p *Player) Play(s *asset.Sound, volume float64) {
	if p == nil || p.muted || s == nil || s.Len() == 0 {
		return
	}

	pl := p.pool(s)
	player := pl.players[pl.next]
	pl.next = (pl.next + 1) % len(pl.players)

	player.Pause()
	if !p.rewind(player) {
		return
	}
	player.SetVolume(volume)
	player.Play()
}

func (p *Player) rewind(r rewinder) bool {
	if err := r.SetPosition(0); err != nil {
		p.log.Warn().Err(err).Msg("failed to rewind sound")
		return false
	}
	return true
}

func (p *Player) pool(s *asset.Sound) *pool {
	pl, ok := p.pools[s]
	if ok && pl.version == s.Version() {
		return pl
	}
	if ok {
		pl.close()
	}

	pcm := s.PCM(p.ctx.SampleRate())
	pl = &pool{version: s.Version()}
	for i := 0; i < voices; i++ {
		pl.players = append(pl.players, p.ctx.NewPlayerFromBytes(pcm))
	}
	p.pools[s] = pl
	return pl
}

// Forget closes every player. Call it after clearing the asset cache.
func (p *Player) Forget() {
	for s, pl := range p.pools {
		pl.close()
		delete(p.pools, s)
	}
}

func (pl *pool) close() {
	for _, player := range pl.players {
		_ = player.Close()
	}
	pl.players = nil
}
