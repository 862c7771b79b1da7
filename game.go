package main

import (
	"fmt"
	"image/color"
	"math/rand"
	"os"

	"code.rocketnine.space/tslocum/tilesprite/asset"
	"code.rocketnine.space/tslocum/tilesprite/screen"
	"code.rocketnine.space/tslocum/tilesprite/sfx"
	"code.rocketnine.space/tslocum/tilesprite/sprite"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/colornames"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

var colorBackground = color.RGBA{20, 12, 28, 255}

const (
	camScaleMin = 0.5
	camScaleMax = 4
)

// game browses a generated room populated by animated creeps.
type game struct {
	w, h  int
	level *Level

	opts     *options
	manifest *asset.Manifest
	cfg      *viewerConfig
	rand     *rand.Rand

	cache   *asset.Cache
	clock   *sprite.Clock
	canvas  *screen.Canvas
	sound   *sfx.Player
	watcher *asset.Watcher
	signals chan os.Signal

	chrome      *asset.Image
	creepSprite *sprite.Sprite
	spawnSprite *sprite.Sprite
	creeps      []*creep
	effects     []*effect

	camX, camY float64
	camScale   float64

	levelNum int
	tick     int
	paused   bool
	showInfo bool
}

// NewGame loads the manifest and generates the first level.
func NewGame(opts *options) (*game, error) {
	fsys := os.DirFS(opts.Root)
	manifest, cfg, err := loadConfig(fsys, opts.Manifest)
	if err != nil {
		return nil, err
	}

	g := &game{
		opts:     opts,
		manifest: manifest,
		cfg:      cfg,
		rand:     rand.New(rand.NewSource(opts.Seed)),
		cache:    asset.New(fsys),
		clock:    &sprite.Clock{TicksPerSecond: opts.TPS},
		canvas:   screen.NewCanvas(),
		sound:    sfx.NewPlayer(nil),
		signals:  make(chan os.Signal, 1),
		camScale: 2,
		showInfo: opts.Debug,
	}
	g.sound.SetMuted(opts.Mute)

	if opts.Watch {
		g.watcher, err = asset.NewWatcher(opts.Root, manifest.SearchPaths)
		if err != nil {
			log.Warn().Err(err).Msg("asset watcher disabled")
		}
	}

	err = g.generateLevel()
	if err != nil {
		return nil, err
	}
	return g, nil
}

// generateLevel releases the assets of the previous level and builds a new
// one. Assets locked by the manifest are carried over and locked again.
func (g *game) generateLevel() error {
	g.creeps = nil
	g.effects = nil

	g.cache.Clear()
	g.canvas.Forget()
	g.sound.Forget()

	if missing := g.cache.Apply(g.manifest); len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("manifest assets not found")
	}
	g.chrome = nil
	if g.cfg.Chrome != "" {
		g.chrome = g.cache.Image(g.cfg.Chrome)
	}

	var err error
	g.level, err = NewLevel(g.cache, g.cfg, g.opts.RoomSize, g.opts.Rooms, g.rand)
	if err != nil {
		return fmt.Errorf("failed to create new level: %w", err)
	}
	g.levelNum++

	g.creepSprite = g.newAnimation(g.cfg.Creep)
	g.spawnSprite = g.newAnimation(g.cfg.Spawn)

	for i := 0; i < g.opts.Creeps; i++ {
		g.spawnCreep()
	}

	w, h := g.level.Size()
	g.camX = float64(w*g.level.tileSize) / 2
	g.camY = float64(h*g.level.tileSize) / 2

	stats := g.cache.Stats()
	log.Info().
		Int("level", g.levelNum).
		Int("assets", g.cache.Len()).
		Int("preserved", stats.Preserved).
		Int("creeps", len(g.creeps)).
		Msg("generated level")
	return nil
}

func (g *game) newAnimation(cfg animationConfig) *sprite.Sprite {
	s := sprite.New(g.clock, len(cfg.Frames))
	s.Init(cfg.Loop, cfg.Speed)
	for _, name := range cfg.Frames {
		if !s.AddFrameNamed(g.cache, name) {
			log.Warn().Str("name", name).Msg("animation frame not found")
		}
	}
	s.XOffset, s.YOffset = cfg.OffsetX, cfg.OffsetY
	return s
}

func (g *game) spawnCreep() {
	x, y := g.level.newSpawnLocation(g.rand)
	c := newCreep(x, y, g.creepSprite)
	c.doNextAction(g.rand)
	g.creeps = append(g.creeps, c)

	g.effects = append(g.effects, newEffect(x, y, g.spawnSprite))
	g.sound.Play(g.cache.Sound(g.cfg.SpawnSound), g.cfg.SoundVolume)
}

// Layout is called when the game's layout changes.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := ebiten.Monitor().DeviceScaleFactor()
	g.w, g.h = int(s*float64(outsideWidth)), int(s*float64(outsideHeight))
	return g.w, g.h
}

// Update reads current user input and updates the game state.
func (g *game) Update() error {
	if g.quitRequested() || ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	g.refreshAssets()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		err := g.generateLevel()
		if err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.sound.SetMuted(!g.sound.Muted())
		log.Info().Bool("muted", g.sound.Muted()).Msg("toggled audio")
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.showInfo = !g.showInfo
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		g.cache.UnlockAll()
		log.Info().Msg("unlocked all assets")
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.spawnCreep()
	}

	g.updateCamera()

	if g.paused {
		return nil
	}

	for _, c := range g.creeps {
		c.Update(g.level, g.rand)
	}

	live := g.effects[:0]
	for _, e := range g.effects {
		if e.Update() {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(g.effects); i++ {
		g.effects[i] = nil
	}
	g.effects = live

	g.tick++
	return nil
}

// refreshAssets reloads the assets reported by the watcher.
func (g *game) refreshAssets() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if n := g.cache.Refresh(name); n > 0 {
				log.Debug().Str("file", name).Int("assets", n).Msg("reloaded")
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Warn().Err(err).Msg("asset watcher error")
		default:
			return
		}
	}
}

func (g *game) updateCamera() {
	pan := 8 / g.camScale
	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		g.camX -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		g.camX += pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		g.camY -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		g.camY += pan
	}

	_, scroll := ebiten.Wheel()
	if scroll != 0 {
		g.camScale += scroll * 0.25
		if g.camScale < camScaleMin {
			g.camScale = camScaleMin
		} else if g.camScale > camScaleMax {
			g.camScale = camScaleMax
		}
	}
}

// Draw draws the game on the screen.
func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	g.canvas.Target = screen
	g.canvas.Scale = g.camScale
	g.canvas.CameraX = g.camX - float64(g.w)/2/g.camScale
	g.canvas.CameraY = g.camY - float64(g.h)/2/g.camScale

	drawn := g.renderLevel()

	ts := float64(g.level.tileSize)
	for _, c := range g.creeps {
		x, y := c.Position()
		c.sprite.Render(g.canvas, x*ts, y*ts)
		drawn++
	}
	for _, e := range g.effects {
		e.sprite.Render(g.canvas, e.x*ts, e.y*ts)
		drawn++
	}

	g.drawChrome()

	if !g.showInfo {
		return
	}

	stats := g.cache.Stats()
	info := numberPrinter.Sprintf("LVL  %d\nCRP  %d\nSPR  %d\nAST  %d\nGPU  %d\nHIT  %d\nMIS  %d\nTPS  %0.0f\nFPS  %0.0f",
		g.levelNum, len(g.creeps), drawn, g.cache.Len(), g.canvas.Uploaded(),
		stats.Hits, stats.Misses, ebiten.ActualTPS(), ebiten.ActualFPS())
	if g.paused {
		info += "\nPAUSED"
	}
	if g.sound.Muted() {
		info += "\nMUTED"
	}
	ebitenutil.DebugPrint(screen, info)
}

// renderLevel draws the visible tiles of the current level.
func (g *game) renderLevel() int {
	var drawn int
	ts := g.level.tileSize
	padding := 2
	minX := int(g.canvas.CameraX)/ts - padding
	minY := int(g.canvas.CameraY)/ts - padding
	maxX := minX + int(float64(g.w)/g.camScale)/ts + padding*2
	maxY := minY + int(float64(g.h)/g.camScale)/ts + padding*2

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			t := g.level.Tile(x, y)
			if t == nil {
				continue
			}
			for _, img := range t.sprites {
				g.canvas.DrawImage(img, float64(x*ts), float64(y*ts))
				drawn++
			}
		}
	}
	return drawn
}

// drawChrome draws the screen frame in screen space. A missing frame is
// replaced by a thin border.
func (g *game) drawChrome() {
	scale, camX, camY := g.canvas.Scale, g.canvas.CameraX, g.canvas.CameraY
	defer func() {
		g.canvas.Scale, g.canvas.CameraX, g.canvas.CameraY = scale, camX, camY
	}()
	g.canvas.Scale, g.canvas.CameraX, g.canvas.CameraY = 1, 0, 0

	if g.chrome != nil {
		w, _ := g.chrome.Size()
		g.canvas.DrawImage(g.chrome, float64(g.w-w)/2, 0)
		return
	}
	vector.DrawFilledRect(g.canvas.Target, 0, 0, float32(g.w), 2, colornames.Purple, false)
	vector.DrawFilledRect(g.canvas.Target, 0, float32(g.h-2), float32(g.w), 2, colornames.Purple, false)
}

// quitRequested reports whether a termination signal was received.
func (g *game) quitRequested() bool {
	select {
	case sig := <-g.signals:
		log.Info().Stringer("signal", sig).Msg("shutting down")
		return true
	default:
		return false
	}
}

// close releases the resources held outside of the game loop. It runs after
// the game loop has stopped.
func (g *game) close() {
	if g.watcher == nil {
		return
	}
	if err := g.watcher.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close asset watcher")
	}
	g.watcher = nil
}
