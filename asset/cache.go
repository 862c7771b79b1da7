package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type entry struct {
	name   string
	kind   Kind
	data   Data
	locked bool
}

// Stats counts cache activity since the cache was created.
type Stats struct {
	Hits      int
	Misses    int
	Loads     int
	Failures  int
	Preserved int // locked entries carried over by the last Clear
}

// Cache loads, deduplicates and retains image and sound assets by name.
//
// A Cache is not safe for concurrent use. It is meant to be owned by the
// goroutine running the game loop.
type Cache struct {
	fsys    fs.FS
	codec   Codec
	log     zerolog.Logger
	paths   []string
	entries map[string]*entry
	stats   Stats
}

// Option configures a Cache.
type Option func(*Cache)

// WithCodec replaces the decoders used when loading assets.
func WithCodec(codec Codec) Option {
	return func(c *Cache) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithLogger sets the logger used to report loads and misses.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = l
	}
}

// New returns an empty cache reading files from fsys.
func New(fsys fs.FS, opts ...Option) *Cache {
	c := &Cache{
		fsys:    fsys,
		codec:   DefaultCodec{},
		log:     log.Logger,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddSearchPath appends a directory prefix to the search path list. Prefixes
// are tried in the order they were added. Adding a prefix twice has no effect.
func (c *Cache) AddSearchPath(prefix string) {
	if slices.Contains(c.paths, prefix) {
		return
	}
	c.paths = append(c.paths, prefix)
}

// ClearSearchPaths empties the search path list.
func (c *Cache) ClearSearchPaths() {
	c.paths = nil
}

// SearchPaths returns a copy of the search path list.
func (c *Cache) SearchPaths() []string {
	return slices.Clone(c.paths)
}

// Resolve returns the asset stored under name, loading it from the search
// paths on first use. It returns nil when the asset cannot be found or
// decoded, or when it was cached as a different kind.
func (c *Cache) Resolve(name string, kind Kind) Data {
	if c == nil || name == "" {
		return nil
	}

	if e, ok := c.entries[name]; ok {
		if e.kind != kind {
			c.log.Warn().Str("name", name).Stringer("want", kind).Stringer("have", e.kind).Msg("asset kind mismatch")
			return nil
		}
		c.stats.Hits++
		return e.data
	}
	c.stats.Misses++

	data, from, err := c.load(name, kind)
	if err != nil {
		c.stats.Failures++
		c.log.Warn().Err(err).Str("name", name).Stringer("kind", kind).Msg("asset not found")
		return nil
	}
	c.insert(name, kind, data)
	c.stats.Loads++
	c.log.Debug().Str("name", name).Str("path", from).Stringer("kind", kind).Msg("loaded asset")
	return data
}

// ResolveLocked resolves name and locks it so it survives the next Clear.
func (c *Cache) ResolveLocked(name string, kind Kind) Data {
	data := c.Resolve(name, kind)
	if data != nil {
		c.entries[name].locked = true
	}
	return data
}

// Image resolves name as an image.
func (c *Cache) Image(name string) *Image {
	img, _ := c.Resolve(name, KindImage).(*Image)
	return img
}

// Sound resolves name as a sound.
func (c *Cache) Sound(name string) *Sound {
	snd, _ := c.Resolve(name, KindSound).(*Sound)
	return snd
}

// Lock marks an already resolved asset so it survives the next Clear. It
// panics if name has not been resolved.
func (c *Cache) Lock(name string) {
	e, ok := c.entries[name]
	if !ok {
		panic(fmt.Sprintf("asset: lock of unknown asset %q", name))
	}
	e.locked = true
}

// UnlockAll clears the lock on every asset. No data is released.
func (c *Cache) UnlockAll() {
	for _, e := range c.entries {
		e.locked = false
	}
}

// InsertExternal registers data produced outside of the cache under name. It
// does nothing if name is already present and panics if data is nil.
func (c *Cache) InsertExternal(name string, data Data) {
	if isNil(data) {
		panic(fmt.Sprintf("asset: nil data inserted as %q", name))
	}
	if _, ok := c.entries[name]; ok {
		return
	}
	c.insert(name, data.Kind(), data)
}

// Clear releases every asset except the locked ones. Locked assets are carried
// into the new store unlocked, so they are released by the following Clear
// unless locked again.
func (c *Cache) Clear() {
	next := make(map[string]*entry)
	for name, e := range c.entries {
		if !e.locked {
			continue
		}
		kept := *e
		kept.locked = false
		next[name] = &kept
	}
	released := len(c.entries) - len(next)
	c.entries = next
	c.stats.Preserved = len(next)
	c.log.Debug().Int("released", released).Int("preserved", len(next)).Msg("cleared asset cache")
}

// Has reports whether name is held in memory.
func (c *Cache) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Locked reports whether name is held in memory and locked.
func (c *Cache) Locked(name string) bool {
	e, ok := c.entries[name]
	return ok && e.locked
}

// Len returns the number of assets held in memory.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Names returns the names of all assets held in memory in sorted order.
func (c *Cache) Names() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Stats returns the activity counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Refresh reloads every cached asset whose name, or region base, is file.
// New pixels and samples are swapped into the existing handles so borrowed
// references observe the change. Assets that fail to reload keep their old
// data. It returns the number of assets reloaded.
func (c *Cache) Refresh(file string) int {
	var n int
	for _, name := range c.Names() {
		e := c.entries[name]
		if name != file {
			r, ok := ParseRegion(name)
			if !ok || r.Base != file {
				continue
			}
		}

		data, _, err := c.load(name, e.kind)
		if err != nil {
			c.log.Warn().Err(err).Str("name", name).Msg("failed to refresh asset")
			continue
		}
		switch old := e.data.(type) {
		case *Image:
			old.replace(data.(*Image))
		case *Sound:
			old.replace(data.(*Sound))
		default:
			continue
		}
		n++
		c.log.Info().Str("name", name).Msg("refreshed asset")
	}
	return n
}

func (c *Cache) insert(name string, kind Kind, data Data) {
	if _, ok := c.entries[name]; ok {
		panic(fmt.Sprintf("asset: duplicate asset %q", name))
	}
	c.entries[name] = &entry{name: name, kind: kind, data: data}
}

// load tries name as a literal file on every search path, then as a region
// specifier.
func (c *Cache) load(name string, kind Kind) (Data, string, error) {
	data, from, err := c.scan(name, kind)
	if err == nil || kind != KindImage {
		return data, from, err
	}

	r, ok := ParseRegion(name)
	if !ok {
		return nil, "", err
	}
	sheet, from, err := c.scanSheet(r.Base)
	if err != nil {
		return nil, "", fmt.Errorf("region %s: %w", name, err)
	}
	pix, err := r.extract(sheet)
	if err != nil {
		return nil, "", err
	}
	applyColorKey(pix)
	return &Image{pix: pix}, from, nil
}

func (c *Cache) scan(name string, kind Kind) (Data, string, error) {
	var errs []error
	for _, prefix := range c.paths {
		p := joinPath(prefix, name)
		b, err := c.read(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		var data Data
		switch kind {
		case KindImage:
			data, err = c.decodeImage(b)
		case KindSound:
			var snd *Sound
			snd, err = c.codec.DecodeSound(name, bytes.NewReader(b))
			if err == nil && snd == nil {
				err = errors.New("decoder returned no sound")
			}
			data = snd
		default:
			err = fmt.Errorf("unsupported kind %s", kind)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", p, err))
			continue
		}
		return data, p, nil
	}
	if len(errs) == 0 {
		return nil, "", fmt.Errorf("%s: no search paths", name)
	}
	return nil, "", errors.Join(errs...)
}

// scanSheet finds and decodes the base image of a region specifier. The
// colour key is applied after extraction.
func (c *Cache) scanSheet(name string) (image.Image, string, error) {
	var errs []error
	for _, prefix := range c.paths {
		p := joinPath(prefix, name)
		b, err := c.read(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		img, err := c.codec.DecodeImage(bytes.NewReader(b))
		if err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", p, err))
			continue
		}
		return img, p, nil
	}
	if len(errs) == 0 {
		return nil, "", fmt.Errorf("%s: no search paths", name)
	}
	return nil, "", errors.Join(errs...)
}

func (c *Cache) decodeImage(b []byte) (*Image, error) {
	img, err := c.codec.DecodeImage(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return newKeyedImage(img), nil
}

func (c *Cache) read(p string) ([]byte, error) {
	if c.fsys == nil {
		return nil, fmt.Errorf("open %s: %w", p, fs.ErrNotExist)
	}
	if !fs.ValidPath(p) {
		return nil, fmt.Errorf("open %s: %w", p, fs.ErrInvalid)
	}
	return fs.ReadFile(c.fsys, p)
}

// joinPath concatenates a search path prefix and an asset name into a path
// usable with fs.FS.
func joinPath(prefix, name string) string {
	p := path.Clean(prefix + name)
	return strings.TrimPrefix(p, "/")
}
