package presets

import (
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
)

// Preset is one wallpaper the engine can load. ID is the directory name and
// is what `load <id>` expects.
type Preset struct {
	ID          string
	Dir         string
	PreviewPath string
	Preview     Preview
}

// Preview describes the preview image. It is zero when the image header
// could not be read; the preset is still usable.
type Preview struct {
	Format string
	Width  int
	Height int
}

// Known reports whether the header was decoded.
func (p Preview) Known() bool {
	return p.Format != ""
}

func (p Preview) String() string {
	if !p.Known() {
		return "unknown"
	}
	return fmt.Sprintf("%s %dx%d", p.Format, p.Width, p.Height)
}

const (
	metaExpiration = 30 * time.Minute
	metaCleanup    = time.Hour
)

// MetaCache remembers decoded preview headers keyed by path, size and
// modification time, so a rescan only reopens files that changed.
type MetaCache struct {
	cache *gocache.Cache
}

// NewMetaCache returns an empty cache.
func NewMetaCache() *MetaCache {
	return &MetaCache{cache: gocache.New(metaExpiration, metaCleanup)}
}

// Lookup returns the preview header for path, decoding it on a miss.
// A nil cache decodes every time.
func (m *MetaCache) Lookup(path string) (Preview, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Preview{}, fmt.Errorf("stat preview: %w", err)
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())

	if m != nil {
		if v, ok := m.cache.Get(key); ok {
			if p, ok := v.(Preview); ok {
				return p, nil
			}
			log.Error(log.CatPresets, "wrong type in preview cache", "key", key)
		}
	}

	p, err := decodePreview(path)
	if err != nil {
		return Preview{}, err
	}
	if m != nil {
		m.cache.Set(key, p, gocache.DefaultExpiration)
	}
	return p, nil
}

// Len returns the number of cached headers.
func (m *MetaCache) Len() int {
	if m == nil {
		return 0
	}
	return m.cache.ItemCount()
}

func decodePreview(path string) (Preview, error) {
	f, err := os.Open(path)
	if err != nil {
		return Preview{}, fmt.Errorf("open preview: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Preview{}, fmt.Errorf("decode preview header: %w", err)
	}
	return Preview{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
