package presets

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
)

// previewGlob matches preview file names after lower-casing.
var previewGlob = glob.MustCompile("preview.{jpg,png,gif}")

// ErrNoDir is reported when no preset directory is configured.
var ErrNoDir = errors.New("preset directory not set")

// Skip records a subdirectory that is not a valid preset.
type Skip struct {
	ID     string
	Reason string
}

// Scanner enumerates presets. The zero value works and decodes preview
// headers without caching.
type Scanner struct {
	Meta *MetaCache

	// OnSkip, when set, is called for every rejected subdirectory in
	// addition to the warning log.
	OnSkip func(Skip)
}

// Scan enumerates presets in dir with a Scanner that does not cache.
func Scan(ctx context.Context, dir string) iter.Seq[Preset] {
	return (&Scanner{}).Scan(ctx, dir)
}

// Scan lazily enumerates the immediate subdirectories of dir, yielding each
// one that holds exactly one preview.{jpg,png,gif}. Rejected directories are
// logged and skipped. An unset or unreadable dir yields nothing. Iteration
// stops early when ctx is done.
func (s *Scanner) Scan(ctx context.Context, dir string) iter.Seq[Preset] {
	return func(yield func(Preset) bool) {
		entries, err := readDir(dir)
		if err != nil {
			log.Warn(log.CatPresets, "preset directory unavailable", "dir", dir, "error", err.Error())
			return
		}
		log.Info(log.CatPresets, "scanning presets", "dir", dir, "entries", len(entries))

		for _, entry := range entries {
			if ctx.Err() != nil {
				return
			}
			if !isDir(dir, entry) {
				log.Debug(log.CatPresets, "not a directory", "name", entry.Name())
				continue
			}
			p, reason := s.inspect(dir, entry.Name())
			if reason != "" {
				s.skip(Skip{ID: entry.Name(), Reason: reason})
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

func (s *Scanner) inspect(root, id string) (Preset, string) {
	dir := filepath.Join(root, id)
	files, err := os.ReadDir(dir)
	if err != nil {
		return Preset{}, "unreadable: " + err.Error()
	}

	var matches []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if previewGlob.Match(strings.ToLower(f.Name())) {
			matches = append(matches, f.Name())
		}
	}
	switch len(matches) {
	case 0:
		return Preset{}, "no preview image"
	case 1:
	default:
		return Preset{}, "multiple preview images: " + strings.Join(matches, ", ")
	}

	p := Preset{ID: id, Dir: dir, PreviewPath: filepath.Join(dir, matches[0])}
	meta, err := s.Meta.Lookup(p.PreviewPath)
	if err != nil {
		log.Debug(log.CatPresets, "preview header unreadable", "id", id, "error", err.Error())
	} else {
		p.Preview = meta
	}
	return p, ""
}

func (s *Scanner) skip(sk Skip) {
	log.Warn(log.CatPresets, "skipping preset", "id", sk.ID, "reason", sk.Reason)
	if s.OnSkip != nil {
		s.OnSkip(sk)
	}
}

// isDir reports whether entry is a directory, following a symlink to one.
func isDir(root string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(root, entry.Name()))
	return err == nil && info.IsDir()
}

func readDir(dir string) ([]os.DirEntry, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrNoDir
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})
	return entries, nil
}
