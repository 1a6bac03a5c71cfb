package presets

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abcdqfr/wallpaper-shuffle/internal/control"
	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
)

// Stats summarises one discovery run.
type Stats struct {
	Generation uint64
	Found      int
	Skipped    int
	Elapsed    time.Duration
}

// Pipeline runs discovery off the interactive thread and hands every preset
// to it through a Scheduler. Each run gets a new generation number so the
// receiver can drop emissions from a run it has already replaced.
type Pipeline struct {
	meta *MetaCache
	gen  atomic.Uint64
	wg   sync.WaitGroup
}

// NewPipeline returns a Pipeline that shares meta across runs. meta may be
// nil.
func NewPipeline(meta *MetaCache) *Pipeline {
	return &Pipeline{meta: meta}
}

// Generation returns the number of the most recently started run.
func (p *Pipeline) Generation() uint64 {
	return p.gen.Load()
}

// Current reports whether gen is the newest run.
func (p *Pipeline) Current(gen uint64) bool {
	return gen == p.gen.Load()
}

// Start begins a run and returns its generation. onPreset is scheduled once
// per discovered preset, in discovery order, and onDone is scheduled after
// the last one. Both run on whatever thread sched delivers to. A newer Start
// makes the older run stop at its next entry.
func (p *Pipeline) Start(ctx context.Context, dir string, sched control.Scheduler, onPreset func(uint64, Preset), onDone func(Stats)) uint64 {
	gen := p.gen.Add(1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		start := time.Now()
		stats := Stats{Generation: gen}

		sc := &Scanner{Meta: p.meta, OnSkip: func(Skip) { stats.Skipped++ }}
		for preset := range sc.Scan(ctx, dir) {
			if !p.Current(gen) {
				log.Debug(log.CatPresets, "discovery superseded", "generation", gen)
				break
			}
			stats.Found++
			if onPreset != nil {
				sched.Schedule(func() { onPreset(gen, preset) })
			}
		}
		stats.Elapsed = time.Since(start)

		log.Info(log.CatPresets, "discovery finished",
			"generation", gen, "found", stats.Found, "skipped", stats.Skipped,
			"elapsed", stats.Elapsed.String())
		if onDone != nil {
			sched.Schedule(func() { onDone(stats) })
		}
	}()
	return gen
}

// Wait blocks until every started run has finished scanning.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Collect runs a scan synchronously and returns the presets in order.
func Collect(ctx context.Context, dir string, meta *MetaCache) ([]Preset, Stats) {
	start := time.Now()
	var stats Stats
	sc := &Scanner{Meta: meta, OnSkip: func(Skip) { stats.Skipped++ }}
	var out []Preset
	for preset := range sc.Scan(ctx, dir) {
		out = append(out, preset)
	}
	stats.Found = len(out)
	stats.Elapsed = time.Since(start)
	return out, stats
}
