// Package probe measures segment durations with ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	"github.com/dashreel/dashreel/filesystem"
	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/log"
	"github.com/dashreel/dashreel/segment"
	"github.com/dashreel/dashreel/where"
	"github.com/metafates/gache"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// cacher persists probed durations keyed by path, size and modification time.
var cacher = gache.New[map[string]float64](
	&gache.Options{
		Path:       where.Durations(),
		FileSystem: &filesystem.GacheFs{},
	},
)

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Prober runs ffprobe with bounded concurrency.
type Prober struct {
	binary  string
	workers int
}

func New(binary string, workers int) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	if workers < 1 {
		workers = 1
	}
	return &Prober{binary: binary, workers: workers}
}

// FromConfig builds a prober from combine.ffprobe and scan.probe_workers.
func FromConfig() *Prober {
	return New(viper.GetString(key.CombineFFprobe), viper.GetInt(key.ScanProbeWorkers))
}

// Available reports whether the ffprobe binary can be found.
func (p *Prober) Available() bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

// Duration runs ffprobe on a single file.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var ff ffprobeOutput
	if err := json.Unmarshal(output, &ff); err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	d, err := strconv.ParseFloat(ff.Format.Duration, 64)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("ffprobe %s: no duration", path)
	}
	return d, nil
}

func cacheKey(path string) (string, bool) {
	info, err := filesystem.API().Stat(path)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano()), true
}

// Annotate fills in the duration of every segment that does not have one.
// Files that cannot be probed keep an unknown duration; only cancellation is an error.
func (p *Prober) Annotate(ctx context.Context, segments []segment.Segment) ([]segment.Segment, error) {
	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		cached = make(map[string]float64)
	}

	var (
		mu      sync.Mutex
		dirty   bool
		out     = make([]segment.Segment, len(segments))
		g, gctx = errgroup.WithContext(ctx)
	)
	copy(out, segments)
	g.SetLimit(p.workers)

	for i := range out {
		if out[i].Duration.IsPresent() {
			continue
		}

		k, ok := cacheKey(out[i].Path)
		if ok {
			mu.Lock()
			d, hit := cached[k]
			mu.Unlock()
			if hit {
				out[i] = out[i].WithDuration(d)
				continue
			}
		}

		i := i
		g.Go(func() error {
			d, err := p.Duration(gctx, out[i].Path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warnf("probe: %v", err)
				return nil
			}

			out[i] = out[i].WithDuration(d)
			if ok {
				mu.Lock()
				cached[k] = d
				dirty = true
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if dirty {
		if err := cacher.Set(cached); err != nil {
			log.Warnf("probe: save cache: %v", err)
		}
	}
	return out, nil
}
