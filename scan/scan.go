// Package scan discovers dashcam segments in a folder tree.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dashreel/dashreel/filesystem"
	"github.com/dashreel/dashreel/log"
	"github.com/dashreel/dashreel/segment"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ErrNotDirectory is returned when the scan root is not a folder.
var ErrNotDirectory = errors.New("not a directory")

// Options select which segments a scan returns.
type Options struct {
	Root string
	// Channels to include; empty means every channel.
	Channels []segment.Channel
	// From and To bound the UTC start, inclusive.
	From mo.Option[time.Time]
	To   mo.Option[time.Time]
}

// Scan walks Root recursively, skipping hidden entries, and returns the
// matching segments sorted by UTC start. Unreadable subfolders are logged and skipped.
func Scan(ctx context.Context, opts Options) ([]segment.Segment, error) {
	fs := filesystem.API()

	info, err := fs.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", opts.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: %w", opts.Root, ErrNotDirectory)
	}

	var found []segment.Segment

	err = fs.Walk(opts.Root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			log.Warnf("scan: %s: %v", path, err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path != opts.Root && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		seg, ok := Parse(path)
		if !ok || !opts.accepts(seg) {
			return nil
		}

		found = append(found, seg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].UTC.Before(found[j].UTC)
	})

	log.Infof("scan: %d segments in %s", len(found), opts.Root)
	return found, nil
}

func (o Options) accepts(seg segment.Segment) bool {
	if len(o.Channels) > 0 && !lo.Contains(o.Channels, seg.Channel) {
		return false
	}
	if from, ok := o.From.Get(); ok && seg.UTC.Before(from) {
		return false
	}
	if to, ok := o.To.Get(); ok && seg.UTC.After(to) {
		return false
	}
	return true
}
