// Package recent remembers the folders that were scanned and ranks them for reuse.
package recent

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dashreel/dashreel/filesystem"
	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// Folder is a remembered scan root.
type Folder struct {
	Path     string    `json:"path"`
	Rank     int       `json:"rank"`
	LastUsed time.Time `json:"last_used"`
}

var (
	mu     sync.Mutex
	cacher = gache.New[map[string]*Folder](
		&gache.Options{
			Path:       where.Folders(),
			FileSystem: &filesystem.GacheFs{},
		},
	)
)

func load() map[string]*Folder {
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*Folder)
	}
	return cached
}

func normalize(path string) string {
	return filepath.Clean(strings.TrimSpace(path))
}

// Remember records a scan of the folder. It is a no-op when history.remember_folders is off.
func Remember(path string) error {
	if !viper.GetBool(key.HistoryRememberFolders) {
		return nil
	}

	path = normalize(path)
	if path == "." {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	cached := load()
	if f, ok := cached[path]; ok {
		f.Rank++
		f.LastUsed = time.Now()
	} else {
		cached[path] = &Folder{Path: path, Rank: 1, LastUsed: time.Now()}
	}

	return cacher.Set(cached)
}

// Forget drops a folder from the history.
func Forget(path string) error {
	mu.Lock()
	defer mu.Unlock()

	cached := load()
	delete(cached, normalize(path))
	return cacher.Set(cached)
}

// Clear drops the whole history.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	return cacher.Set(make(map[string]*Folder))
}

// List returns remembered folders, most used first, ties broken by recency.
func List() []Folder {
	mu.Lock()
	cached := load()
	folders := lo.MapToSlice(cached, func(_ string, f *Folder) Folder { return *f })
	mu.Unlock()

	slices.SortFunc(folders, func(a, b Folder) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return b.LastUsed.Compare(a.LastUsed)
	})
	return folders
}

// SuggestMany returns remembered folders whose path fuzzily matches the input.
func SuggestMany(input string) []string {
	if !viper.GetBool(key.HistoryRememberFolders) {
		return []string{}
	}

	input = strings.TrimSpace(input)
	matches := lo.Filter(List(), func(f Folder, _ int) bool {
		return fuzzy.MatchFold(input, f.Path)
	})

	return lo.Map(matches, func(f Folder, _ int) string {
		return f.Path
	})
}

// Suggest returns the best remembered match for the input.
func Suggest(input string) mo.Option[string] {
	suggestions := SuggestMany(input)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}
