// Package folders lists the places a dashcam card or footage folder is likely to be.
package folders

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dashreel/dashreel/constant"
	"github.com/dashreel/dashreel/filesystem"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Entry is a selectable folder.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (e Entry) String() string {
	return e.Name
}

var userFolders = []string{"Desktop", "Documents", "Downloads", "Pictures", "Videos", "Movies"}

func isDir(path string) bool {
	ok, err := filesystem.API().IsDir(path)
	return err == nil && ok
}

// Common returns the home folder, its well-known children, mounted volumes and the filesystem root.
func Common() []Entry {
	home, _ := os.UserHomeDir()
	return common(home, runtime.GOOS)
}

func common(home, goos string) []Entry {
	var entries []Entry

	if home != "" && isDir(home) {
		entries = append(entries, Entry{Name: "~ (Home)", Path: home})
		for _, name := range userFolders {
			path := filepath.Join(home, name)
			if isDir(path) {
				entries = append(entries, Entry{Name: "~/" + name, Path: path})
			}
		}
	}

	var mounts []string
	switch goos {
	case constant.Darwin:
		mounts = []string{"/Volumes"}
	case constant.Linux, constant.Android:
		mounts = []string{"/media", "/mnt"}
		if home != "" {
			mounts = append([]string{filepath.Join("/media", filepath.Base(home)), filepath.Join("/run/media", filepath.Base(home))}, mounts...)
		}
	}

	for _, mount := range mounts {
		children, err := Children(mount)
		if err != nil {
			continue
		}
		entries = append(entries, children...)
	}

	if goos != constant.Windows {
		entries = append(entries, Entry{Name: "/", Path: "/"})
	}

	return lo.UniqBy(entries, func(e Entry) string { return e.Path })
}

// Children lists the visible subdirectories of path sorted by name.
func Children(path string) ([]Entry, error) {
	infos, err := filesystem.API().ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := lo.FilterMap(infos, func(info os.FileInfo, _ int) (Entry, bool) {
		if !info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return Entry{}, false
		}
		return Entry{Name: info.Name(), Path: filepath.Join(path, info.Name())}, true
	})

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return entries, nil
}

// Parent returns the enclosing folder and false when path is already a root.
func Parent(path string) (string, bool) {
	parent := filepath.Dir(filepath.Clean(path))
	return parent, parent != filepath.Clean(path)
}
