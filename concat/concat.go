// Package concat joins segments into a single file with ffmpeg's concat demuxer.
package concat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dashreel/dashreel/filesystem"
	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/log"
	"github.com/dashreel/dashreel/where"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// MaxCollisions bounds the numeric suffixes tried for a taken destination name.
const MaxCollisions = 9999

var (
	ErrNoInputs        = errors.New("no files to combine")
	ErrTooManyFiles    = errors.New("too many files with the same name")
	ErrFFmpegNotFound  = errors.New("ffmpeg not found")
	ErrNotOsFilesystem = errors.New("combine needs the native filesystem")
)

// Combiner runs ffmpeg.
type Combiner struct {
	binary string
}

func New(binary string) *Combiner {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Combiner{binary: binary}
}

// FromConfig uses combine.ffmpeg.
func FromConfig() *Combiner {
	return New(viper.GetString(key.CombineFFmpeg))
}

// Available checks that ffmpeg can be executed.
func (c *Combiner) Available(ctx context.Context) error {
	path, err := exec.LookPath(c.binary)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, c.binary)
	}

	if err := exec.CommandContext(ctx, path, "-hide_banner", "-version").Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}
	return nil
}

// Destination resolves the output path for a combined file in dir.
// A taken name gets a _1 through _9999 suffix before its extension.
func Destination(dir, name string) (string, error) {
	if filepath.Ext(name) == "" {
		name += ".mp4"
	}

	candidate := filepath.Join(dir, name)
	if !exists(candidate) {
		return candidate, nil
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; i <= MaxCollisions; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}

	return "", ErrTooManyFiles
}

func exists(path string) bool {
	ok, err := filesystem.API().Exists(path)
	return err == nil && ok
}

// quote escapes a path for a concat list entry.
func quote(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}

// List renders the concat demuxer script for the given files.
func List(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString("file ")
		b.WriteString(quote(p))
		b.WriteByte('\n')
	}
	return b.String()
}

func args(list, dest string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "info",
		"-stats",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		"-bsf:a", "aac_adtstoasc",
		"-movflags", "+faststart",
		dest,
	}
}

// Combine losslessly concatenates paths, in order, into dest.
// ffmpeg output is streamed to the log at info level.
func (c *Combiner) Combine(ctx context.Context, paths []string, dest string) error {
	if len(paths) == 0 {
		return ErrNoInputs
	}

	if !filesystem.IsOs() {
		return ErrNotOsFilesystem
	}

	abs := lo.Map(paths, func(p string, _ int) string {
		if a, err := filepath.Abs(p); err == nil {
			return a
		}
		return p
	})

	list := filepath.Join(where.Temp(), "concat-"+uuid.NewString()+".txt")
	if err := filesystem.API().WriteFile(list, []byte(List(abs)), os.ModePerm); err != nil {
		return err
	}
	defer func() {
		_ = filesystem.API().Remove(list)
	}()

	if err := filesystem.API().MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return err
	}

	out := log.Writer(logrus.InfoLevel)
	defer out.Close()

	log.Infof("combining %d files into %s", len(paths), dest)

	cmd := exec.CommandContext(ctx, c.binary, args(list, dest)...)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}
