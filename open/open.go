// Package open hands files and folders to the desktop's default application.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/dashreel/dashreel/constant"
)

func command(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", target), nil
	case constant.Darwin:
		return exec.Command("open", target), nil
	case constant.Linux:
		return exec.Command("xdg-open", target), nil
	case constant.Android:
		return exec.Command("termux-open", target), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}

// File opens path with its default application without waiting for it.
func File(path string) error {
	cmd, err := command(runtime.GOOS, path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Folder opens the folder holding path, or path itself when it is a folder.
func Folder(path string) error {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		path = filepath.Dir(path)
	}
	return File(path)
}
