package tui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

// Init starts scanning the folder given on the command line.
func (b *statefulBubble) Init() tea.Cmd {
	status := fmt.Sprintf("Scanning %s", filepath.Base(b.options.Scan.Root))
	return tea.Batch(b.startLoading(status), b.scanFolder())
}
