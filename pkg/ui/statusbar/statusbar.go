// Package statusbar renders the single-line bar under the editing surface:
// git branch, open file, and the active model.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"margin/pkg/ai"
	"margin/pkg/assistant"
	"margin/pkg/explorer"
	"margin/pkg/surface"
	"margin/pkg/ui/styles"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Bar is the status bar state. The git branch is resolved once at startup;
// everything else is read from the surface on each render.
type Bar struct {
	branch string
	width  int
	frame  int
}

// New creates a bar for the given working directory.
func New(workdir string) *Bar {
	return &Bar{branch: ResolveGitBranch(workdir), width: 80}
}

// SetWidth updates the width for rendering.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Tick advances the loading spinner one frame.
func (b *Bar) Tick() {
	b.frame = (b.frame + 1) % len(spinnerFrames)
}

// Render returns the styled status bar line.
func (b *Bar) Render(sf *surface.Surface) string {
	parts := []string{"[margin]"}
	if b.branch != "" {
		parts = append(parts, b.branch)
	}

	ex := explorer.GetState(sf)
	if ex.SelectedFile != "" {
		parts = append(parts, fmt.Sprintf("%s (%s)", ex.SelectedFile, explorer.DetectLanguage(ex.SelectedFile)))
	}

	as := assistant.GetState(sf)
	modelLabel := string(as.SelectedModel)
	if info, ok := ai.LookupModel(as.SelectedModel); ok {
		modelLabel = info.Name
	}
	if modelLabel == "" {
		modelLabel = "unknown"
	}
	llm := "[llm]: " + modelLabel
	if as.IsLoading {
		llm += " " + spinnerFrames[b.frame]
	}
	parts = append(parts, llm)

	content := strings.Join(parts, " | ")

	maxWidth := b.width
	if maxWidth < 10 {
		maxWidth = 10
	}
	if ansi.StringWidth(content) > maxWidth {
		content = ansi.Truncate(content, maxWidth, "...")
	}
	if pad := b.width - ansi.StringWidth(content); pad > 0 {
		content += strings.Repeat(" ", pad)
	}

	return styles.StatusBarStyle.Render(content)
}
