package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/internal/css"
)

const swatchWidth = 6

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// swatcher renders colour blocks when w is a terminal and nothing otherwise.
type swatcher struct {
	renderer *lipgloss.Renderer
	enabled  bool
}

func newSwatcher(w io.Writer) swatcher {
	return swatcher{renderer: lipgloss.NewRenderer(w), enabled: isTerminal(w)}
}

func (s swatcher) swatch(c colour.RGB) string {
	if !s.enabled {
		return ""
	}
	block := s.renderer.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Width(swatchWidth).
		Render("")
	return block + " "
}

// printEntries writes one line per resolved variable.
func printEntries(w io.Writer, entries []css.Entry) {
	s := newSwatcher(w)
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s%-*s  %s\n", s.swatch(e.Value.Colour), width, e.Name, e.Value)
	}
}

// printColours writes a titled list of colours.
func printColours(w io.Writer, title string, colours []colour.RGB) {
	s := newSwatcher(w)
	fmt.Fprintf(w, "%s (%d):\n", title, len(colours))
	for _, c := range colours {
		fmt.Fprintf(w, "  %s%s  %s\n", s.swatch(c), c.Hex(), c)
	}
}
