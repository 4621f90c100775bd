package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#4A4A4A")).Padding(0, 1)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// report prints the attack walkthrough. Styling is only applied when writing
// to a terminal. The first write error is kept in err and later writes are skipped.
type report struct {
	out    io.Writer
	styled bool
	err    error
}

func newReport(out io.Writer) *report {
	return &report{out: out, styled: isTerminal(out)}
}

func (r *report) section(title, body string) {
	header := fmt.Sprintf("=== %s ===", title)
	if r.styled {
		header = sectionStyle.Render(header)
	}
	r.printf("\n%s\n%s\n", header, strings.TrimRight(body, "\n"))
}

func (r *report) field(label, value string) {
	label += ":"
	if r.styled {
		label = labelStyle.Render(label)
	}
	r.printf("%s %s\n", label, value)
}

func (r *report) key(key string) {
	if r.styled {
		key = keyStyle.Render(key)
	}
	r.field("Recovered key", key)
}

func (r *report) warn(message string) {
	message = "warning: " + message
	if r.styled {
		message = warnStyle.Render(message)
	}
	r.printf("%s\n", message)
}

func (r *report) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		r.err = fmt.Errorf("failed to write output: %w", err)
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
