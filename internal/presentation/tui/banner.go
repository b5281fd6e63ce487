package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the flowc banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Teal/Cyan)
	lines := []struct{ text, color string }{
		{"   __ _                ", "#2dd4bf"},
		{"  / _| | _____      __ ___", "#22d3ee"},
		{" | |_| |/ _ \\ \\ /\\ / // __|", "#38bdf8"},
		{" |  _| | (_) \\ V  V /| (__", "#60a5fa"},
		{" |_| |_|\\___/ \\_/\\_/  \\___|", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Status colours a short status word: green when ok, red otherwise.
func Status(text string, ok bool) string {
	p := termenv.ColorProfile()
	color := "#ef4444"
	if ok {
		color = "#22c55e"
	}
	return termenv.String(text).Foreground(p.Color(color)).Bold().String()
}
