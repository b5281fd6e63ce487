package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowc/pkg/codegen"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// width <= 0 keeps glamour's default word wrap.
func NewRenderer(width int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)

	return func(markdown string) (string, error) {
		if err != nil {
			return "", fmt.Errorf("failed to create renderer: %w", err)
		}
		return r.Render(markdown)
	}
}

// ListingMarkdown formats a listing as a fenced C block with line numbers
// in the gutter. Breakpoint lines are marked with "●".
func ListingMarkdown(title string, listing *codegen.Listing) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("# " + title + "\n\n")
	}
	sb.WriteString("```c\n")
	width := len(fmt.Sprint(listing.Len()))
	for i, ln := range listing.Lines {
		mark := " "
		if ln.Break {
			mark = "●"
		}
		sb.WriteString(fmt.Sprintf("%s%*d  %s\n", mark, width, i+1, ln.Text))
	}
	sb.WriteString("```\n")
	return sb.String()
}

// RenderListing renders a listing for an interactive terminal.
func RenderListing(title string, listing *codegen.Listing, width int) (string, error) {
	return NewRenderer(width)(ListingMarkdown(title, listing))
}
