package debug

import (
	"strconv"
	"strings"

	"github.com/aretw0/flowc/pkg/codegen"
)

// BreakpointFile renders one "break FILE:LINE" directive per flagged line,
// newline separated. It is empty when no node asked for a stop.
func BreakpointFile(listing *codegen.Listing, file string) string {
	var b strings.Builder
	for _, line := range listing.Breakpoints() {
		b.WriteString("break ")
		b.WriteString(file)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(line))
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseBreakpointFile reads the lines back from a directive file. Directives
// for other files and malformed lines are ignored.
func ParseBreakpointFile(content, file string) []int {
	var lines []int
	for _, raw := range strings.Split(content, "\n") {
		loc, ok := strings.CutPrefix(strings.TrimSpace(raw), "break ")
		if !ok {
			continue
		}
		i := strings.LastIndexByte(loc, ':')
		if i < 0 || strings.TrimSpace(loc[:i]) != file {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(loc[i+1:]))
		if err != nil || n < 1 {
			continue
		}
		lines = append(lines, n)
	}
	return lines
}
