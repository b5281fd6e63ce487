package codegen

import (
	"regexp"
	"slices"
	"strings"

	"github.com/aretw0/flowc/pkg/domain"
)

// libraryHeaders maps well known libc calls to the header declaring them.
var libraryHeaders = map[string]string{
	"printf": "stdio.h", "scanf": "stdio.h", "puts": "stdio.h", "getchar": "stdio.h", "putchar": "stdio.h",
	"malloc": "stdlib.h", "calloc": "stdlib.h", "free": "stdlib.h", "rand": "stdlib.h", "srand": "stdlib.h",
	"abs": "stdlib.h", "exit": "stdlib.h", "atoi": "stdlib.h",
	"sqrt": "math.h", "pow": "math.h", "fabs": "math.h", "floor": "math.h", "ceil": "math.h",
	"sin": "math.h", "cos": "math.h", "tan": "math.h", "log": "math.h", "exp": "math.h",
	"strlen": "string.h", "strcpy": "string.h", "strcmp": "string.h", "strcat": "string.h",
	"memset": "string.h", "memcpy": "string.h",
	"time": "time.h",
}

var callPattern = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// GenerateProgram generates every function of p in program order and joins
// them into one translation unit: the deduplicated #include preamble, the
// prototypes of the non-entry functions, then the function bodies separated
// by blank lines.
func GenerateProgram(p *domain.Program, opts ...Option) *Listing {
	out := &Listing{}

	headers := Includes(p)
	for _, h := range headers {
		out.Lines = append(out.Lines, Line{Text: "#include <" + h + ">"})
	}

	var protos []string
	for _, f := range p.Functions() {
		if f.Root().Kind() == domain.KindFunctionStart {
			protos = append(protos, domain.Signature(f.Root().Stmt).Signature()+";")
		}
	}
	if len(protos) > 0 {
		if out.Len() > 0 {
			out.blank()
		}
		for _, proto := range protos {
			out.Lines = append(out.Lines, Line{Text: proto})
		}
	}

	for _, f := range p.Functions() {
		if out.Len() > 0 {
			out.blank()
		}
		out.append(Generate(f, opts...))
	}
	return out
}

// Includes returns the sorted, deduplicated headers of p: the declared ones
// plus those implied by its nodes.
func Includes(p *domain.Program) []string {
	seen := make(map[string]bool)
	for _, h := range p.Headers {
		if h = normalizeHeader(h); h != "" {
			seen[h] = true
		}
	}
	for _, f := range p.Functions() {
		for _, n := range f.Nodes() {
			if f.Disabled(n.Tag) {
				continue
			}
			for _, h := range impliedHeaders(n.Stmt) {
				seen[h] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

func impliedHeaders(s domain.Statement) []string {
	switch s := s.(type) {
	case *domain.Input, *domain.Output:
		return []string{"stdio.h"}
	case *domain.Declaration:
		return typeHeaders(s.Type)
	case *domain.Declarations:
		var out []string
		for _, v := range s.Vars {
			out = append(out, typeHeaders(v.Type)...)
		}
		return out
	case *domain.FunctionCall:
		if h, ok := libraryHeaders[s.Name]; ok {
			return []string{h}
		}
	case *domain.CodeSnippet:
		return snippetHeaders(s.Code)
	}
	return nil
}

// snippetHeaders finds the libc calls made inside raw code.
func snippetHeaders(code string) []string {
	var out []string
	for _, m := range callPattern.FindAllStringSubmatch(code, -1) {
		if h, ok := libraryHeaders[m[1]]; ok {
			out = append(out, h)
		}
	}
	return out
}

func typeHeaders(t string) []string {
	switch strings.TrimSpace(t) {
	case "bool":
		return []string{"stdbool.h"}
	case "size_t":
		return []string{"stddef.h"}
	case "int8_t", "int16_t", "int32_t", "int64_t", "uint8_t", "uint16_t", "uint32_t", "uint64_t":
		return []string{"stdint.h"}
	}
	return nil
}

// normalizeHeader accepts "stdio", "stdio.h", "<stdio.h>" or "#include <stdio.h>".
func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(h), "#include"))
	h = strings.Trim(h, `<>" `)
	if h == "" {
		return ""
	}
	if !strings.HasSuffix(h, ".h") {
		h += ".h"
	}
	return h
}
