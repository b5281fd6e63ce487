package codegen

import (
	"strings"

	"github.com/aretw0/flowc/pkg/domain"
)

// statementLines renders the single-exit statements. Blocks, inputs and
// function boundaries are handled by the generator itself.
func statementLines(s domain.Statement) []string {
	switch s := s.(type) {
	case *domain.Declaration:
		return []string{declare(s)}
	case *domain.Declarations:
		lines := make([]string, 0, len(s.Vars))
		for i := range s.Vars {
			lines = append(lines, declare(&s.Vars[i]))
		}
		return lines
	case *domain.Assignment:
		return []string{assign(s)}
	case *domain.Output:
		return []string{printfLine(s)}
	case *domain.FunctionCall:
		return []string{callLine(s)}
	case *domain.CodeSnippet:
		return snippetLines(s.Code)
	}
	return nil
}

// declare renders [static ]TYPE [*]NAME[[SIZE]][ = VALUE];
func declare(d *domain.Declaration) string {
	var b strings.Builder
	if d.IsStatic {
		b.WriteString("static ")
	}
	b.WriteString(d.Type)
	b.WriteByte(' ')
	if d.IsPointer {
		b.WriteByte('*')
	}
	b.WriteString(d.Name)
	if d.IsArray {
		b.WriteString("[" + d.ArraySize + "]")
	}
	if d.Value != "" {
		b.WriteString(" = " + d.Value)
	}
	b.WriteByte(';')
	return b.String()
}

func assign(a *domain.Assignment) string {
	target := a.Name
	if a.Offset != "" {
		target += "[" + a.Offset + "]"
	}
	return target + " = " + a.Value + ";"
}

func forHeader(s *domain.ForLoop) string {
	return "for (int " + s.Var + " = " + s.Start + "; " + s.Condition + "; " + s.Update + ") {"
}

func printfLine(o *domain.Output) string {
	args := append([]string{quote(o.Format)}, o.Args...)
	return "printf(" + strings.Join(args, ", ") + ");"
}

func callLine(c *domain.FunctionCall) string {
	call := c.Name + "(" + strings.Join(c.Args, ", ") + ");"
	if c.Result != "" {
		return c.Result + " = " + call
	}
	return call
}

func snippetLines(code string) []string {
	lines := strings.Split(strings.TrimRight(code, " \t\r\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}

func scanfLine(in *domain.Input, decl *domain.Declaration) string {
	format, byRef := scanfFormat(decl)
	if in.Format != "" {
		format = in.Format
	}
	target := in.Name
	if byRef {
		target = "&" + target
	}
	return "scanf(" + quote(format) + ", " + target + ");"
}

// scanfFormat picks the conversion for a declared variable and whether it
// must be passed by address. Character arrays and pointers read strings.
func scanfFormat(d *domain.Declaration) (string, bool) {
	base := strings.Join(strings.Fields(strings.TrimPrefix(d.Type, "const ")), " ")
	if base == "char" && (d.IsArray || d.IsPointer) {
		return "%s", false
	}
	switch base {
	case "char":
		return " %c", true
	case "float":
		return "%f", true
	case "double":
		return "%lf", true
	case "long double":
		return "%Lf", true
	case "long", "long int":
		return "%ld", true
	case "long long", "long long int":
		return "%lld", true
	case "unsigned", "unsigned int":
		return "%u", true
	case "unsigned long":
		return "%lu", true
	case "short", "short int":
		return "%hd", true
	}
	return "%d", true
}

// quote wraps a format in double quotes unless the user already did.
func quote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
