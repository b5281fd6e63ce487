package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/flowc/internal/presentation/graph"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/dsl"
)

func TestGenerateMermaid(t *testing.T) {
	b := dsl.Main().Declare("int", "x", "0").Break()
	decl := b.Last().Tag
	b.If(`x > "0"`, func(then *dsl.Builder) {
		then.Print("pos\n")
	}, nil)
	cond := b.Last().Tag
	b.While("x < 3", nil)
	loop := b.Last().Tag
	b.Call("puts", `"done"`).Disable("skipped")
	call := b.Last().Tag
	f, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	merge, _ := f.Connector(cond)

	id := func(tag domain.Tag) string { return "n" + tag.String() }

	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes",
			contains: []string{
				"graph TD\n",
				id(f.Root().Tag) + `(["int main()"])`,
				id(decl) + `["int x = 0"]`,
				id(cond) + `{"x > '0'"}`,
				id(loop) + `{{"while x < 3"}}`,
				id(call) + `[["puts('done')"]]`,
				id(merge.Tag) + `((" "))`,
				id(f.End().Tag) + `(["return 0"])`,
			},
		},
		{
			name: "Edges",
			contains: []string{
				id(f.Root().Tag) + " --> " + id(decl),
				id(cond) + ` -- "true" --> `,
				id(cond) + ` -- "false" --> ` + id(merge.Tag),
				id(loop) + ` -. "body" .-> ` + id(loop),
				id(loop) + ` -- "exit" --> ` + id(call),
			},
		},
		{
			name: "Node Styles",
			contains: []string{
				"class " + id(decl) + " breakpoint;",
				"class " + id(call) + " disabled;",
			},
			excludes: []string{"Overlay Styles"},
		},
		{
			name: "Overlay",
			overlay: &graph.GraphOverlay{
				Visited: []domain.Tag{decl, decl, 999999},
				Current: loop,
			},
			contains: []string{
				"class " + id(decl) + " visited;",
				"class " + id(loop) + " current;",
			},
			excludes: []string{"n999999"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(f, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnwanted substring: %v", got, unwanted)
				}
			}
			if tt.overlay != nil && strings.Count(got, " visited;\n") != 1 {
				t.Errorf("visited nodes must be deduplicated:\n%v", got)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		stmt domain.Statement
		want string
	}{
		{&domain.FunctionStart{Name: "add", ReturnType: "int", Params: []domain.Param{{Type: "int", Name: "a"}}}, "int add(int a)"},
		{&domain.FunctionEnd{}, "end"},
		{&domain.Declaration{Type: "char", Name: "buf", IsArray: true, ArraySize: "8"}, "char buf[8]"},
		{&domain.Declarations{Vars: []domain.Declaration{{Type: "int", Name: "a"}, {Type: "int", Name: "p", IsPointer: true}}}, "int a; int *p"},
		{&domain.Assignment{Name: "v", Offset: "i", Value: "0"}, "v[i] = 0"},
		{&domain.DoWhileLoop{Condition: "n > 0"}, "do while n > 0"},
		{&domain.ForLoop{Var: "i", Start: "0", Condition: "i < n", Update: "i++"}, "for i = 0; i < n; i++"},
		{&domain.Input{Name: "n"}, "read n"},
		{&domain.Output{Format: "%d", Args: []string{"n"}}, "print %d, n"},
		{&domain.FunctionCall{Name: "pow", Args: []string{"x", "2"}, Result: "y"}, "y = pow(x, 2)"},
		{&domain.CodeSnippet{Code: "a++;\nb++;\n"}, "a++; ..."},
	}

	for _, tt := range tests {
		t.Run(string(tt.stmt.Kind()), func(t *testing.T) {
			if got := graph.Label(tt.stmt); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
