package codegen_test

import (
	"testing"

	"github.com/aretw0/flowc/pkg/codegen"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProgram(t *testing.T) {
	main := dsl.Main().
		Declare("int", "r", "0").
		CallInto("r", "add", "1", "2").
		Print(`%d\n`, "r")
	add := dsl.Function("int", "add",
		domain.Param{Type: "int", Name: "a"},
		domain.Param{Type: "int", Name: "b"},
	).Return("a + b")

	p, err := dsl.Program("sum").Func(main).Func(add).Build()
	require.NoError(t, err)

	listing := codegen.GenerateProgram(p)
	want := src(
		"#include <stdio.h>",
		"",
		"int add(int a, int b);",
		"",
		"int main() {",
		"  int r = 0;",
		"  r = add(1, 2);",
		`  printf("%d\n", r);`,
		"  return 0;",
		"}",
		"",
		"int add(int a, int b) {",
		"  return a + b;",
		"}",
	)
	assert.Equal(t, want, listing.String())
	assert.Equal(t, want+"\n", listing.Source())

	ln, ok := listing.Line(13)
	require.True(t, ok)
	assert.Equal(t, "add", ln.Function)
	assert.Equal(t, p.Functions()[1].End().Tag, ln.Node)
}

func TestGenerateProgram_MainOnly(t *testing.T) {
	p := domain.NewProgram("empty")
	assert.Equal(t, src("int main() {", "  return 0;", "}"), codegen.GenerateProgram(p).String())
}

func TestIncludes(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		chart   *dsl.Builder
		want    []string
	}{
		{
			name:  "None",
			chart: dsl.Main().Declare("int", "x", "1"),
			want:  []string{},
		},
		{
			name:  "IO Implies Stdio",
			chart: dsl.Main().Print("hi"),
			want:  []string{"stdio.h"},
		},
		{
			name:  "Bool Implies Stdbool",
			chart: dsl.Main().Declare("bool", "ok", "true"),
			want:  []string{"stdbool.h"},
		},
		{
			name:    "Declared Headers Are Normalized And Deduplicated",
			headers: []string{"math", "<stdio.h>", "#include <math.h>"},
			chart:   dsl.Main().Print("x").CallInto("x", "sqrt", "2"),
			want:    []string{"math.h", "stdio.h"},
		},
		{
			name:  "Snippet Calls Imply Headers",
			chart: dsl.Main().Code("int *p = malloc(4);\nprintf (\"%d\", *p);\nfree(p);"),
			want:  []string{"stdio.h", "stdlib.h"},
		},
		{
			name:  "Snippet Without Calls",
			chart: dsl.Main().Code("int printf_count = 0;\nprintf_count++;"),
			want:  []string{},
		},
		{
			name:  "Disabled Nodes Imply Nothing",
			chart: dsl.Main().Print("x").Disable(""),
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := dsl.Program("p").Include(tt.headers...).Func(tt.chart).Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, codegen.Includes(p))
		})
	}
}
