package flowc_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/flowc"
	"github.com/aretw0/flowc/pkg/adapters/memory"
	"github.com/aretw0/flowc/pkg/dsl"
)

// ExampleCompiler_Emit builds a small program with the fluent builder and
// emits it to an in-memory sink.
func ExampleCompiler_Emit() {
	p, err := dsl.Program("demo").
		Func(dsl.Main().
			Declare("int", "x", "2").Break().
			If("x > 1", func(b *dsl.Builder) { b.Print(`big\n`) }, nil)).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	sink := memory.NewArtifacts()
	compiler := flowc.New(flowc.WithArtifactSink(sink))
	if _, _, err := compiler.Emit(context.Background(), p); err != nil {
		log.Fatal(err)
	}

	art, _ := sink.Get("demo")
	fmt.Print(art.Source)
	fmt.Print(art.Breakpoints)
	// Output:
	// #include <stdio.h>
	//
	// int main() {
	//   int x = 2;
	//   if (x > 1) {
	//     printf("big\n");
	//   }
	//   return 0;
	// }
	// break demo.c:4
}
