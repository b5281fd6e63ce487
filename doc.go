/*
Package flowc compiles flowcharts into C source code.

A program is a set of flowcharts, one per function. Each flowchart is a graph
of typed nodes (declarations, assignments, conditionals, loops, input and
output, calls, raw snippets) joined by slot-indexed connections. The
Compiler turns a ready program into a single C translation unit, remembers
which node produced every line, and derives the debugger breakpoint file
from the nodes flagged for a stop.

# Usage

	p, err := dsl.Program("demo").
		Func(dsl.Main().
			Declare("int", "x", "2").Break().
			If("x > 1", func(b *dsl.Builder) { b.Print(`big\n`) }, nil)).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	compiler := flowc.New(flowc.WithArtifactSink(file.NewArtifactWriter("build")))
	listing, changed, err := compiler.Emit(ctx, p)

# Debugging

The external debugger reports stops by source line. A Bridge started from
the listing maps them back to nodes so an editor can highlight them:

	bridge := compiler.Bridge(listing)
	node := bridge.Hit(ctx, 4)

# Packages

  - pkg/domain: nodes, connections, flowchart graph operations, programs.
  - pkg/codegen: the generator and the line-to-node Listing.
  - pkg/debug: breakpoint files and the debugger Bridge.
  - pkg/dsl: fluent flowchart construction.
  - pkg/adapters: stores (memory, file, redis), the compiler process, HTTP and MCP transports.
*/
package flowc
