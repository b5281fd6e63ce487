/*
Package codegen turns flowcharts into C source text.

Generation is a pure function of the graph: it performs no I/O and leaves the
flowchart untouched, so calling it twice on an unchanged graph yields the same
Listing. Each Line of a Listing remembers the node that produced it, which is
what the debugger bridge uses to place breakpoints and to highlight the node
being executed.

	listing := codegen.GenerateProgram(program)
	listing.Apply(program.Functions()...) // record node.Lines
	os.WriteFile("main.c", []byte(listing.Source()), 0o644)
*/
package codegen
