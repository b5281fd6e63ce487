/*
Package dsl provides a fluent builder for flowc flowcharts.

It is the programmatic counterpart of the graphical editor: every call goes
through Flowchart.AddNode, so the graphs it produces have exactly the shape an
editing session would produce (auto connectors, loop back-edges, scopes).

Example usage:

	main := dsl.Main().
		Declare("int", "n", "").
		Input("n").
		If("n % 2 == 0",
			func(t *dsl.Builder) { t.Print(`even\n`) },
			func(e *dsl.Builder) { e.Print(`odd\n`) },
		).
		For("i", "0", "i < n", "i++", func(body *dsl.Builder) {
			body.Print(`%d\n`, "i").Break()
		})

	program, err := dsl.Program("parity").Func(main).Build()
*/
package dsl
