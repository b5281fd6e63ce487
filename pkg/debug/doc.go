// Package debug connects a generated listing to an external debugger.
//
// The debugger itself runs out of process. flowc hands it the source and a
// breakpoint directive file, and the Bridge turns the "stopped at line N" and
// "variable V = X" notifications coming back into node identities the editor
// can highlight.
package debug
