// Package mcp exposes stored programs to agents over the Model Context
// Protocol. Tools list programs, inspect and edit function flowcharts, and
// return the generated C source; the stored program list is also published
// as the flowc://programs resource.
package mcp
