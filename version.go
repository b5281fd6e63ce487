package flowc

import _ "embed"

// Version is the release of the module, read from the VERSION file.
// Callers trim the trailing newline.
//
//go:embed VERSION
var Version string
