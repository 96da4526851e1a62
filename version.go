package minibot

import _ "embed"

// Version is the release of the library and the minibot binary.
//
//go:embed VERSION
var Version string
