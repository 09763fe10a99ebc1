package devicegraph

import _ "embed"

// Version is the release of the module, read from version.txt.
//
//go:embed version.txt
var Version string
