// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/pcbgraph/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/pcbgraph/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/pcbgraph/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"

	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// RecordVersion is the version of the node, edge and optimal record
// formats this build reads and writes.
const RecordVersion = netlist.RecordVersion

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\nrecords: %s", Version, Commit, Date, RecordVersion)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\nrecords: %s\n", Version, Commit, Date, RecordVersion)
}
