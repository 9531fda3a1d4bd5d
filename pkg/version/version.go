// Package version carries the build metadata stamped in via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Overridden at build time with -X margin/pkg/version.<name>=<value>.
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

// Platform reports the os/arch pair this binary was built for.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Summary renders "version (shortcommit)" for logs and --version output,
// falling back to the bare version when no commit was stamped.
func Summary() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit == "" || Commit == "none" {
		return v
	}
	short := Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s)", v, short)
}
