// Package version exposes build information injected at link time.
//
//	go build -ldflags "-X github.com/longkey1/thinkctx/internal/version.Version=v1.2.0 \
//	  -X github.com/longkey1/thinkctx/internal/version.CommitSHA=$(git rev-parse HEAD) \
//	  -X github.com/longkey1/thinkctx/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Set via -ldflags
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildTime = "unknown"
)

// Short returns the version number only
func Short() string {
	return Version
}

// Info returns a multi-line description of the build
func Info() string {
	lines := []string{
		fmt.Sprintf("Version:    %s", Version),
		fmt.Sprintf("Commit SHA: %s", CommitSHA),
		fmt.Sprintf("Build Time: %s", BuildTime),
		fmt.Sprintf("Go Version: %s", runtime.Version()),
	}
	return strings.Join(lines, "\n")
}
