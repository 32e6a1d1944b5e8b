// Package version exposes build-time version information.
package version

import "fmt"

var (
	// Version is the current version of skillgate
	// This will be set during the build process
	Version = "dev"

	// GitCommit is the git commit SHA that was built
	// This will be set during the build process
	GitCommit = "unknown"
)

// Info represents version information
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
}

// Get returns the version information
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("skillgate %s (%s)", i.Version, i.GitCommit)
}
