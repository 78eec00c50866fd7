package release

import (
	"github.com/sagikazarmark/gorelease/pkg/toolchain"
)

// State is the progress of a single platform build.
type State string

// Platform build states, in order.
const (
	StatePending  State = "pending"
	StateCompiled State = "compiled"
	StateArchived State = "archived"
	StateCleaned  State = "cleaned"
)

// PlatformResult records the outcome of a single platform build.
type PlatformResult struct {
	Platform toolchain.Platform

	// State is the last state the platform reached.
	State State

	// Archive is the path of the release archive, relative to the working directory
	// unless the output directory is absolute.
	Archive string

	// Skipped is set when the platform was never attempted.
	Skipped bool

	Err error
}

// Success reports whether the platform was released.
func (r PlatformResult) Success() bool {
	return r.Err == nil && r.State == StateCleaned
}

// Summary is the outcome of a release run.
type Summary struct {
	Product string
	Version string
	Results []PlatformResult

	// Checksums is the path of the checksum manifest, if one was written.
	Checksums string
}

// Archives returns the archives produced by successful platforms.
func (s Summary) Archives() []string {
	var archives []string

	for _, result := range s.Results {
		if result.Success() {
			archives = append(archives, result.Archive)
		}
	}

	return archives
}

// Failed returns the results of failed platforms.
func (s Summary) Failed() []PlatformResult {
	var failed []PlatformResult

	for _, result := range s.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}

	return failed
}

// Err returns a MatrixError if any platform failed, nil otherwise.
func (s Summary) Err() error {
	failed := s.Failed()
	if len(failed) == 0 {
		return nil
	}

	return &MatrixError{Failed: failed}
}
