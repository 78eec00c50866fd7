package release

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/sagikazarmark/gorelease/pkg/toolchain"
)

var (
	// ErrOutputDirMissing is returned when the output directory does not exist before a release.
	ErrOutputDirMissing = errors.New("output directory does not exist")

	// ErrCompile matches every CompileError.
	ErrCompile = errors.New("compile failed")

	// ErrArchive matches every ArchiveError.
	ErrArchive = errors.New("archive failed")

	// ErrCleanup matches every CleanupError.
	ErrCleanup = errors.New("cleanup failed")
)

// CompileError is returned when the toolchain fails to produce a binary for a platform.
type CompileError struct {
	Platform toolchain.Platform

	// ExitCode of the compiler. Zero when the compiler could not be started
	// or exited successfully without producing the binary.
	ExitCode int

	// Output is the captured error output of the compiler.
	Output string

	Err error
}

func (e *CompileError) Error() string {
	return stepErrorMessage(ErrCompile, e.Platform, e.ExitCode, e.Output, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

func (e *CompileError) Is(target error) bool { return target == ErrCompile }

// ArchiveError is returned when the archiver fails to package a binary.
type ArchiveError struct {
	Platform toolchain.Platform
	Archive  string
	ExitCode int
	Output   string
	Err      error
}

func (e *ArchiveError) Error() string {
	return stepErrorMessage(ErrArchive, e.Platform, e.ExitCode, e.Output, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

func (e *ArchiveError) Is(target error) bool { return target == ErrArchive }

// CleanupError is returned when the transient binary of a platform cannot be removed.
type CleanupError struct {
	Platform toolchain.Platform
	Path     string
	Err      error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %v", ErrCleanup, e.Platform, e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }

func (e *CleanupError) Is(target error) bool { return target == ErrCleanup }

var errArtifactMissing = errors.New("file not found")

var errNotRegular = errors.New("not a regular file")

func stepErrorMessage(kind error, platform toolchain.Platform, exitCode int, output string, err error) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s", kind, platform)

	if exitCode != 0 {
		fmt.Fprintf(&b, ": exit status %d", exitCode)
	}

	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}

	if output = strings.TrimSpace(output); output != "" {
		fmt.Fprintf(&b, "\n%s", output)
	}

	return b.String()
}

// MatrixError is returned when one or more platforms failed.
type MatrixError struct {
	Failed []PlatformResult
}

func (e *MatrixError) Error() string {
	platforms := make([]string, 0, len(e.Failed))

	for _, result := range e.Failed {
		platforms = append(platforms, result.Platform.String())
	}

	return "release failed for " + strings.Join(platforms, ", ")
}

// Unwrap returns the error of the first failed platform.
func (e *MatrixError) Unwrap() error {
	if len(e.Failed) == 0 {
		return nil
	}

	return e.Failed[0].Err
}
