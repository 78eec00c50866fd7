// Package release cross-builds a Go program for a matrix of platforms
// and packages one archive per platform.
//
// Platforms are processed one at a time, in order. For each platform the
// binary is compiled, archived and then removed:
//
//	pending -> compiled -> archived -> cleaned
//
// A failing platform is recorded in the Summary and the remaining platforms
// are still built, unless Config.FailFast is set.
package release

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"logur.dev/logur"

	"github.com/sagikazarmark/gorelease/pkg/toolchain"
)

// Builder runs the release matrix.
type Builder struct {
	config Config
	runner toolchain.Runner
	logger logur.Logger

	environ func() []string
}

// NewBuilder returns a new Builder.
func NewBuilder(config Config, runner toolchain.Runner, logger logur.Logger) *Builder {
	if logger == nil {
		logger = logur.NewNoopLogger()
	}

	return &Builder{
		config:  config,
		runner:  runner,
		logger:  logger,
		environ: os.Environ,
	}
}

// Build builds and packages every platform of the matrix.
//
// The returned error is only set when the release could not run at all
// (invalid configuration, missing output directory, cancellation).
// Platform failures are reported by Summary.Err.
func (b *Builder) Build(ctx context.Context, version string) (Summary, error) {
	summary := Summary{
		Product: b.config.Product,
		Version: version,
	}

	if err := b.config.Validate(); err != nil {
		return summary, errors.WithMessage(err, "invalid release config")
	}

	outputDir := b.config.Path(b.config.OutputDir)

	info, err := os.Stat(outputDir)
	if os.IsNotExist(err) || (err == nil && !info.IsDir()) {
		return summary, errors.Wrap(ErrOutputDirMissing, outputDir)
	} else if err != nil {
		return summary, errors.WithStack(err)
	}

	b.logger.Info("building release", map[string]interface{}{
		"product":   b.config.Product,
		"version":   version,
		"platforms": len(b.config.Platforms),
	})

	var stop bool

	for _, platform := range b.config.Platforms {
		if stop {
			summary.Results = append(summary.Results, PlatformResult{
				Platform: platform,
				State:    StatePending,
				Skipped:  true,
			})

			continue
		}

		if err := ctx.Err(); err != nil {
			return summary, errors.WithStack(err)
		}

		result := b.BuildPlatform(ctx, platform, version)
		summary.Results = append(summary.Results, result)

		if err := ctx.Err(); err != nil {
			return summary, errors.WithStack(err)
		}

		if result.Err != nil && b.config.FailFast {
			stop = true
		}
	}

	if b.config.Checksums && len(summary.Archives()) > 0 {
		manifest, err := b.writeChecksums(summary)
		if err != nil {
			return summary, errors.WithMessage(err, "write checksums")
		}

		summary.Checksums = manifest
	}

	return summary, nil
}

// BuildPlatform compiles, archives and cleans up a single platform.
func (b *Builder) BuildPlatform(ctx context.Context, platform toolchain.Platform, version string) PlatformResult {
	result := PlatformResult{
		Platform: platform,
		State:    StatePending,
		Archive:  filepath.Join(b.config.OutputDir, ArchiveName(b.config.Product, platform, version)),
	}

	logger := logur.WithFields(b.logger, map[string]interface{}{"platform": platform.String()})

	artifact := platform.Executable(b.config.Product)
	artifactPath := filepath.Join(b.config.Dir, artifact)

	// A binary left over from an earlier run must never end up in an archive.
	if err := removeFile(artifactPath); err != nil {
		result.Err = &CompileError{Platform: platform, Err: err}

		return result
	}

	logger.Info("compiling", map[string]interface{}{"output": artifact})

	if err := b.compile(ctx, platform, artifact, artifactPath); err != nil {
		result.Err = err
		b.discard(artifactPath, logger)

		return result
	}

	result.State = StateCompiled

	logger.Info("archiving", map[string]interface{}{"archive": result.Archive})

	if err := b.archive(ctx, platform, result.Archive, artifact); err != nil {
		result.Err = err
		b.discard(artifactPath, logger)

		return result
	}

	result.State = StateArchived

	if err := cleanup(platform, artifactPath); err != nil {
		result.Err = err

		return result
	}

	result.State = StateCleaned

	logger.Info("platform released", map[string]interface{}{"archive": result.Archive})

	return result
}

func (b *Builder) compile(ctx context.Context, platform toolchain.Platform, artifact string, artifactPath string) error {
	cmd := toolchain.BuildCommand(toolchain.BuildOptions{
		Toolchain: b.config.Toolchain,
		Platform:  platform,
		Output:    artifact,
		Dir:       b.config.Dir,
		Env:       b.environ(),
	})

	res, err := b.runner.Run(ctx, cmd)
	if err != nil {
		return &CompileError{Platform: platform, Err: err}
	}

	if !res.Success() {
		return &CompileError{
			Platform: platform,
			ExitCode: res.ExitCode,
			Output:   string(res.Stderr),
		}
	}

	if _, err := os.Stat(artifactPath); err != nil {
		return &CompileError{
			Platform: platform,
			Output:   string(res.Stderr),
			Err:      errors.Wrap(errArtifactMissing, artifact),
		}
	}

	return nil
}

func (b *Builder) archive(ctx context.Context, platform toolchain.Platform, archive string, artifact string) error {
	archivePath := b.config.Path(archive)

	// zip adds to an existing archive instead of replacing it.
	if err := removeFile(archivePath); err != nil {
		return &ArchiveError{Platform: platform, Archive: archive, Err: err}
	}

	cmd := toolchain.ArchiveCommand(platform, archive, artifact, b.config.Dir)

	res, err := b.runner.Run(ctx, cmd)
	if err != nil {
		return &ArchiveError{Platform: platform, Archive: archive, Err: err}
	}

	if !res.Success() {
		return &ArchiveError{
			Platform: platform,
			Archive:  archive,
			ExitCode: res.ExitCode,
			Output:   strings.TrimSpace(string(res.Stderr) + "\n" + string(res.Stdout)),
		}
	}

	if _, err := os.Stat(archivePath); err != nil {
		return &ArchiveError{
			Platform: platform,
			Archive:  archive,
			Err:      errors.Wrap(errArtifactMissing, archive),
		}
	}

	return nil
}

// discard removes the binary of a failed platform.
func (b *Builder) discard(path string, logger logur.Logger) {
	if err := removeFile(path); err != nil {
		logger.Warn("failed to remove binary", map[string]interface{}{"path": path, "error": err.Error()})
	}
}

func cleanup(platform toolchain.Platform, path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errArtifactMissing
		}

		return &CleanupError{Platform: platform, Path: path, Err: err}
	}

	if !info.Mode().IsRegular() {
		return &CleanupError{Platform: platform, Path: path, Err: errors.Wrap(errNotRegular, info.Mode().String())}
	}

	if err := os.Remove(path); err != nil {
		return &CleanupError{Platform: platform, Path: path, Err: err}
	}

	return nil
}

// removeFile removes path if it is a regular file.
// Anything else found at path (directories, symlinks, devices) is left untouched and reported.
func removeFile(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.WithStack(err)
	}

	if !info.Mode().IsRegular() {
		return errors.Wrapf(errNotRegular, "%s (%s)", path, info.Mode().String())
	}

	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}

	return nil
}
