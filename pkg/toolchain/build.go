package toolchain

import (
	"strings"
)

// DefaultGo is the Go toolchain binary used when none is configured.
const DefaultGo = "go"

var platformEnvKeys = []string{"GOOS", "GOARCH", "CGO_ENABLED"}

// BuildEnv returns base with the target platform overrides applied.
//
// Existing GOOS, GOARCH and CGO_ENABLED entries are dropped from base.
// Cgo is always disabled, so binaries are self-contained.
func BuildEnv(base []string, platform Platform) []string {
	env := make([]string, 0, len(base)+len(platformEnvKeys))

EnvLoop:
	for _, kv := range base {
		for _, key := range platformEnvKeys {
			if strings.HasPrefix(kv, key+"=") {
				continue EnvLoop
			}
		}

		env = append(env, kv)
	}

	return append(env, "GOOS="+platform.OS, "GOARCH="+platform.Arch, "CGO_ENABLED=0")
}

// BuildOptions customizes a go build invocation.
type BuildOptions struct {
	Toolchain string
	Platform  Platform
	Output    string
	Dir       string
	Env       []string
}

// GetToolchain returns the toolchain defined in the options,
// falling back to DefaultGo.
func (o BuildOptions) GetToolchain() string {
	if o.Toolchain == "" {
		return DefaultGo
	}

	return o.Toolchain
}

// BuildCommand returns a reproducible-path go build command for the options.
func BuildCommand(options BuildOptions) Command {
	return Command{
		Name: options.GetToolchain(),
		Args: []string{"build", "-trimpath", "-o", options.Output},
		Dir:  options.Dir,
		Env:  BuildEnv(options.Env, options.Platform),
	}
}

// ArchiveCommand returns the command packaging file into archive for the platform.
//
// Windows targets are zipped, every other target is packed into a gzipped tarball.
func ArchiveCommand(platform Platform, archive string, file string, dir string) Command {
	if platform.OS == "windows" {
		return Command{
			Name: "zip",
			Args: []string{"-r", archive, file},
			Dir:  dir,
		}
	}

	return Command{
		Name: "tar",
		Args: []string{"-zcf", archive, file},
		Dir:  dir,
	}
}

// ArchiveExt returns the archive file extension for the platform.
func ArchiveExt(platform Platform) string {
	if platform.OS == "windows" {
		return "zip"
	}

	return "tar.gz"
}
