package release

import (
	"github.com/scylladb/go-set/strset"

	"github.com/sagikazarmark/gorelease/pkg/toolchain"
)

// defaultPlatforms is the release matrix, in build order.
var defaultPlatforms = []toolchain.Platform{
	{OS: "darwin", Arch: "amd64"},
	{OS: "darwin", Arch: "arm64"},
	{OS: "linux", Arch: "amd64"},
	{OS: "windows", Arch: "amd64"},
	{OS: "windows", Arch: "arm64"},
	{OS: "linux", Arch: "arm64"},
}

// DefaultPlatforms returns the default release matrix.
func DefaultPlatforms() []toolchain.Platform {
	platforms := make([]toolchain.Platform, len(defaultPlatforms))
	copy(platforms, defaultPlatforms)

	return platforms
}

// knownOSes is the list of GOOS values a release can target.
var knownOSes = strset.New(
	"aix",
	"android",
	"darwin",
	"dragonfly",
	"freebsd",
	"illumos",
	"ios",
	"js",
	"linux",
	"netbsd",
	"openbsd",
	"plan9",
	"solaris",
	"windows",
)

// ArchiveName returns the file name of the release archive of a platform.
func ArchiveName(product string, platform toolchain.Platform, version string) string {
	return product + "-" + platform.OS + "-" + platform.Arch + "-" + version + "." + toolchain.ArchiveExt(platform)
}
