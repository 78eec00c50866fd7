package toolchain

import (
	"strings"

	"github.com/pkg/errors"
)

// Platform represents a single build target platform.
type Platform struct {
	OS   string
	Arch string
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}

// ExeSuffix returns the executable suffix required by the platform.
func (p Platform) ExeSuffix() string {
	if p.OS == "windows" {
		return ".exe"
	}

	return ""
}

// Executable returns the name of an executable built for the platform.
func (p Platform) Executable(name string) string {
	return name + p.ExeSuffix()
}

// ParsePlatform parses an "os/arch" pair.
func ParsePlatform(s string) (Platform, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Platform{}, errors.Errorf("invalid platform %q: expected os/arch", s)
	}

	return Platform{OS: parts[0], Arch: parts[1]}, nil
}
