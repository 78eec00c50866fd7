package release

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/scylladb/go-set/strset"
	"gopkg.in/yaml.v3"

	"github.com/sagikazarmark/gorelease/pkg/toolchain"
)

// Config describes a release.
type Config struct {
	// Product is the name of the binary and the archive prefix.
	Product string

	// Toolchain is the Go binary used for compiling.
	Toolchain string

	// VersionFile is the file declaring the version, relative to Dir.
	VersionFile string

	// OutputDir receives the archives. A relative path is relative to Dir. It must exist.
	OutputDir string

	// Dir is the working directory of every external tool.
	Dir string

	Platforms []toolchain.Platform

	// Checksums enables writing a checksum manifest next to the archives.
	Checksums bool

	// FailFast stops the matrix at the first failed platform.
	FailFast bool
}

// DefaultConfig returns a Config with default values.
// Product and Dir have no default.
func DefaultConfig() Config {
	return Config{
		Toolchain:   toolchain.DefaultGo,
		VersionFile: "cli/Version.go",
		OutputDir:   "target",
		Platforms:   DefaultPlatforms(),
	}
}

type fileConfig struct {
	Product     string   `yaml:"product"`
	Toolchain   string   `yaml:"toolchain"`
	VersionFile string   `yaml:"version_file"`
	OutputDir   string   `yaml:"output_dir"`
	Dir         string   `yaml:"dir"`
	Platforms   []string `yaml:"platforms"`
	Checksums   *bool    `yaml:"checksums"`
	FailFast    *bool    `yaml:"fail_fast"`
}

// LoadFile overlays the values set in a YAML config file.
func (c *Config) LoadFile(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}

	return errors.WithMessagef(c.load(data), "config file %s", path)
}

func (c *Config) load(data []byte) error {
	var file fileConfig

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	// An empty document decodes to io.EOF
	if err := decoder.Decode(&file); err != nil && err != io.EOF {
		return errors.Wrap(err, "decode config")
	}

	if file.Product != "" {
		c.Product = file.Product
	}

	if file.Toolchain != "" {
		c.Toolchain = file.Toolchain
	}

	if file.VersionFile != "" {
		c.VersionFile = file.VersionFile
	}

	if file.OutputDir != "" {
		c.OutputDir = file.OutputDir
	}

	if file.Dir != "" {
		c.Dir = file.Dir
	}

	if file.Platforms != nil {
		platforms, err := ParsePlatforms(file.Platforms)
		if err != nil {
			return err
		}

		c.Platforms = platforms
	}

	if file.Checksums != nil {
		c.Checksums = *file.Checksums
	}

	if file.FailFast != nil {
		c.FailFast = *file.FailFast
	}

	return nil
}

// ParsePlatforms parses a list of "os/arch" pairs.
func ParsePlatforms(list []string) ([]toolchain.Platform, error) {
	platforms := make([]toolchain.Platform, 0, len(list))

	for _, s := range list {
		platform, err := toolchain.ParsePlatform(s)
		if err != nil {
			return nil, err
		}

		platforms = append(platforms, platform)
	}

	return platforms, nil
}

// Path resolves a path relative to the working directory.
// Absolute paths are returned unchanged.
func (c Config) Path(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(c.Dir, path)
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Product == "" {
		return errors.New("product name is required")
	}

	if strings.ContainsAny(c.Product, `/\`) {
		return errors.Errorf("product name %q must not contain path separators", c.Product)
	}

	if c.Product == "." || c.Product == ".." {
		return errors.Errorf("invalid product name %q", c.Product)
	}

	if c.Dir == "" {
		return errors.New("working directory is required")
	}

	if c.VersionFile == "" {
		return errors.New("version file is required")
	}

	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}

	// The binary is written into Dir, so it must not shadow the output directory.
	if filepath.Clean(c.Path(c.OutputDir)) == filepath.Join(c.Dir, c.Product) {
		return errors.Errorf("product name %q collides with the output directory", c.Product)
	}

	if len(c.Platforms) == 0 {
		return errors.New("at least one platform is required")
	}

	seen := strset.New()

	for _, platform := range c.Platforms {
		if !knownOSes.Has(platform.OS) {
			return errors.Errorf("unknown operating system %q in platform %s", platform.OS, platform)
		}

		if platform.Arch == "" {
			return errors.Errorf("missing architecture for %s", platform.OS)
		}

		if seen.Has(platform.String()) {
			return errors.Errorf("duplicate platform %s", platform)
		}

		seen.Add(platform.String())
	}

	return nil
}
