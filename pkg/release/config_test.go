package release

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagikazarmark/gorelease/pkg/toolchain"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "go", config.Toolchain)
	assert.Equal(t, "cli/Version.go", config.VersionFile)
	assert.Equal(t, "target", config.OutputDir)
	assert.Equal(t, defaultPlatforms, config.Platforms)
	assert.False(t, config.Checksums)
	assert.False(t, config.FailFast)

	// Modifying the config must not affect the defaults.
	config.Platforms[0].OS = "plan9"
	assert.Equal(t, "darwin", defaultPlatforms[0].OS)
}

func TestConfig_LoadFile(t *testing.T) {
	t.Run("Overlay", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "release.yaml")
		content := `
product: infrasonar
version_file: version.go
platforms:
  - linux/amd64
  - solaris/amd64
checksums: true
`
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))

		config := DefaultConfig()
		config.FailFast = true

		err := config.LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "infrasonar", config.Product)
		assert.Equal(t, "version.go", config.VersionFile)
		assert.Equal(t, "target", config.OutputDir)
		assert.Equal(t, "go", config.Toolchain)
		assert.Equal(t, []toolchain.Platform{{OS: "linux", Arch: "amd64"}, {OS: "solaris", Arch: "amd64"}}, config.Platforms)
		assert.True(t, config.Checksums)
		assert.True(t, config.FailFast)
	})

	t.Run("Empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "release.yaml")
		require.NoError(t, ioutil.WriteFile(path, []byte("# nothing here\n"), 0644))

		config := DefaultConfig()

		err := config.LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("UnknownField", func(t *testing.T) {
		config := DefaultConfig()

		err := config.load([]byte("produkt: infrasonar\n"))

		assert.Error(t, err)
	})

	t.Run("InvalidPlatform", func(t *testing.T) {
		config := DefaultConfig()

		err := config.load([]byte("platforms: [linux]\n"))

		assert.Error(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		config := DefaultConfig()

		err := config.LoadFile(filepath.Join(t.TempDir(), "release.yaml"))

		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		config := DefaultConfig()
		config.Product = "infrasonar"
		config.Dir = "/src"

		return config
	}

	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"NoProduct":     func(c *Config) { c.Product = "" },
		"ProductPath":   func(c *Config) { c.Product = "bin/infrasonar" },
		"NoDir":         func(c *Config) { c.Dir = "" },
		"NoVersionFile": func(c *Config) { c.VersionFile = "" },
		"NoOutputDir":   func(c *Config) { c.OutputDir = "" },
		"NoPlatforms":   func(c *Config) { c.Platforms = nil },
		"UnknownOS":     func(c *Config) { c.Platforms = append(c.Platforms, toolchain.Platform{OS: "beos", Arch: "amd64"}) },
		"NoArch":        func(c *Config) { c.Platforms = append(c.Platforms, toolchain.Platform{OS: "linux"}) },
		"Duplicate":     func(c *Config) { c.Platforms = append(c.Platforms, toolchain.Platform{OS: "linux", Arch: "amd64"}) },
		"DotProduct":    func(c *Config) { c.Product = "." },
		"DotDotProduct": func(c *Config) { c.Product = ".." },
		"OutputProduct": func(c *Config) { c.Product = "target" },
		"OutputPath":    func(c *Config) { c.Product = "dist"; c.OutputDir = "./dist/" },
		"AbsOutput":     func(c *Config) { c.Product = "dist"; c.OutputDir = "/src/dist" },
	}

	for name, modify := range tests {
		modify := modify

		t.Run(name, func(t *testing.T) {
			config := valid()
			modify(&config)

			assert.Error(t, config.Validate())
		})
	}
}

func TestConfig_Path(t *testing.T) {
	config := DefaultConfig()
	config.Dir = "/src"

	assert.Equal(t, filepath.Join("/src", "target"), config.Path("target"))
	assert.Equal(t, "/var/dist", config.Path("/var/dist"))

	config.Product = "infrasonar"
	config.OutputDir = "/var/dist"
	assert.NoError(t, config.Validate())
}

func TestArchiveName(t *testing.T) {
	tests := []struct {
		platform toolchain.Platform
		want     string
	}{
		{toolchain.Platform{OS: "linux", Arch: "amd64"}, "infrasonar-linux-amd64-1.2.3.tar.gz"},
		{toolchain.Platform{OS: "darwin", Arch: "arm64"}, "infrasonar-darwin-arm64-1.2.3.tar.gz"},
		{toolchain.Platform{OS: "windows", Arch: "arm64"}, "infrasonar-windows-arm64-1.2.3.zip"},
	}

	for _, test := range tests {
		if got := ArchiveName("infrasonar", test.platform, "1.2.3"); got != test.want {
			t.Errorf("unexpected archive name\nactual:   %q\nexpected: %q", got, test.want)
		}
	}
}
