package version_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagikazarmark/gorelease/pkg/version"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Version.go")

	err := ioutil.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	return path
}

func TestRead(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		path := writeFile(t, "package cli\n\nconst Version = \"1.2.3-beta\"\n")

		v, err := version.Read(path)
		require.NoError(t, err)

		assert.Equal(t, "1.2.3-beta", v)
	})

	t.Run("FirstMatch", func(t *testing.T) {
		path := writeFile(t, "package cli\n\nconst Version = \"1.0.0\"\n\nvar OldVersion = \"0.9.0\"\n")

		v, err := version.Read(path)
		require.NoError(t, err)

		assert.Equal(t, "1.0.0", v)
	})

	t.Run("NotFound", func(t *testing.T) {
		path := writeFile(t, "package cli\n\nconst Name = \"infrasonar\"\n")

		v, err := version.Read(path)
		require.Error(t, err)

		assert.Equal(t, "", v)
		assert.True(t, errors.Is(err, version.ErrNotFound))

		var nfErr *version.NotFoundError
		require.True(t, errors.As(err, &nfErr))
		assert.Equal(t, path, nfErr.Path)
	})

	t.Run("InvalidCharacters", func(t *testing.T) {
		path := writeFile(t, "package cli\n\nconst Version = \"1.2.3_RC1\"\n")

		_, err := version.Read(path)

		assert.True(t, errors.Is(err, version.ErrNotFound))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := version.Read(filepath.Join(t.TempDir(), "nope.go"))
		require.Error(t, err)

		assert.False(t, errors.Is(err, version.ErrNotFound))
	})
}

func TestParse(t *testing.T) {
	tests := map[string]string{
		`Version = "1.2.3"`:                "1.2.3",
		`const Version = "2.0.0-rc.1"`:     "2.0.0-rc.1",
		"var (\n\tVersion = \"0.1.0a\"\n)": "0.1.0a",
	}

	for content, want := range tests {
		content, want := content, want

		t.Run(want, func(t *testing.T) {
			got, err := version.Parse([]byte(content))
			require.NoError(t, err)

			if got != want {
				t.Errorf("unexpected version\nactual:   %q\nexpected: %q", got, want)
			}
		})
	}
}
