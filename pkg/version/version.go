// Package version extracts a release version from a Go source file.
//
// The file is expected to contain a declaration of the form:
//
//	Version = "1.2.3"
//
// where the value is limited to digits, lowercase letters, dots and hyphens.
package version

import (
	"io/ioutil"
	"regexp"

	"github.com/pkg/errors"
)

var versionRegexp = regexp.MustCompile(`Version\s=\s"([0-9a-z.\-]+)"`)

// ErrNotFound is returned (wrapped in a NotFoundError) when no version declaration is present.
var ErrNotFound = errors.New("version declaration not found")

// NotFoundError is returned when a file does not contain a version declaration.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path == "" {
		return ErrNotFound.Error()
	}

	return ErrNotFound.Error() + " in " + e.Path
}

// Is makes NotFoundError match ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Parse returns the first version declared in content.
func Parse(content []byte) (string, error) {
	m := versionRegexp.FindSubmatch(content)
	if m == nil {
		return "", &NotFoundError{}
	}

	return string(m[1]), nil
}

// Read reads a file and returns the first version declared in it.
func Read(path string) (string, error) {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "read version file")
	}

	v, err := Parse(content)
	if err != nil {
		return "", &NotFoundError{Path: path}
	}

	return v, nil
}
