package checksum

import (
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Update writes entries into the manifest at path.
//
// Entries already present in an existing manifest are kept unless entries
// contains a checksum for the same name. Unparsable lines of the existing
// manifest are dropped and returned so the caller can report them.
func Update(path string, entries []Entry) ([]Error, error) {
	index := Index{}

	var parseErrs []Error

	data, err := ioutil.ReadFile(path)
	switch {
	case err == nil:
		file := Parse(data)
		index = CreateIndex(file)
		parseErrs = file.Errors

	case os.IsNotExist(err):

	default:
		return nil, errors.Wrap(err, "read checksum manifest")
	}

	for _, entry := range entries {
		index[entry.Name] = entry.Sum
	}

	err = ioutil.WriteFile(path, Format(index.Entries()), 0644)
	if err != nil {
		return parseErrs, errors.Wrap(err, "write checksum manifest")
	}

	return parseErrs, nil
}

// ManifestName returns the name of the checksum manifest of a release.
func ManifestName(product string, version string) string {
	return strings.Join([]string{product, version, "checksums.txt"}, "-")
}
