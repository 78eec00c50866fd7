// Package checksum reads and writes sha256sum compatible checksum manifests.
//
// Each line of a manifest has the form:
//
//	<hex digest>  <file name>
//
// A '*' in front of the file name (binary mode marker) is accepted and dropped.
// The file name is the rest of the line and may contain spaces.
package checksum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// File is the parsed form of a checksum manifest.
type File struct {
	Entries []Entry

	Errors []Error
}

// Entry is a single file checksum.
type Entry struct {
	Name string
	Sum  string
}

// Error represents an error occurred when parsing a specific line of the manifest.
type Error struct {
	Pos int    // position of error (line)
	Err string // the error itself
}

// Parse parses the data into a File struct.
// Invalid lines are skipped and recorded in File.Errors.
func Parse(data []byte) File {
	var file File

	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		sum, name, ok := splitLine(line)
		if !ok {
			file.Errors = append(file.Errors, Error{
				Pos: i + 1,
				Err: "missing digest separator",
			})

			continue
		}

		if _, err := hex.DecodeString(sum); err != nil || len(sum) != sha256.Size*2 {
			file.Errors = append(file.Errors, Error{
				Pos: i + 1,
				Err: "invalid sha256 digest",
			})

			continue
		}

		file.Entries = append(file.Entries, Entry{Name: name, Sum: strings.ToLower(sum)})
	}

	return file
}

// splitLine splits a line at the first "  " (text mode) or " *" (binary mode) separator.
func splitLine(line string) (sum string, name string, ok bool) {
	i := strings.IndexByte(line, ' ')
	if i <= 0 || i+2 >= len(line) {
		return "", "", false
	}

	if mode := line[i+1]; mode != ' ' && mode != '*' {
		return "", "", false
	}

	return line[:i], line[i+2:], true
}

// Format renders the entries sorted by name.
func Format(entries []Entry) []byte {
	var buf bytes.Buffer

	for _, entry := range sortEntries(entries) {
		buf.WriteString(entry.Sum)
		buf.WriteString("  ")
		buf.WriteString(entry.Name)
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

func sortEntries(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	return sorted
}

// Sum calculates the hex encoded SHA-256 digest of a file.
func Sum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", errors.Wrapf(err, "hash %s", path)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
