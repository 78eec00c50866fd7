package checksum

// Index indexes checksums by file name.
type Index map[string]string

// Sum returns the checksum of a file.
func (i Index) Sum(name string) string {
	return i[name]
}

// Entries returns the indexed checksums in name order.
func (i Index) Entries() []Entry {
	entries := make([]Entry, 0, len(i))

	for name, sum := range i {
		entries = append(entries, Entry{Name: name, Sum: sum})
	}

	return sortEntries(entries)
}

// CreateIndex creates a checksum index from a manifest.
// Later entries for the same name win.
func CreateIndex(file File) Index {
	index := make(Index, len(file.Entries))

	for _, entry := range file.Entries {
		index[entry.Name] = entry.Sum
	}

	return index
}
