// Package pathkey classifies source mapping keys as files or folders and
// decomposes the path separators embedded in them.
package pathkey

import (
	"strings"

	"github.com/mcncl/datapacker/internal/models"
)

// Separator splits a key into path segments.
const Separator = "/"

// Key is a mapping key read as a relative path.
type Key string

// Terminal returns the segment after the last separator, or the whole key.
func (k Key) Terminal() string {
	s := string(k)
	if i := strings.LastIndex(s, Separator); i >= 0 {
		return s[i+len(Separator):]
	}
	return s
}

// IsFile reports whether the terminal segment contains a ".".
func (k Key) IsFile() bool {
	return strings.Contains(k.Terminal(), ".")
}

// Split cuts the key at its first separator. top names the child of the
// current folder; rest holds the remaining segments outermost first and is
// empty when the key has no separator or nothing follows it.
func (k Key) Split() (top string, rest []string) {
	top, tail, found := strings.Cut(string(k), Separator)
	if !found || tail == "" {
		return top, nil
	}
	return top, strings.Split(tail, Separator)
}

// Wrap nests entry inside one single-child folder per segment of rest, so
// that rest ["b", "c"] yields Folder{b: Folder{c: entry}}. With no segments
// entry is returned unchanged.
func Wrap(entry *models.DirEntry, rest []string) *models.DirEntry {
	for i := len(rest) - 1; i >= 0; i-- {
		folder := models.NewFolder()
		folder.Put(rest[i], entry)
		entry = folder
	}
	return entry
}

// Resolve splits key and wraps entry, returning the name to insert under
// the current folder together with the wrapped entry.
func Resolve(key Key, entry *models.DirEntry) (string, *models.DirEntry) {
	top, rest := key.Split()
	return top, Wrap(entry, rest)
}
