package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the variant held by a SourceValue.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
	KindTagged
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindTagged:
		return "tagged"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// SourceValue is a node of the parsed source document.
//
// Which fields are meaningful depends on Kind: Scalar for bool, number and
// string values; Items for sequences; Pairs for mappings; Tag and Payload
// for tagged nodes.
type SourceValue struct {
	Kind    Kind
	Scalar  any
	Items   []SourceValue
	Pairs   []Pair
	Tag     string
	Payload *SourceValue
}

// Pair is a single mapping entry. Keys are usually strings but are kept as
// full values; duplicates are not removed.
type Pair struct {
	Key   SourceValue
	Value SourceValue
}

// Null returns the null value.
func Null() SourceValue {
	return SourceValue{Kind: KindNull}
}

// Bool wraps a boolean scalar.
func Bool(b bool) SourceValue {
	return SourceValue{Kind: KindBool, Scalar: b}
}

// Number wraps a numeric scalar (int, int64, uint64 or Float).
func Number(n any) SourceValue {
	return SourceValue{Kind: KindNumber, Scalar: n}
}

// String wraps a string scalar.
func String(s string) SourceValue {
	return SourceValue{Kind: KindString, Scalar: s}
}

// Sequence builds an ordered list.
func Sequence(items ...SourceValue) SourceValue {
	if items == nil {
		items = []SourceValue{}
	}
	return SourceValue{Kind: KindSequence, Items: items}
}

// Mapping builds an ordered mapping.
func Mapping(pairs ...Pair) SourceValue {
	if pairs == nil {
		pairs = []Pair{}
	}
	return SourceValue{Kind: KindMapping, Pairs: pairs}
}

// Entry is shorthand for a pair with a string key.
func Entry(key string, value SourceValue) Pair {
	return Pair{Key: String(key), Value: value}
}

// Tagged attaches tag to payload. The tag is stored without its leading "!".
func Tagged(tag string, payload SourceValue) SourceValue {
	return SourceValue{Kind: KindTagged, Tag: tag, Payload: &payload}
}

// AsString returns the string scalar and whether v is a string.
func (v SourceValue) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	s, ok := v.Scalar.(string)
	return s, ok
}

// IsTagged reports whether v carries a tag.
func (v SourceValue) IsTagged() bool {
	return v.Kind == KindTagged && v.Payload != nil
}

// Describe renders a short human-readable form for error messages.
func (v SourceValue) Describe() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool, KindNumber:
		return fmt.Sprintf("%v", v.Scalar)
	case KindString:
		return fmt.Sprintf("%q", v.Scalar)
	case KindTagged:
		return fmt.Sprintf("!%s %s", v.Tag, v.Payload.Describe())
	default:
		return v.Kind.String()
	}
}

// OutputValue is a JSON-shaped value produced by the transformer: nil, bool,
// a number, string, []any for arrays or *orderedmap.OrderedMap for objects.
type OutputValue = any

// EntryKind distinguishes folders from files in a DirEntry tree.
type EntryKind int

const (
	EntryFolder EntryKind = iota
	EntryFile
)

// DirEntry is the in-memory model of an output directory tree. A folder keeps
// its children in insertion order; a file holds its encoded content.
type DirEntry struct {
	Kind     EntryKind
	Names    []string
	Children map[string]*DirEntry
	Content  []byte
}

// NewFolder returns an empty folder.
func NewFolder() *DirEntry {
	return &DirEntry{
		Kind:     EntryFolder,
		Names:    []string{},
		Children: make(map[string]*DirEntry),
	}
}

// NewFile returns a file holding content.
func NewFile(content []byte) *DirEntry {
	return &DirEntry{Kind: EntryFile, Content: content}
}

// IsFolder reports whether d is a folder.
func (d *DirEntry) IsFolder() bool {
	return d.Kind == EntryFolder
}

// Put stores child under name. An existing child with the same name is
// replaced in full, keeping its original position. It reports whether a
// replacement happened.
func (d *DirEntry) Put(name string, child *DirEntry) bool {
	_, exists := d.Children[name]
	if !exists {
		d.Names = append(d.Names, name)
	}
	d.Children[name] = child
	return exists
}

// Child returns the child stored under name.
func (d *DirEntry) Child(name string) (*DirEntry, bool) {
	child, ok := d.Children[name]
	return child, ok
}

// Count returns the number of folders and files in the tree rooted at d,
// including d itself.
func (d *DirEntry) Count() (folders, files int) {
	if !d.IsFolder() {
		return 0, 1
	}
	folders = 1
	for _, name := range d.Names {
		fo, fi := d.Children[name].Count()
		folders += fo
		files += fi
	}
	return folders, files
}

// Float is a number written as a float in the source. It keeps a fractional
// part in JSON even when integral, so 1.0 stays 1.0.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(float64(f))
	if err != nil {
		return nil, err
	}
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, ".0"...)
	}
	return b, nil
}
