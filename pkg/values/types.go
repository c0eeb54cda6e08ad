// Package values reads and writes the daemon's Name=Value configuration
// files, keeping comments and line order intact across edits.
package values

import (
	"strings"

	"github.com/nzbgetcom/webconf/pkg/schema"
)

// LineKind distinguishes the lines of a values file
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineEntry
)

// Line is one line of a values file
type Line struct {
	Kind  LineKind
	Text  string // raw text of blank and comment lines
	Name  string
	Value string
}

// File represents a parsed values file
type File struct {
	Lines []*Line
}

// NewFile creates a new empty file
func NewFile() *File {
	return &File{
		Lines: make([]*Line, 0),
	}
}

// FromValues creates a file holding values in order
func FromValues(values []schema.Value) *File {
	f := NewFile()
	for _, v := range values {
		f.Set(v.Name, v.Value)
	}
	return f
}

// Values returns the entries in file order
func (f *File) Values() []schema.Value {
	values := make([]schema.Value, 0, len(f.Lines))
	for _, l := range f.Lines {
		if l.Kind == LineEntry {
			values = append(values, schema.Value{Name: l.Name, Value: l.Value})
		}
	}
	return values
}

// Get finds an entry by case-insensitive name
func (f *File) Get(name string) (string, bool) {
	if l := f.entry(name); l != nil {
		return l.Value, true
	}
	return "", false
}

// Set updates an existing entry or appends a new one
func (f *File) Set(name, value string) {
	if l := f.entry(name); l != nil {
		l.Value = value
		return
	}
	f.Lines = append(f.Lines, &Line{Kind: LineEntry, Name: name, Value: value})
}

// Delete removes an entry, reporting whether it existed
func (f *File) Delete(name string) bool {
	for i, l := range f.Lines {
		if l.Kind == LineEntry && strings.EqualFold(l.Name, name) {
			f.Lines = append(f.Lines[:i], f.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Apply makes the entries match values: existing names are updated in
// place, new names are appended and names missing from values are removed.
// Comments and blank lines stay where they are.
func (f *File) Apply(values []schema.Value) {
	keep := make(map[string]bool, len(values))
	for _, v := range values {
		keep[strings.ToLower(v.Name)] = true
	}

	lines := f.Lines[:0]
	for _, l := range f.Lines {
		if l.Kind != LineEntry || keep[strings.ToLower(l.Name)] {
			lines = append(lines, l)
		}
	}
	f.Lines = lines

	for _, v := range values {
		f.Set(v.Name, v.Value)
	}
}

// Merge updates and appends values without removing anything
func (f *File) Merge(values []schema.Value) {
	for _, v := range values {
		f.Set(v.Name, v.Value)
	}
}

func (f *File) entry(name string) *Line {
	for _, l := range f.Lines {
		if l.Kind == LineEntry && strings.EqualFold(l.Name, name) {
			return l
		}
	}
	return nil
}
