package scan

import "strings"

// Kind classifies a scanned entry.
type Kind int

const (
	// Folder is a directory that contains, transitively, at least one qualifying source file.
	Folder Kind = iota
	// File is a qualifying source file with its extension stripped.
	File
)

func (k Kind) String() string {
	switch k {
	case Folder:
		return "folder"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// Entry is one node of the documented hierarchy.
type Entry struct {
	// Name is the dotted path from the scan root ("a.b.fn").
	Name string
	Kind Kind
}

// Depth is the number of dot separators in the name; top-level entries have depth 0.
func (e Entry) Depth() int {
	return strings.Count(e.Name, ".")
}

// IsChildOf reports whether e sits exactly one level below the dotted name parent.
func (e Entry) IsChildOf(parent string) bool {
	return strings.HasPrefix(e.Name, parent+".") &&
		e.Depth() == strings.Count(parent, ".")+1
}

// Children returns the direct children of parent with the given kind, preserving input order.
func Children(entries []Entry, parent string, kind Kind) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Kind == kind && e.IsChildOf(parent) {
			out = append(out, e)
		}
	}
	return out
}

// TopLevel returns the names of folders that have no parent.
func TopLevel(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		if e.Kind == Folder && !strings.Contains(e.Name, ".") {
			out = append(out, e.Name)
		}
	}
	return out
}

// Folders returns every folder entry, preserving input order.
func Folders(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Kind == Folder {
			out = append(out, e)
		}
	}
	return out
}

// Names projects entries onto their dotted names.
func Names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

// Count returns the number of folders and files.
func Count(entries []Entry) (folders, files int) {
	for _, e := range entries {
		switch e.Kind {
		case Folder:
			folders++
		case File:
			files++
		}
	}
	return folders, files
}
