package lpedit

import (
	"context"
	"sort"
	"strings"
)

// ArchiveEntry is a single non-directory entry read from an uploaded bundle.
type ArchiveEntry struct {
	Path string
	Data []byte
}

// ArchiveReader reads the raw entries of a bundle.
// Implementations hide the container format (zip, tar, directory, ...).
type ArchiveReader interface {
	// ReadArchive returns every non-directory entry of the archive at path.
	// Returns ENOTFOUND if the archive does not exist and EINVALID if it
	// cannot be decoded.
	ReadArchive(ctx context.Context, path string) ([]ArchiveEntry, error)
}

// ImportedFile is one file of an imported bundle. It is immutable once loaded.
type ImportedFile struct {
	Path string `json:"path"`
	Data []byte `json:"-"`
}

// ImportSession holds the normalized contents of one uploaded bundle.
// It is read-only after construction and may be shared between projects.
type ImportSession struct {
	SourceArchivePath string
	Files             map[string]*ImportedFile
	HTMLEntries       []string

	// lower-cased path -> key in Files
	folded map[string]string
}

// NewImportSession normalizes raw archive entries into a session.
//
// Paths are converted to forward slashes, empty and directory-only entries are
// skipped, and a single top-level directory shared by every entry is stripped.
// HTML candidates (.html, .htm) are returned sorted case-insensitively.
func NewImportSession(sourcePath string, entries []ArchiveEntry) *ImportSession {
	type retained struct {
		path string
		data []byte
	}

	var kept []retained
	for _, e := range entries {
		p := NormalizePath(e.Path)
		if p == "" || strings.HasSuffix(e.Path, "/") || strings.HasSuffix(e.Path, `\`) {
			continue
		}
		kept = append(kept, retained{path: p, data: e.Data})
	}

	prefix := sharedRoot(kept, func(r retained) string { return r.path })

	s := &ImportSession{
		SourceArchivePath: sourcePath,
		Files:             make(map[string]*ImportedFile, len(kept)),
	}
	for _, r := range kept {
		p := strings.TrimPrefix(r.path, prefix)
		if p == "" {
			continue
		}
		if _, dup := s.Files[p]; !dup && IsHTMLPath(p) {
			s.HTMLEntries = append(s.HTMLEntries, p)
		}
		s.Files[p] = &ImportedFile{Path: p, Data: r.data}
	}
	s.folded = foldIndex(s.Files)
	sortFold(s.HTMLEntries)

	return s
}

// Lookup returns the file at path. An exact match wins; otherwise paths are
// compared case-insensitively.
func (s *ImportSession) Lookup(path string) (*ImportedFile, bool) {
	return lookupFile(s.Files, s.folded, NormalizePath(path))
}

// NormalizePath converts an archive path to the canonical form used as a map
// key: forward slashes, no leading "./" or "/".
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	for {
		switch {
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		case strings.HasPrefix(p, "/"):
			p = p[1:]
		default:
			return p
		}
	}
}

// IsHTMLPath reports whether p names an HTML document.
func IsHTMLPath(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

// sharedRoot returns "<segment>/" when every item lives below the same
// top-level directory, or "" otherwise.
func sharedRoot[T any](items []T, pathOf func(T) string) string {
	if len(items) == 0 {
		return ""
	}
	var root string
	for i, item := range items {
		p := pathOf(item)
		idx := strings.Index(p, "/")
		if idx <= 0 {
			return ""
		}
		seg := p[:idx+1]
		if i == 0 {
			root = seg
		} else if seg != root {
			return ""
		}
	}
	return root
}

func sortFold(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := strings.ToLower(paths[i]), strings.ToLower(paths[j])
		if a != b {
			return a < b
		}
		return paths[i] < paths[j]
	})
}

func lookupFile(files map[string]*ImportedFile, folded map[string]string, p string) (*ImportedFile, bool) {
	if f, ok := files[p]; ok {
		return f, true
	}
	if key, ok := folded[strings.ToLower(p)]; ok {
		f, ok := files[key]
		return f, ok
	}
	return nil, false
}

func foldIndex(files map[string]*ImportedFile) map[string]string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	folded := make(map[string]string, len(keys))
	for _, k := range keys {
		if _, ok := folded[strings.ToLower(k)]; !ok {
			folded[strings.ToLower(k)] = k
		}
	}
	return folded
}
