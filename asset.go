package lpedit

import (
	"net/url"
	"path"
	"strings"
)

// AssetRef describes the asset an image block points at.
type AssetRef struct {
	// Path is the archive path for local references, or the raw URL for
	// external ones.
	Path       string `json:"path"`
	IsExternal bool   `json:"isExternal"`
	MIMEType   string `json:"mimeType"`
}

// RefKind classifies a URL found in a document.
type RefKind int

// Reference kinds.
const (
	// RefIgnored covers references that name no asset at all: empty values,
	// fragment-only links and javascript: URLs.
	RefIgnored RefKind = iota
	RefExternal
	RefLocal
)

// ClassifyRef reports whether ref is external, local to the bundle, or not an
// asset reference at all.
func ClassifyRef(ref string) RefKind {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	switch {
	case ref == "", strings.HasPrefix(ref, "#"), strings.HasPrefix(lower, "javascript:"):
		return RefIgnored
	case IsExternalURL(ref):
		return RefExternal
	default:
		return RefLocal
	}
}

// IsExternalURL reports whether ref must be left untouched: protocol-relative,
// http(s), data, mailto and tel URLs.
func IsExternalURL(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(lower, "//") ||
		strings.HasPrefix(lower, "http:") ||
		strings.HasPrefix(lower, "https:") ||
		strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:")
}

// ResolveAssetPath resolves a local reference against the directory of the
// entry HTML and returns the archive path it names. Query strings and
// fragments are dropped, root-relative references resolve against the archive
// root, and ".." never climbs above it.
func ResolveAssetPath(baseDir, ref string) (string, bool) {
	if ClassifyRef(ref) != RefLocal {
		return "", false
	}

	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" {
		return "", false
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""

	base := &url.URL{Path: "/"}
	if dir := strings.Trim(baseDir, "/"); dir != "" && dir != "." {
		base.Path = "/" + dir + "/"
	}

	resolved := base.ResolveReference(u).Path
	p := strings.TrimPrefix(resolved, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		return "", false
	}
	return p, true
}

// NewAssetRef classifies src the same way the asset scanner does and derives a
// best-effort MIME type from its extension.
func NewAssetRef(baseDir, src string) AssetRef {
	src = strings.TrimSpace(src)
	if IsExternalURL(src) {
		return AssetRef{Path: src, IsExternal: true, MIMEType: MIMEType(src)}
	}
	if p, ok := ResolveAssetPath(baseDir, src); ok {
		return AssetRef{Path: p, MIMEType: MIMEType(p)}
	}
	return AssetRef{Path: src, MIMEType: MIMEType(src)}
}

// MIMEType returns the MIME type for an asset path based on its extension.
// Unknown extensions map to application/octet-stream.
func MIMEType(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// BaseDir returns the directory part of an archive path, or "" for files at
// the archive root.
func BaseDir(p string) string {
	dir := path.Dir(NormalizePath(p))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// AssetScan is the outcome of scanning one document for asset references.
// Every local reference lands in exactly one of Present or Missing, once per
// case-insensitive path. External references are only counted.
type AssetScan struct {
	Present  []Diagnostic
	Missing  []Diagnostic
	External int
}

// AssetScanner enumerates the assets a document needs.
type AssetScanner interface {
	// ScanAssets checks every local reference in html against the assets the
	// project can resolve. It never fails because an asset is missing.
	ScanAssets(project *ImportProject, html string) (*AssetScan, error)
}
