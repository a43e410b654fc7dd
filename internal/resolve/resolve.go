// Package resolve classifies request targets and maps them onto the server root.
//
// Resolve expects the request line to have been rejected already if it contained
// "..". It still reports Invalid for such targets, but it does not attempt to
// clean them, so callers must not skip request.ParseRequestLine.
package resolve

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

type Category int

const (
	Invalid Category = iota
	Empty
	Favicon
	Directory
	CGI
	File
)

var categoryNames = map[Category]string{
	Invalid:   "INVALID",
	Empty:     "EMPTY",
	Favicon:   "FAVICON",
	Directory: "DIRECTORY",
	CGI:       "CGI",
	File:      "FILE",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// RootSentinel is the target that lists the server root itself. It contains
// "./", so it always classifies as a directory.
const RootSentinel = "/./"

// DefaultExtension is assumed for file targets that have none.
const DefaultExtension = "txt"

// ResolvedPath is the outcome of classifying one target.
type ResolvedPath struct {
	Category     Category
	Target       string // as received, query string included
	RelativePath string // slash separated, relative to root
	AbsolutePath string // empty for categories that never touch the filesystem
	Extension    string // lower case, without the dot; files only
}

// Resolve classifies target and maps it under root. First match wins.
func Resolve(target, root string) ResolvedPath {
	rp := ResolvedPath{Target: target}
	trimmed := strings.TrimSpace(target)

	switch {
	case strings.Contains(target, ".."):
		rp.Category = Invalid
		return rp
	case len(trimmed) <= 1:
		rp.Category = Empty
		return rp
	case strings.Contains(target, "/favicon.ico"):
		rp.Category = Favicon
		return rp
	case !strings.Contains(target, ".") ||
		strings.Contains(target, "./") ||
		strings.HasSuffix(trimmed, "/"):
		rp.Category = Directory
	case strings.Contains(target, "/cgi/"):
		rp.Category = CGI
	default:
		rp.Category = File
	}

	rel, ok := relative(trimmed)
	if !ok {
		return ResolvedPath{Category: Invalid, Target: target}
	}
	rp.RelativePath = rel

	switch rp.Category {
	case Directory:
		rp.AbsolutePath = under(root, rel)
	case File:
		rp.AbsolutePath = under(root, rel)
		rp.Extension = extension(rel)
	}
	return rp
}

// relative strips the query string and leading slashes, decodes percent
// escapes and cleans "./" segments. The root itself comes back as ".".
// Targets that only reach a parent directory once decoded are refused.
func relative(target string) (string, bool) {
	p, _, _ := strings.Cut(target, "?")
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	if strings.Contains(p, "..") {
		return "", false
	}
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return ".", true
	}
	return path.Clean(p), true
}

func under(root, rel string) string {
	if rel == "." {
		return filepath.Clean(root)
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

func extension(rel string) string {
	ext := strings.TrimPrefix(path.Ext(rel), ".")
	if ext == "" {
		return DefaultExtension
	}
	return strings.ToLower(ext)
}

// IsHTML reports whether ext gets the text/html content type. Everything else
// is served as text/plain.
func IsHTML(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == "html" || ext == "htm"
}
