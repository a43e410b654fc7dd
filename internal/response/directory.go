package response

import (
	"fmt"
	"html"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Brownie44l1/webserver/internal/resolve"
)

const invalidDirectory = "Invalid Directory!"

// Directory lists the immediate children of rp.AbsolutePath, one link per
// line, under a single Parent link. The status is 200 even when the directory
// cannot be read.
func (b *Builder) Directory(rp resolve.ResolvedPath) (*Response, error) {
	entries, err := os.ReadDir(rp.AbsolutePath)
	if err != nil {
		body := "<html><body><h1>" + invalidDirectory + "</h1></body></html>" + crlf
		return withBody(New(StatusOK), ContentTypeHTML, []byte(body), b.placeholderLength()),
			fmt.Errorf("list %s: %w", rp.AbsolutePath, err)
	}

	base := listingBase(rp.RelativePath)
	title := html.EscapeString(base)

	var sb strings.Builder
	sb.WriteString("<html><head><title>Index of " + title + "</title></head><body>" + crlf)
	sb.WriteString("<h1>Index of " + title + "</h1>" + crlf)
	fmt.Fprintf(&sb, "<a href=\"%s\">Parent</a><br>%s", hrefAttr(parentTarget(rp.RelativePath)), crlf)

	for _, entry := range entries {
		name := entry.Name()
		href := hrefAttr(base + name)
		label := html.EscapeString(name)

		if entry.IsDir() {
			fmt.Fprintf(&sb, "<a href=\"%s/\">%s/</a><br>%s", href, label, crlf)
			continue
		}

		size := "-"
		if info, err := entry.Info(); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		fmt.Fprintf(&sb, "<a href=\"%s\">%s</a> %s<br>%s", href, label, size, crlf)
	}
	sb.WriteString("</body></html>" + crlf)

	return withBody(New(StatusOK), ContentTypeHTML, []byte(sb.String()), b.placeholderLength()), nil
}

// hrefAttr turns a decoded server path into an attribute-safe URL path.
// Segments are escaped one by one so "?" and "#" in names stay in the path.
func hrefAttr(p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return html.EscapeString(strings.Join(segs, "/"))
}

// listingBase is the decoded URL prefix for children of rel, always slash terminated.
func listingBase(rel string) string {
	if rel == "." || rel == "" {
		return "/"
	}
	return "/" + rel + "/"
}

// parentTarget drops the last segment of rel. The root and anything directly
// under it lead back to the root listing.
func parentTarget(rel string) string {
	if rel == "." || rel == "" {
		return resolve.RootSentinel
	}
	parent := path.Dir(rel)
	if parent == "." || parent == "/" {
		return resolve.RootSentinel
	}
	return "/" + parent + "/"
}
