package resolve

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyTargets(t *testing.T) {
	root := t.TempDir()

	assert.Equal(t, Empty, Resolve("/", root).Category)
	assert.Equal(t, Empty, Resolve("", root).Category)
	assert.Equal(t, Empty, Resolve(" / ", root).Category)
	assert.Empty(t, Resolve("/", root).AbsolutePath)
}

func TestFavicon(t *testing.T) {
	rp := Resolve("/favicon.ico", "/does/not/exist")

	assert.Equal(t, Favicon, rp.Category)
	assert.Empty(t, rp.AbsolutePath)
}

func TestDirectoryTargets(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		target string
		rel    string
	}{
		{"/docs", "docs"},
		{"/docs/", "docs"},
		{"/v1.2/", "v1.2"},
		{"/a/./b.txt", "a/b.txt"},
		{RootSentinel, "."},
	}
	for _, tt := range tests {
		rp := Resolve(tt.target, root)
		require.Equal(t, Directory, rp.Category, tt.target)
		assert.Equal(t, tt.rel, rp.RelativePath, tt.target)
	}

	assert.Equal(t, filepath.Clean(root), Resolve(RootSentinel, root).AbsolutePath)
	assert.Equal(t, filepath.Join(root, "docs"), Resolve("/docs/", root).AbsolutePath)
}

func TestCGITargets(t *testing.T) {
	rp := Resolve("/cgi/addnums.fake-cgi?person=Ada&num1=4&num2=5", "/srv")

	assert.Equal(t, CGI, rp.Category)
	assert.Equal(t, "cgi/addnums.fake-cgi", rp.RelativePath)
	assert.Empty(t, rp.AbsolutePath)
}

func TestFileTargets(t *testing.T) {
	root := t.TempDir()

	rp := Resolve("/index.HTML", root)
	assert.Equal(t, File, rp.Category)
	assert.Equal(t, filepath.Join(root, "index.HTML"), rp.AbsolutePath)
	assert.Equal(t, "html", rp.Extension)

	rp = Resolve("/notes/todo.txt?download=1", root)
	assert.Equal(t, File, rp.Category)
	assert.Equal(t, filepath.Join(root, "notes", "todo.txt"), rp.AbsolutePath)

	// The dot lives in a directory name, so the file itself has no extension.
	rp = Resolve("/v1.0/README", root)
	assert.Equal(t, File, rp.Category)
	assert.Equal(t, DefaultExtension, rp.Extension)
}

func TestClassificationOrder(t *testing.T) {
	// Directory rules win over the CGI rule.
	assert.Equal(t, Directory, Resolve("/cgi/whatever", "/srv").Category)
	assert.Equal(t, Directory, Resolve("/cgi/", "/srv").Category)
	// Favicon wins over directory-looking paths.
	assert.Equal(t, Favicon, Resolve("/static/favicon.ico/", "/srv").Category)
}

func TestTraversalNeverEscapesRoot(t *testing.T) {
	root := t.TempDir()
	rng := rand.New(rand.NewSource(42))
	segments := []string{"..", ".", "a", "b.txt", "", "%2e%2e", "...", "..."}

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(6)
		parts := make([]string, n)
		for j := range parts {
			parts[j] = segments[rng.Intn(len(segments))]
		}
		parts[rng.Intn(n)] = ".."
		target := "/" + strings.Join(parts, "/")
		if rng.Intn(2) == 0 {
			target += "/"
		}

		rp := Resolve(target, root)
		assert.Equal(t, Invalid, rp.Category, target)
		assertContained(t, root, rp)
	}
}

func TestResolvedPathsStayUnderRoot(t *testing.T) {
	root := t.TempDir()
	rng := rand.New(rand.NewSource(7))
	segments := []string{".", "a", "b.txt", "", "c.html", "x.y", "cgi"}

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(5)
		parts := make([]string, n)
		for j := range parts {
			parts[j] = segments[rng.Intn(len(segments))]
		}
		target := "/" + strings.Join(parts, "/")

		assertContained(t, root, Resolve(target, root))
	}
}

func TestIsHTML(t *testing.T) {
	assert.True(t, IsHTML("html"))
	assert.True(t, IsHTML("HTM"))
	assert.False(t, IsHTML("txt"))
	assert.False(t, IsHTML("xhtml"))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "DIRECTORY", Directory.String())
	assert.Equal(t, "UNKNOWN", Category(99).String())
}

func assertContained(t *testing.T, root string, rp ResolvedPath) {
	t.Helper()
	if rp.AbsolutePath == "" {
		return
	}
	rel, err := filepath.Rel(root, rp.AbsolutePath)
	require.NoError(t, err)
	assert.False(t, rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)),
		"%q resolved outside root: %s", rp.Target, rp.AbsolutePath)
}

func TestPercentEncodedTargets(t *testing.T) {
	root := t.TempDir()

	rp := Resolve("/my%20notes.txt", root)
	assert.Equal(t, File, rp.Category)
	assert.Equal(t, filepath.Join(root, "my notes.txt"), rp.AbsolutePath)

	// Encoded parent segments are only visible after decoding.
	rp = Resolve("/%2e%2e/%2e%2e/etc/passwd.txt", root)
	assert.Equal(t, Invalid, rp.Category)
	assert.Empty(t, rp.AbsolutePath)

	// Malformed escapes are taken literally.
	rp = Resolve("/100%.txt", root)
	assert.Equal(t, File, rp.Category)
	assert.Equal(t, filepath.Join(root, "100%.txt"), rp.AbsolutePath)
}
