package staghorn

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleStrings(t *testing.T) {
	corpus, err := NewBundle().
		AddTemplateString("greet", "Hello, {{name}}!").
		Compile()
	require.NoError(t, err)

	tpl, ok := corpus.Template("greet")
	require.True(t, ok)
	assert.Equal(t, "Hello, ann!", tpl.Render(d{"name": "ann"}))
}

func TestBundleStringPartialMustBeRegistered(t *testing.T) {
	_, err := NewBundle().
		AddTemplateString("main", "{{>missing}}").
		Compile()
	require.Error(t, err)
	var perr *PartialError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "missing", perr.Path)
}

func TestBundleDir(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"index.html":        "{{>partials/nav.html}}body",
		"partials/nav.html": "nav|",
		"notes.txt":         "not a template",
		"sub/other.html":    "other",
	})
	corpus, err := NewBundle().AddTemplateDir(dir).Compile()
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"index.html", "partials/nav.html", "sub/other.html"},
		corpus.Names())

	tpl, ok := corpus.Template("index.html")
	require.True(t, ok)
	assert.Equal(t, "nav|body", tpl.Render(nil))

	_, ok = corpus.Template("notes.txt")
	assert.False(t, ok, "non-template files must not load")
}

func TestBundleExtension(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.must": "A",
		"b.html": "B",
	})
	corpus, err := NewBundle().SetExtension(".must").AddTemplateDir(dir).Compile()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.must"}, corpus.Names())
}

func TestBundleCompileErrorWins(t *testing.T) {
	_, err := NewBundle().
		AddTemplateString("bad", "{{#x}}").
		Compile()
	require.Error(t, err)
}

func TestBundleReportsFirstError(t *testing.T) {
	b := NewBundle().AddTemplateFile(filepath.Join(t.TempDir(), "missing.html"))
	_, err := b.Compile()
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestBundleWatchRecompiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"page.html": "v1 {{x}}",
	})
	recompiled := make(chan *Corpus, 1)
	corpus, err := NewBundle().
		WatchFiles(true).
		SetRecompilationCallback(func(c *Corpus) {
			select {
			case recompiled <- c:
			default:
			}
		}).
		AddTemplateDir(dir).
		Compile()
	require.NoError(t, err)

	tpl, _ := corpus.Template("page.html")
	require.Equal(t, "v1 a", tpl.Render(d{"x": "a"}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte("v2 {{x}}"), 0o644))

	select {
	case next := <-recompiled:
		tpl, ok := next.Template("page.html")
		require.True(t, ok)
		assert.Equal(t, "v2 a", tpl.Render(d{"x": "a"}))
	case <-time.After(5 * time.Second):
		t.Fatal("recompilation callback never fired")
	}
}
