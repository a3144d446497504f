package staghorn

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/staghorn/staghorn/ast"
)

// Corpus is a preloaded, cross-linked set of templates addressable by
// partial name.  It is built eagerly and immutable thereafter; templates
// hold a reference to their corpus for render-time partial lookup.
type Corpus struct {
	root      string
	templates map[string]*Template
}

// PartialError reports a partial that could not be read during corpus
// construction.
type PartialError struct {
	Path string // the partial name as referenced
	Err  error  // the underlying cause
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("partial %s: %v", e.Path, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// CompilePartials loads and compiles the named template files under dir,
// then transitively loads every partial they reference.  Names are
// slash-separated paths relative to dir and are matched verbatim against
// `{{>name}}` tags.
func CompilePartials(dir string, names ...string) (*Corpus, error) {
	c := newCorpus(dir)
	for _, name := range names {
		if err := c.load(name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newCorpus(root string) *Corpus {
	return &Corpus{root: root, templates: make(map[string]*Template)}
}

// Template returns the template compiled under the given name.
func (c *Corpus) Template(name string) (*Template, bool) {
	t, ok := c.templates[name]
	return t, ok
}

// Names returns the sorted names of every template in the corpus.
func (c *Corpus) Names() []string {
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// load reads, compiles and registers one template, then loads whatever it
// references.  Registration happens before the referenced partials load, so
// cyclic references terminate; the render-time depth cap makes the cycles
// themselves safe.
func (c *Corpus) load(name string) error {
	if _, ok := c.templates[name]; ok {
		return nil
	}
	if c.root == "" {
		return &PartialError{Path: name, Err: fs.ErrNotExist}
	}
	raw, err := os.ReadFile(filepath.Join(c.root, filepath.FromSlash(name)))
	if err != nil {
		return &PartialError{Path: name, Err: err}
	}
	t, err := compile(name, string(raw), c)
	if err != nil {
		return err
	}
	c.templates[name] = t
	return c.loadReferenced(t)
}

// loadReferenced scans a compiled template's block stream for partial tags
// and loads each referenced template into the corpus.
func (c *Corpus) loadReferenced(t *Template) error {
	for _, b := range t.blocks {
		if b.Tag == ast.Partial {
			if err := c.load(b.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// add registers an already-compiled template under its name.
func (c *Corpus) add(t *Template) {
	c.templates[t.name] = t
}

func dirOf(path string) string {
	return filepath.Dir(path)
}
