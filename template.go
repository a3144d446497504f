package staghorn

import (
	"bufio"
	"io"
	"os"

	"github.com/staghorn/staghorn/ast"
	"github.com/staghorn/staghorn/content"
	"github.com/staghorn/staghorn/encode"
	"github.com/staghorn/staghorn/parse"
)

// maxPartialDepth bounds partial expansion at render time.  Deeper partials
// are silently elided, which is what makes cyclic partial graphs safe.
const maxPartialDepth = 64

// Template is a compiled template, ready to be rendered many times.  It is
// immutable after construction and may be shared across goroutines for
// concurrent rendering.
type Template struct {
	name     string
	source   string
	blocks   []ast.Block
	capacity int
	partials *Corpus // nil when compiled without partial resolution
}

// Compile parses the given source into a Template.  Partial tags compile but
// render as empty, since a lone template has no corpus to resolve them in;
// use FromFile or CompilePartials when partials should load.
func Compile(source string) (*Template, error) {
	return compile("template", source, nil)
}

// FromFile reads and compiles a single template file.  Partials referenced
// by the template are loaded transitively, relative to the file's directory.
func FromFile(path string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	corpus := newCorpus(dirOf(path))
	t, err := compile(path, string(raw), corpus)
	if err != nil {
		return nil, err
	}
	if err := corpus.loadReferenced(t); err != nil {
		return nil, err
	}
	return t, nil
}

// compile builds a Template over source.  The blocks slice into source, so
// the Template keeps the string alive for its whole life.
func compile(name, source string, corpus *Corpus) (*Template, error) {
	tree, err := parse.Parse(name, source)
	if err != nil {
		return nil, err
	}
	return &Template{
		name:     name,
		source:   source,
		blocks:   tree.Blocks,
		capacity: tree.Capacity,
		partials: corpus,
	}, nil
}

// Name returns the name the template was compiled under.
func (t *Template) Name() string {
	return t.name
}

// Source returns the source text this template was compiled from.
func (t *Template) Source() string {
	return t.source
}

// CapacityHint estimates how large a buffer rendering this template needs,
// counting only its literal text.
func (t *Template) CapacityHint() int {
	return t.capacity
}

// Render renders the template against v and returns the output.  v is read
// through the Content protocol: values already implementing it are used
// directly, anything else goes through content.New.
func (t *Template) Render(v interface{}) string {
	c := content.New(v)

	// Literals plus the content's own estimate, with 25% headroom for
	// escapes and repeated interpolations.
	capacity := t.capacity + c.CapacityHint()
	capacity += capacity / 4

	var buf encode.Buffer
	buf.Grow(capacity)

	// Cannot fail: the buffer never errors and render-time semantics are
	// total.
	_ = t.frame(c).Render(&buf)
	return buf.String()
}

// RenderToWriter renders the template against v, streaming output to w.
// The only errors returned are those reported by w.
func (t *Template) RenderToWriter(w io.Writer, v interface{}) error {
	return t.frame(content.New(v)).Render(encode.NewWriter(w))
}

// RenderToFile renders the template against v into a file.
func (t *Template) RenderToFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := t.RenderToWriter(w, v); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// frame returns the top-level traversal frame for one render call.
func (t *Template) frame(c content.Content) frame {
	return frame{
		blocks:   t.blocks,
		partials: t.partials,
		stack:    []content.Content{c},
	}
}

// frame is the concrete Section: a sub-range of a template's block stream
// plus the stack of context values open around it, innermost last.  Frames
// are values; deriving one never mutates its parent.
type frame struct {
	blocks   []ast.Block
	partials *Corpus
	depth    int // partial nesting depth
	stack    []content.Content
}

var _ content.Section = frame{}

// With derives a frame with v pushed as the new current context.
func (f frame) With(v content.Content) content.Section {
	return frame{
		blocks:   f.blocks,
		partials: f.partials,
		depth:    f.depth,
		stack:    append(f.stack[:len(f.stack):len(f.stack)], v),
	}
}

// body returns the frame for a section body: the blocks spanning
// (opener, opener+children], sharing this frame's context stack.
func (f frame) body(i int, b *ast.Block) frame {
	return frame{
		blocks:   f.blocks[i+1 : i+b.Children+1],
		partials: f.partials,
		depth:    f.depth,
		stack:    f.stack,
	}
}

// outer returns the frame with the context stack truncated to n values,
// used when a lookup is satisfied by an enclosing context.
func (f frame) outer(n int) frame {
	return frame{
		blocks:   f.blocks,
		partials: f.partials,
		depth:    f.depth,
		stack:    f.stack[:n],
	}
}

// Render walks the frame's blocks: emit the literal, act on the tag,
// advance.  Section bodies are skipped over via the Children offset; a Tail
// block carries only its literal and ends the frame at the slice boundary.
func (f frame) Render(e encode.Encoder) error {
	for i := 0; i < len(f.blocks); i++ {
		b := &f.blocks[i]
		if b.HTML != "" {
			if err := e.WriteUnescaped(b.HTML); err != nil {
				return err
			}
		}

		switch b.Tag {
		case ast.Escaped:
			if err := f.renderFieldEscaped(b.Hash, b.Name, e); err != nil {
				return err
			}

		case ast.Unescaped:
			if err := f.renderFieldUnescaped(b.Hash, b.Name, e); err != nil {
				return err
			}

		case ast.Section:
			if err := f.renderFieldSection(b.Hash, b.Name, f.body(i, b), e); err != nil {
				return err
			}
			i += b.Children

		case ast.Inverted:
			if err := f.renderFieldInverse(b.Hash, b.Name, f.body(i, b), e); err != nil {
				return err
			}
			i += b.Children

		case ast.Partial:
			if err := f.renderPartial(b.Name, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderFieldEscaped resolves an interpolation, trying the innermost
// context first and climbing outward.  Unresolved names render as empty.
func (f frame) renderFieldEscaped(hash uint64, name string, e encode.Encoder) error {
	for j := len(f.stack) - 1; j >= 0; j-- {
		found, err := f.stack[j].RenderFieldEscaped(hash, name, e)
		if found || err != nil {
			return err
		}
	}
	return nil
}

func (f frame) renderFieldUnescaped(hash uint64, name string, e encode.Encoder) error {
	for j := len(f.stack) - 1; j >= 0; j-- {
		found, err := f.stack[j].RenderFieldUnescaped(hash, name, e)
		if found || err != nil {
			return err
		}
	}
	return nil
}

// renderFieldSection resolves a section field.  When an enclosing context
// satisfies the lookup, the body renders with the inner contexts dropped,
// so its own lookups climb from where the field was found.
func (f frame) renderFieldSection(hash uint64, name string, body frame, e encode.Encoder) error {
	for j := len(f.stack) - 1; j >= 0; j-- {
		found, err := f.stack[j].RenderFieldSection(hash, name, body.outer(j+1), e)
		if found || err != nil {
			return err
		}
	}
	return nil
}

// renderFieldInverse resolves an inverse-section field.  A name no context
// can resolve counts as falsy, so the body renders with the current stack.
func (f frame) renderFieldInverse(hash uint64, name string, body frame, e encode.Encoder) error {
	for j := len(f.stack) - 1; j >= 0; j-- {
		found, err := f.stack[j].RenderFieldInverse(hash, name, body.outer(j+1), e)
		if found || err != nil {
			return err
		}
	}
	return body.Render(e)
}

// renderPartial inlines a corpus template with the current context.  A
// missing corpus, unknown name, or exceeded nesting depth elides silently.
func (f frame) renderPartial(name string, e encode.Encoder) error {
	if f.partials == nil || f.depth >= maxPartialDepth {
		return nil
	}
	t, ok := f.partials.Template(name)
	if !ok {
		return nil
	}
	sub := frame{
		blocks:   t.blocks,
		partials: f.partials,
		depth:    f.depth + 1,
		stack:    f.stack,
	}
	return sub.Render(e)
}
