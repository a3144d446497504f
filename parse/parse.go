// Package parse compiles Mustache source text into the flat block stream
// consumed by the renderer.
package parse

import "github.com/staghorn/staghorn/ast"

// Tree is the result of compiling a single template source: a flat block
// sequence terminated by a Tail sentinel, plus a pre-sizing hint.
type Tree struct {
	Name     string      // name of the source, for error messages
	Blocks   []ast.Block // the instruction stream
	Capacity int         // sum of literal byte lengths, for output pre-sizing
}

// opening records a section opener awaiting its closing tag.
type opening struct {
	index int     // index of the opener in the emitted block list
	pos   ast.Pos // byte offset of the opener, for error reporting
}

// Parse compiles the given source.  The returned blocks reference slices of
// text, so the caller must keep the source string reachable for as long as
// the blocks are in use.
func Parse(name, text string) (*Tree, error) {
	t := &Tree{Name: name}
	l := lex(name, text)
	defer l.drain()

	var (
		pending string // literal text awaiting its block
		stack   []opening
	)
	emit := func(b ast.Block) {
		b.HTML = pending
		t.Capacity += len(pending)
		pending = ""
		t.Blocks = append(t.Blocks, b)
	}
	fail := func(code ErrorCode, name string, pos ast.Pos) error {
		return &Error{
			Template: t.Name,
			Code:     code,
			Name:     name,
			Pos:      pos,
			Line:     l.lineNumber(pos),
			Col:      l.columnNumber(pos),
		}
	}

	for {
		switch it := l.nextItem(); it.typ {
		case itemText:
			// Usually a single slice of the source; a discarded comment tag
			// can split a run, in which case the pieces are joined here.
			if pending == "" {
				pending = it.val
			} else {
				pending += it.val
			}

		case itemEscaped:
			emit(ast.Block{Name: it.val, Hash: ast.Hash(it.val), Tag: ast.Escaped})
		case itemUnescaped:
			emit(ast.Block{Name: it.val, Hash: ast.Hash(it.val), Tag: ast.Unescaped})
		case itemPartial:
			emit(ast.Block{Name: it.val, Hash: ast.Hash(it.val), Tag: ast.Partial})

		case itemSection:
			stack = append(stack, opening{len(t.Blocks), it.pos})
			emit(ast.Block{Name: it.val, Hash: ast.Hash(it.val), Tag: ast.Section})
		case itemInverted:
			stack = append(stack, opening{len(t.Blocks), it.pos})
			emit(ast.Block{Name: it.val, Hash: ast.Hash(it.val), Tag: ast.Inverted})

		case itemClosing:
			if len(stack) == 0 {
				return nil, fail(ErrUnexpectedClosing, it.val, it.pos)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if t.Blocks[open.index].Name != it.val {
				return nil, fail(ErrUnclosedSection, t.Blocks[open.index].Name, open.pos)
			}
			tail := len(t.Blocks)
			emit(ast.Block{Tag: ast.Tail})
			t.Blocks[open.index].Children = tail - open.index

		case itemComment:
			// Discarded; any pending literal carries over to the next block.

		case itemError:
			return nil, fail(ErrUnclosedTag, "", it.pos)

		case itemEOF:
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				return nil, fail(ErrUnclosedSection, t.Blocks[open.index].Name, open.pos)
			}
			emit(ast.Block{Tag: ast.Tail})
			return t, nil
		}
	}
}
