package parse

import (
	"fmt"
	"strings"

	"github.com/staghorn/staghorn/ast"
)

// Lexer design from text/template

// Tokens ---------------------------------------------------------------------

// item represents a token returned from the scanner.
type item struct {
	typ itemType // The type of this item.
	pos ast.Pos  // The starting position, in bytes, of this item in the input string.
	val string   // The value of this item: literal text, or the trimmed tag name.
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemError:
		return i.val
	case i.typ == itemText && len(i.val) > 20:
		return fmt.Sprintf("%.20q...", i.val)
	case i.typ == itemText:
		return fmt.Sprintf("%q", i.val)
	}
	return fmt.Sprintf("<%s %s>", i.typ, i.val)
}

// itemType identifies the type of lexical items.
type itemType int

// All items.
const (
	itemError     itemType = iota // error occurred; value is text of error
	itemEOF                       // end of input
	itemText                      // literal text between tags
	itemEscaped                   // {{name}}
	itemUnescaped                 // {{{name}}} or {{&name}}
	itemSection                   // {{#name}}
	itemInverted                  // {{^name}}
	itemClosing                   // {{/name}}
	itemComment                   // {{!comment}}
	itemPartial                   // {{>path}}
)

var itemNames = map[itemType]string{
	itemError:     "error",
	itemEOF:       "eof",
	itemText:      "text",
	itemEscaped:   "escaped",
	itemUnescaped: "unescaped",
	itemSection:   "section",
	itemInverted:  "inverted",
	itemClosing:   "closing",
	itemComment:   "comment",
	itemPartial:   "partial",
}

func (t itemType) String() string {
	if name, ok := itemNames[t]; ok {
		return name
	}
	return fmt.Sprintf("item(%d)", int(t))
}

// Lexer ----------------------------------------------------------------------

// stateFn represents the state of the lexer as a function that returns the
// next state.
type stateFn func(*lexer) stateFn

// lexer holds the state of the lexical scanning.
//
// Based on the lexer from the "text/template" package.
// See http://www.youtube.com/watch?v=HxaD_trXwRE
type lexer struct {
	name      string    // the name of the input; used only during errors.
	input     string    // the string being scanned.
	state     stateFn   // the next lexing function to enter.
	pos       int       // current position in the input.
	textStart int       // start position of the pending literal run.
	lineStart int       // position just past the most recently seen newline.
	items     chan item // channel of scanned items.
}

// lex creates a new scanner for the input string.
func lex(name, input string) *lexer {
	l := &lexer{
		name:  name,
		input: input,
		items: make(chan item),
		state: lexText,
	}
	go l.run()
	return l
}

// run runs the state machine for the lexer.
func (l *lexer) run() {
	for l.state != nil {
		l.state = l.state(l)
	}
	close(l.items)
}

// nextItem returns the next item from the input.
func (l *lexer) nextItem() item {
	return <-l.items
}

// drain runs the lexer to completion so its goroutine exits.
func (l *lexer) drain() {
	for range l.items {
	}
}

// emitText sends the pending literal run ending at end, if non-empty.
func (l *lexer) emitText(end int) {
	if end > l.textStart {
		l.items <- item{itemText, ast.Pos(l.textStart), l.input[l.textStart:end]}
	}
}

// errorf emits an error item and terminates the scan by returning a nil
// state, which in turn terminates nextItem.
func (l *lexer) errorf(pos int, format string, args ...interface{}) stateFn {
	l.items <- item{itemError, ast.Pos(pos), fmt.Sprintf(format, args...)}
	return nil
}

// lineNumber reports which line the given position is on.
func (l *lexer) lineNumber(pos ast.Pos) int {
	return 1 + strings.Count(l.input[:pos], "\n")
}

// columnNumber reports which column in its line the given position is at.
func (l *lexer) columnNumber(pos ast.Pos) int {
	n := strings.LastIndex(l.input[:pos], "\n")
	return int(pos) - n
}

// State functions ------------------------------------------------------------

// lexText scans literal text until an opening `{{` delimiter.
func lexText(l *lexer) stateFn {
	for i := l.pos; i < len(l.input); i++ {
		switch l.input[i] {
		case '\n':
			l.lineStart = i + 1
		case '{':
			if i+1 < len(l.input) && l.input[i+1] == '{' {
				l.pos = i
				return lexTag
			}
		}
	}
	l.emitText(len(l.input))
	l.items <- item{itemEOF, ast.Pos(len(l.input)), ""}
	return nil
}

// lexTag scans a full `{{...}}` tag.  l.pos is at the first opening brace.
// The pending literal is not emitted until the tag kind is known, since
// standalone control tags consume surrounding whitespace from it.
func lexTag(l *lexer) stateFn {
	tagStart := l.pos
	l.pos += 2 // consume {{

	typ := itemEscaped
	triple := false
	if l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '{':
			typ, triple = itemUnescaped, true
			l.pos++
		case '&':
			typ = itemUnescaped
			l.pos++
		case '#':
			typ = itemSection
			l.pos++
		case '^':
			typ = itemInverted
			l.pos++
		case '/':
			typ = itemClosing
			l.pos++
		case '!':
			typ = itemComment
			l.pos++
		case '>':
			typ = itemPartial
			l.pos++
		}
	}

	var name string
	if typ == itemComment {
		// Comments run to the first closing delimiter and may span lines.
		end := strings.Index(l.input[l.pos:], "}}")
		if end < 0 {
			return l.errorf(tagStart, "unclosed tag")
		}
		name = strings.TrimSpace(l.input[l.pos : l.pos+end])
		l.pos += end + 2
	} else {
		l.skipSpace()
		nameStart := l.pos
		// Partial names are root-relative paths and may also contain '/'.
		for l.pos < len(l.input) && (isNameByte(l.input[l.pos]) ||
			typ == itemPartial && l.input[l.pos] == '/') {
			l.pos++
		}
		name = l.input[nameStart:l.pos]
		l.skipSpace()
		if name == "" || !strings.HasPrefix(l.input[l.pos:], "}}") {
			return l.errorf(tagStart, "unclosed tag")
		}
		if triple {
			if !strings.HasPrefix(l.input[l.pos:], "}}}") {
				return l.errorf(tagStart, "unclosed tag")
			}
			l.pos += 3
		} else {
			// `{{foo}}}` consumes only two braces; the third is literal.
			l.pos += 2
		}
	}

	if end, ok := l.standalone(typ, tagStart); ok {
		// The tag owns its line: the surrounding horizontal whitespace and
		// the trailing newline are consumed into the tag.
		l.emitText(l.lineStart)
		l.pos = end
		l.lineStart = end
	} else {
		l.emitText(tagStart)
		if i := strings.LastIndexByte(l.input[tagStart:l.pos], '\n'); i >= 0 {
			l.lineStart = tagStart + i + 1
		}
	}
	l.textStart = l.pos

	l.items <- item{typ, ast.Pos(tagStart), name}
	return lexText
}

// standalone reports whether a tag ending at the current position sits on a
// line of its own, and if so, the position just past the consumed line
// ending.  Only section, inverted, closing, comment and partial tags
// qualify; interpolations never do.
func (l *lexer) standalone(typ itemType, tagStart int) (int, bool) {
	switch typ {
	case itemSection, itemInverted, itemClosing, itemComment, itemPartial:
	default:
		return 0, false
	}
	for i := l.lineStart; i < tagStart; i++ {
		if l.input[i] != ' ' && l.input[i] != '\t' {
			return 0, false
		}
	}
	end := l.pos
	for end < len(l.input) && (l.input[end] == ' ' || l.input[end] == '\t') {
		end++
	}
	switch {
	case end == len(l.input):
		return end, true
	case l.input[end] == '\n':
		return end + 1, true
	case l.input[end] == '\r' && end+1 < len(l.input) && l.input[end+1] == '\n':
		return end + 2, true
	}
	return 0, false
}

// skipSpace advances past whitespace inside a tag.
func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

// isNameByte reports whether c may appear in a tag name.
func isNameByte(c byte) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9' ||
		c == '_' || c == '.' || c == '-'
}
