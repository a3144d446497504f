package encode

import (
	"errors"
	"strings"
	"testing"
)

var escapeTests = []struct {
	name string
	in   string
	want string
}{
	{"plain", "hello", "hello"},
	{"empty", "", ""},
	{"lt gt", "<b>", "&lt;b&gt;"},
	{"amp", "a & b", "a &amp; b"},
	{"quotes", `"a" 'b'`, "&quot;a&quot; &#x27;b&#x27;"},
	{"slash", "a/b", "a&#x2F;b"},
	{"all", `<>&"'/`, "&lt;&gt;&amp;&quot;&#x27;&#x2F;"},
	{"utf8 passthrough", "héllo → wörld", "héllo → wörld"},
	{"interleaved", "x<y>z", "x&lt;y&gt;z"},
}

func TestBufferWriteEscaped(t *testing.T) {
	for _, test := range escapeTests {
		var b Buffer
		if err := b.WriteEscaped(test.in); err != nil {
			t.Fatalf("%s: %v", test.name, err)
		}
		if got := b.String(); got != test.want {
			t.Errorf("%s: got %q, expected %q", test.name, got, test.want)
		}
	}
}

func TestBufferWriteUnescaped(t *testing.T) {
	var b Buffer
	b.WriteUnescaped(`<>&"'/`)
	if got := b.String(); got != `<>&"'/` {
		t.Errorf("got %q", got)
	}
}

func TestWriterEscaped(t *testing.T) {
	for _, test := range escapeTests {
		var sb strings.Builder
		w := NewWriter(&sb)
		if err := w.WriteEscaped(test.in); err != nil {
			t.Fatalf("%s: %v", test.name, err)
		}
		if got := sb.String(); got != test.want {
			t.Errorf("%s: got %q, expected %q", test.name, got, test.want)
		}
	}
}

// Escaping an already escaped string escapes the entity ampersands again;
// the table has no idempotence guarantee and should not pretend to.
func TestEscapeNotIdempotent(t *testing.T) {
	var b Buffer
	b.WriteEscaped("&lt;")
	if got := b.String(); got != "&amp;lt;" {
		t.Errorf("got %q, expected %q", got, "&amp;lt;")
	}
}

type failingWriter struct {
	n   int // bytes accepted before failing
	err error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, w.err
	}
	if len(p) > w.n {
		n := w.n
		w.n = 0
		return n, w.err
	}
	w.n -= len(p)
	return len(p), nil
}

func TestWriterPropagatesErrors(t *testing.T) {
	sinkErr := errors.New("sink failed")
	w := NewWriter(&failingWriter{n: 2, err: sinkErr})
	if err := w.WriteUnescaped("abcdef"); !errors.Is(err, sinkErr) {
		t.Errorf("WriteUnescaped error = %v, expected sink error", err)
	}
	w = NewWriter(&failingWriter{n: 1, err: sinkErr})
	if err := w.WriteEscaped("ab<cd"); !errors.Is(err, sinkErr) {
		t.Errorf("WriteEscaped error = %v, expected sink error", err)
	}
}
