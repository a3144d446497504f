package staghorn

import (
	"strings"
	"testing"

	"github.com/andreyvit/diff"
)

// d is shorthand for the dynamic data maps used throughout these tests.
type d = map[string]interface{}

func render(t *testing.T, source string, data interface{}) string {
	t.Helper()
	tpl, err := Compile(source)
	if err != nil {
		t.Fatalf("compile %q: %v", source, err)
	}
	return tpl.Render(data)
}

func TestFeatures(t *testing.T) {
	tests := []struct {
		name   string
		source string
		data   interface{}
		want   string
	}{
		{"interpolation", "<h1>{{title}}</h1>", d{"title": "Hi"}, "<h1>Hi</h1>"},
		{"iteration", "{{#posts}}-{{title}}-{{/posts}}",
			d{"posts": []d{{"title": "A"}, {"title": "B"}}}, "-A--B-"},
		{"inverse over empty list", "{{^posts}}none{{/posts}}", d{"posts": []d{}}, "none"},
		{"inverse over non-empty list", "{{^posts}}none{{/posts}}",
			d{"posts": []d{{"title": "A"}}}, ""},
		{"section over non-empty list emits", "{{#posts}}x{{/posts}}",
			d{"posts": []d{{}, {}}}, "xx"},
		{"section over empty list elides", "{{#posts}}x{{/posts}}", d{"posts": []d{}}, ""},
		{"escaped", "{{title}}", d{"title": "<b>&"}, "&lt;b&gt;&amp;"},
		{"unescaped triple", "{{{title}}}", d{"title": "<b>&"}, "<b>&"},
		{"unescaped ampersand", "{{&title}}", d{"title": "<b>&"}, "<b>&"},
		{"escaped quotes and slash", "{{v}}", d{"v": `"a'/b"`},
			"&quot;a&#x27;&#x2F;b&quot;"},
		{"dotted path", "{{a.b}}", d{"a": d{"b": "X"}}, "X"},
		{"dotted path miss", "{{a.b}}", d{"a": d{}}, ""},
		{"unresolved renders empty", "[{{ghost}}]", d{}, "[]"},
		{"comment", "a{{! ignored }}b", d{}, "ab"},
		{"bool section keeps context", "{{#ok}}{{name}}{{/ok}}",
			d{"ok": true, "name": "ann"}, "ann"},
		{"false section elides", "{{#ok}}x{{/ok}}", d{"ok": false}, ""},
		{"false inverse emits", "{{^ok}}x{{/ok}}", d{"ok": false}, "x"},
		{"truthy inverse elides", "{{^ok}}x{{/ok}}", d{"ok": true}, ""},
		{"absent section elides", "{{#ghost}}x{{/ghost}}", d{}, ""},
		{"absent inverse emits", "{{^ghost}}x{{/ghost}}", d{}, "x"},
		{"record section pushes context", "{{#user}}{{name}}{{/user}}",
			d{"user": d{"name": "ann"}}, "ann"},
		{"parent context climb", "{{#posts}}[{{site}}:{{title}}]{{/posts}}",
			d{"site": "S", "posts": []d{{"title": "A"}, {"title": "B"}}}, "[S:A][S:B]"},
		{"nested sections", "{{#a}}({{#b}}x{{/b}}){{/a}}",
			d{"a": d{"b": []d{{}, {}}}}, "(xx)"},
		{"numbers format plainly", "{{i}}/{{f}}", d{"i": 42, "f": 2.5}, "42/2.5"},
		{"zero is falsy", "{{#n}}x{{/n}}{{^n}}y{{/n}}", d{"n": 0}, "y"},
		{"empty string is falsy", "{{#s}}x{{/s}}{{^s}}y{{/s}}", d{"s": ""}, "y"},
		{"missing partial renders empty", "a{{>nope}}b", d{}, "ab"},
		{"standalone section whitespace", "x\n{{#a}}\ny\n{{/a}}\nz", d{"a": true}, "x\ny\nz"},
		{"standalone comment whitespace", "x\n{{! note }}\ny", d{}, "x\ny"},
	}
	for _, test := range tests {
		if got := render(t, test.source, test.data); got != test.want {
			t.Errorf("%s: got %q, expected %q", test.name, got, test.want)
		}
	}
}

func TestRenderStruct(t *testing.T) {
	type Author struct {
		Name string
	}
	type Post struct {
		Title  string
		Author Author
		Draft  bool
	}
	tpl, err := Compile("<h1>{{title}}</h1><p>by {{author.name}}</p>{{^draft}}<em>published</em>{{/draft}}")
	if err != nil {
		t.Fatal(err)
	}
	got := tpl.Render(Post{Title: "Go & Templates", Author: Author{Name: "ann"}})
	want := "<h1>Go &amp; Templates</h1><p>by ann</p><em>published</em>"
	if got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
}

func TestPartialsInCorpus(t *testing.T) {
	corpus, err := NewBundle().
		AddTemplateString("main", "{{>p}}").
		AddTemplateString("p", "Hello").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	tpl, ok := corpus.Template("main")
	if !ok {
		t.Fatal("main not in corpus")
	}
	if got := tpl.Render(nil); got != "Hello" {
		t.Errorf("got %q, expected %q", got, "Hello")
	}
}

func TestPartialReceivesContext(t *testing.T) {
	corpus, err := NewBundle().
		AddTemplateString("page", "{{#user}}{{>badge}}{{/user}}").
		AddTemplateString("badge", "{{name}}!").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	tpl, _ := corpus.Template("page")
	if got := tpl.Render(d{"user": d{"name": "ann"}}); got != "ann!" {
		t.Errorf("got %q", got)
	}
}

func TestSelfReferencingPartialTerminates(t *testing.T) {
	corpus, err := NewBundle().
		AddTemplateString("p", "x{{>p}}").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	tpl, _ := corpus.Template("p")
	got := tpl.Render(nil)
	// The frame at each nesting level emits one x; expansion stops once the
	// depth counter passes the cap.
	if n := strings.Count(got, "x"); n != maxPartialDepth+1 {
		t.Errorf("rendered %d expansions, expected %d", n, maxPartialDepth+1)
	}
}

func TestMutualPartialCycleTerminates(t *testing.T) {
	corpus, err := NewBundle().
		AddTemplateString("a", "a{{>b}}").
		AddTemplateString("b", "b{{>a}}").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	tpl, _ := corpus.Template("a")
	got := tpl.Render(nil)
	if len(got) != maxPartialDepth+1 {
		t.Errorf("rendered %d bytes, expected %d", len(got), maxPartialDepth+1)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	tpl, err := Compile("{{#xs}}{{v}};{{/xs}}")
	if err != nil {
		t.Fatal(err)
	}
	data := d{"xs": []d{{"v": 1}, {"v": 2}, {"v": 3}}}
	first := tpl.Render(data)
	for i := 0; i < 10; i++ {
		if got := tpl.Render(data); got != first {
			t.Fatalf("render %d diverged: %q vs %q", i, got, first)
		}
	}
}

func TestPageRendering(t *testing.T) {
	const source = `<html>
<head><title>{{title}}</title></head>
<body>
{{#posts}}
<article>
<h2>{{title}}</h2>
{{{body}}}
</article>
{{/posts}}
{{^posts}}
<p>Nothing here.</p>
{{/posts}}
</body>
</html>`

	const expected = `<html>
<head><title>My Blog</title></head>
<body>
<article>
<h2>First &amp; Foremost</h2>
<p>hi</p>
</article>
</body>
</html>`

	got := render(t, source, d{
		"title": "My Blog",
		"posts": []d{{"title": "First & Foremost", "body": "<p>hi</p>"}},
	})
	if got != expected {
		t.Errorf("rendered page differs:\n%s", diff.LineDiff(expected, got))
	}
}
