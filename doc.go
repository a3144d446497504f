/*
Package staghorn is a Mustache-style template engine built for rendering
native Go data with parse-once/render-many semantics.

Templates compile into a flat, branch-friendly instruction stream; rendering
walks that stream and reads user data exclusively through the Content
protocol in package content, which dispatches field lookups on precomputed
FNV-1a name hashes.  Unresolved names, missing partials and over-deep
partial nesting all render as empty: templates stay valid as the data model
evolves, and the only render-time failure is an error from the caller's
sink.

Compile one template from a string:

	tpl, err := staghorn.Compile("<h1>{{title}}</h1>")
	html := tpl.Render(Page{Title: "Hello"})

or load a corpus of templates, with `{{>header.html}}` partials resolved
against the directory:

	corpus, err := staghorn.CompilePartials("./templates", "index.html")
	tpl, _ := corpus.Template("index.html")

A Bundle collects sources from several places and can watch the underlying
files, recompiling the corpus when they change.
*/
package staghorn
