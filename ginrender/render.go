// Package ginrender exposes a staghorn Corpus as a gin HTML renderer, so
// handlers can respond with compiled Mustache views.
package ginrender

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin/render"

	"github.com/staghorn/staghorn"
)

var _ render.HTMLRender = (*HTMLRender)(nil)

// HTMLRender adapts a Corpus to gin's render.HTMLRender.  Install it with
// router.HTMLRender = ginrender.New(corpus).
type HTMLRender struct {
	corpus *staghorn.Corpus
}

// New creates an HTMLRender over the given corpus.
func New(corpus *staghorn.Corpus) *HTMLRender {
	return &HTMLRender{corpus: corpus}
}

// Instance returns a render.Render for one response.
func (h *HTMLRender) Instance(name string, data any) render.Render {
	return &Render{corpus: h.corpus, name: name, data: data}
}

// Render renders one template with data and writes it to the response.
type Render struct {
	corpus *staghorn.Corpus
	name   string
	data   any
}

// Render writes the rendered template to w.
func (r *Render) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	tpl, ok := r.corpus.Template(r.name)
	if !ok {
		return fmt.Errorf("ginrender: template %s not found", r.name)
	}
	return tpl.RenderToWriter(w, r.data)
}

// WriteContentType sets an HTML content type if none is set yet.
func (r *Render) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{"text/html; charset=utf-8"}
	}
}
