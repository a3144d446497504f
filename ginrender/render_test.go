package ginrender

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staghorn/staghorn"
)

func testCorpus(t *testing.T) *staghorn.Corpus {
	t.Helper()
	corpus, err := staghorn.NewBundle().
		AddTemplateString("pages/home", "<h1>{{title}}</h1>{{>footer}}").
		AddTemplateString("footer", "<footer>{{year}}</footer>").
		Compile()
	require.NoError(t, err)
	return corpus
}

func TestGinHTML(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HTMLRender = New(testCorpus(t))
	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "pages/home", gin.H{"title": "A & B", "year": 2024})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>A &amp; B</h1><footer>2024</footer>", w.Body.String())
}

func TestMissingTemplate(t *testing.T) {
	r := New(testCorpus(t)).Instance("nope", nil)
	w := httptest.NewRecorder()
	err := r.Render(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestWriteContentTypeRespectsExisting(t *testing.T) {
	r := New(testCorpus(t)).Instance("footer", nil).(*Render)
	w := httptest.NewRecorder()
	w.Header().Set("Content-Type", "text/plain")
	r.WriteContentType(w)
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
}
