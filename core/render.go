package core

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the content of a rendered document. The layout places Title in
// both <title> and the heading.
type Page struct {
	Title      string
	Paragraphs []string
	Live       bool
}

// PicoStylesheet is the Pico CSS build the layout's container
// markup is written for.
const PicoStylesheet = "https://cdn.jsdelivr.net/npm/@picocss/pico@latest/css/pico.min.css"

type pageView struct {
	Page
	ReloadPath  string
	Stylesheets []string
}

type Renderer struct {
	tmpl        *template.Template
	minifier    *minify.M
	stylesheets []string
}

// NewRenderer parses the embedded layout. Each stylesheet is linked from the
// document head in order.
func NewRenderer(minifyOutput bool, stylesheets ...string) (*Renderer, error) {
	tmpl, err := template.New("page.html").Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{tmpl: tmpl, stylesheets: stylesheets}
	if minifyOutput {
		m := minify.New()
		m.Add("text/html", &minhtml.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
		r.minifier = m
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, page Page) error {
	view := pageView{Page: page, ReloadPath: LiveReloadPath, Stylesheets: r.stylesheets}

	if r.minifier == nil {
		return r.tmpl.ExecuteTemplate(w, "page", view)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", view); err != nil {
		return err
	}
	return r.minifier.Minify("text/html", w, &buf)
}
