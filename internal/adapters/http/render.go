package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"autokudos/internal/adapters/http/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer turns club notes into HTML. Raw HTML in the notes is dropped
// because goldmark is not configured WithUnsafe.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		slog.Warn("markdown_render_failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// renderTemplate executes templates/<name> inside the layout. The template
// is parsed per request so the funcMap can close over r.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	funcMap := template.FuncMap{
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"isAdmin":        func() bool { return middleware.IsAdmin(r.Context()) },
		"renderMarkdown": renderMarkdown,
		"flash":          func() string { return r.URL.Query().Get("msg") },
		"flashError":     func() string { return r.URL.Query().Get("error") },
		"add1":           func(i int) int { return i + 1 },
		"contains": func(list []string, v string) bool {
			for _, s := range list {
				if s == v {
					return true
				}
			}
			return false
		},
	}
	tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
