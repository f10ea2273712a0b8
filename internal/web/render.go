package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"

	"github.com/hpungsan/shelf/internal/errors"
	"github.com/hpungsan/shelf/internal/ops"
	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/selection"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Theme   string // light, dark or system
}

// Option is a select option in the filter bar.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// BrowsePageData is the template data for the prompt list page.
type BrowsePageData struct {
	PageData
	Result   *ops.BrowseOutput
	Query    ops.BrowseInput
	Roles    []Option
	Purposes []Option
	Specials []Option
	Sorts    []Option
}

// DetailPageData is the template data for the prompt detail page.
type DetailPageData struct {
	PageData
	Prompt      *ops.ShowOutput
	Segments    []prompt.Segment
	UsageHTML   template.HTML
	ExampleHTML template.HTML
}

// SaveButtonData is the template data for the save toggle fragment.
type SaveButtonData struct {
	ID           int
	Saved        bool
	DisplaySaves int
	Return       string // page to come back to without JavaScript
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       zerolog.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
// Every page is a clone of the layout plus the shared partials.
func NewRenderer(templateFS fs.FS, version string, log zerolog.Logger) *Renderer {
	funcMap := template.FuncMap{
		"comma":        func(n int) string { return humanize.Comma(int64(n)) },
		"ago":          humanize.Time,
		"formatDate":   func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"specialLabel": func(s selection.SpecialFilter) string { return s.Label() },
		"saveButton": func(id int, isSaved bool, display int, ret string) SaveButtonData {
			return SaveButtonData{ID: id, Saved: isSaved, DisplaySaves: display, Return: ret}
		},
		"browseURL": browseURL,
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html", "partials.html"))

	pages := map[string]string{
		"browse": "browse.html",
		"detail": "detail.html",
		"error":  "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		log:       log,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a page. For htmx requests only the "content"
// block is rendered.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	block := "layout"
	if isHTMX(req) {
		block = "content"
	}
	r.renderBlock(w, status, name, block, data)
}

// renderBlock renders a specific named block from a page template.
func (r *Renderer) renderBlock(w http.ResponseWriter, status int, page, block string, data any) {
	t, ok := r.templates[page]
	if !ok {
		r.log.Error().Str("template", page).Msg("template not found")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.log.Error().Err(err).Str("template", page).Str("block", block).Msg("template execution failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	sErr := errors.As(err)
	status := sErr.Status
	if status >= 500 {
		r.log.Error().Err(err).Str("path", req.URL.Path).Msg("request failed")
	}

	if isHTMX(req) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(sErr.Message))
		return
	}

	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(sErr.Code),
				"message": sErr.Message,
				"status":  status,
				"details": sErr.Details,
			},
		})
		return
	}

	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
			Theme:   themeFromRequest(req, ""),
		},
		StatusCode: status,
		Message:    sErr.Message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark.
// Raw HTML in the source is omitted (goldmark's default).
func renderMarkdown(md string) template.HTML {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// browseURL returns the /prompts URL for in with one parameter replaced.
func browseURL(in ops.BrowseInput, key, value string) string {
	switch key {
	case "role":
		in.Role = value
	case "purpose":
		in.Purpose = value
	case "special":
		in.Special = value
	case "q":
		in.Search = value
	case "sort":
		in.Sort = value
	}

	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("role", in.Role)
	set("purpose", in.Purpose)
	set("special", in.Special)
	set("q", in.Search)
	set("sort", in.Sort)

	if len(v) == 0 {
		return "/prompts"
	}
	return "/prompts?" + v.Encode()
}

func isHTMX(r *http.Request) bool {
	return r != nil && r.Header.Get("HX-Request") == "true"
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
