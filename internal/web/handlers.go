package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hpungsan/shelf/internal/config"
	"github.com/hpungsan/shelf/internal/errors"
	"github.com/hpungsan/shelf/internal/metrics"
	"github.com/hpungsan/shelf/internal/ops"
	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/selection"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	catalog  *prompt.Catalog
	cfg      *config.Config
	sessions *Sessions
	renderer *Renderer
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

// HandleBrowse handles GET /prompts with the filtered, sorted prompt list.
func (h *Handlers) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := ops.BrowseInput{
		Role:    q.Get("role"),
		Purpose: q.Get("purpose"),
		Special: q.Get("special"),
		Search:  q.Get("q"),
		Sort:    q.Get("sort"),
	}
	if input.Sort == "" {
		input.Sort = h.cfg.DefaultSort
	}

	set, err := h.sessions.Snapshot(r.Context(), w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.Browse(r.Context(), h.catalog, set, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.metrics.RecordSelection(result.Total)

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data := BrowsePageData{
		PageData: PageData{
			Title:   result.Heading,
			Version: h.renderer.version,
			Theme:   themeFromRequest(r, h.cfg.Theme),
		},
		Result:   result,
		Query:    input,
		Roles:    roleOptions(result.Filters.Role),
		Purposes: purposeOptions(result.Filters.Purpose),
		Specials: specialOptions(result.Filters.Special),
		Sorts:    sortOptions(result.Sort),
	}

	// The search box swaps only the result list.
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "browse", "results", data)
		return
	}
	h.renderer.renderPage(w, r, "browse", data)
}

// HandleDetail handles GET /prompts/{id} with a single prompt with its content.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	set, err := h.sessions.Snapshot(r.Context(), w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	out, err := ops.Show(r.Context(), h.catalog, set, ops.ShowInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   out.Title,
			Version: h.renderer.version,
			Theme:   themeFromRequest(r, h.cfg.Theme),
		},
		Prompt:      out,
		Segments:    prompt.Segments(out.Content),
		UsageHTML:   renderMarkdown(out.UsageInstructions),
		ExampleHTML: renderMarkdown(out.ExampleOutput),
	})
}

// HandleRaw handles GET /prompts/{id}/raw with the content as plain text, used
// by the copy button.
func (h *Handlers) HandleRaw(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	item, ok := h.catalog.Get(id)
	if !ok {
		h.renderer.renderError(w, r, errors.NewNotFound(id))
		return
	}
	h.metrics.RecordCopy()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(item.Content))
}

// HandleToggleSave handles POST /prompts/{id}/save to flip the saved state.
func (h *Handlers) HandleToggleSave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	mgr, err := h.sessions.Manager(r.Context(), w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	out, err := ops.ToggleSave(r.Context(), h.catalog, mgr, ops.ToggleSaveInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.metrics.RecordToggle(out.Saved)
	h.log.Debug().Int("id", id).Bool("saved", out.Saved).Msg("save toggled")

	if isHTMX(r) {
		h.renderer.renderBlock(w, http.StatusOK, "detail", "save-button",
			SaveButtonData{ID: out.ID, Saved: out.Saved, DisplaySaves: out.DisplaySaves, Return: r.FormValue("return")})
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}

	http.Redirect(w, r, returnPath(r, "/prompts/"+strconv.Itoa(id)), http.StatusSeeOther)
}

// HandleTheme handles POST /settings/theme to remember the appearance choice.
func (h *Handlers) HandleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	theme := r.FormValue("theme")
	if !validTheme(theme) {
		h.renderer.renderError(w, r, errors.NewInvalidValue("theme", theme, []string{"light", "dark", "system"}))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]string{"theme": theme})
		return
	}
	http.Redirect(w, r, returnPath(r, "/prompts"), http.StatusSeeOther)
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"prompts": h.catalog.Len(),
		"version": h.renderer.version,
	})
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewInvalidRequest("prompt id must be an integer")
	}
	return id, nil
}

// returnPath returns the form's "return" value when it is a local path,
// otherwise fallback.
func returnPath(r *http.Request, fallback string) string {
	ret := r.FormValue("return")
	if ret == "" || !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") || strings.HasPrefix(ret, "/\\") {
		return fallback
	}
	u, err := url.Parse(ret)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return ret
}

func validTheme(t string) bool {
	return t == "light" || t == "dark" || t == "system"
}

// themeFromRequest returns the theme cookie if valid, else fallback, else "system".
func themeFromRequest(r *http.Request, fallback string) string {
	if c, err := r.Cookie(themeCookie); err == nil && validTheme(c.Value) {
		return c.Value
	}
	if validTheme(fallback) {
		return fallback
	}
	return "system"
}

func roleOptions(current prompt.Role) []Option {
	opts := []Option{{Value: "", Label: "All roles", Selected: current == ""}}
	for _, r := range prompt.Roles {
		opts = append(opts, Option{Value: string(r), Label: string(r), Selected: r == current})
	}
	return opts
}

func purposeOptions(current prompt.Purpose) []Option {
	opts := []Option{{Value: "", Label: "All purposes", Selected: current == ""}}
	for _, p := range prompt.Purposes {
		opts = append(opts, Option{Value: string(p), Label: string(p), Selected: p == current})
	}
	return opts
}

func specialOptions(current selection.SpecialFilter) []Option {
	opts := make([]Option, 0, len(selection.SpecialFilters))
	for _, f := range selection.SpecialFilters {
		opts = append(opts, Option{Value: string(f), Label: f.Label(), Selected: f == current})
	}
	return opts
}

func sortOptions(current selection.SortKey) []Option {
	return []Option{
		{Value: string(selection.SortPopularity), Label: "Most popular", Selected: current == selection.SortPopularity},
		{Value: string(selection.SortRecency), Label: "Latest", Selected: current == selection.SortRecency},
	}
}
