package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"logineko/internal/apiclient"
	"logineko/internal/security"
	"logineko/internal/service"
	"logineko/internal/session"

	"github.com/gorilla/sessions"
)

// pages is the rendering support shared by every page handler.
type pages struct {
	templates *template.Template
	cookies   sessions.Store
	csrf      *security.FormTokens
}

func newPages(templates *template.Template, cookies sessions.Store, csrf *security.FormTokens) pages {
	return pages{templates: templates, cookies: cookies, csrf: csrf}
}

// layout collects the header data and consumes pending flashes, so it must
// be called before anything is written.
func (p pages) layout(w http.ResponseWriter, r *http.Request, title, active string) Layout {
	sid, _ := session.IDFromContext(r.Context())
	token, err := p.csrf.Issue(sid)
	if err != nil {
		log.Printf("Failed to generate CSRF token: %v", err)
	}
	return Layout{
		Title:     title + " - Logineko Admin",
		Active:    active,
		Admin:     GetAdminFromContext(r.Context()),
		CSRFToken: token,
		Flashes:   popFlashes(p.cookies, w, r),
	}
}

// render executes the page into a buffer first so a template error never
// leaves a half-written page.
func (p pages) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering "+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p pages) flash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	addFlash(p.cookies, w, r, kind, msg)
}

// flashLoadFailures queues one error notification per failed view.
func (p pages) flashLoadFailures(w http.ResponseWriter, r *http.Request, msgs ...string) {
	for _, msg := range msgs {
		if msg != "" {
			p.flash(w, r, flashError, msg)
		}
	}
}

// writeFailed reports a failed backend write and sends the browser back.
func (p pages) writeFailed(w http.ResponseWriter, r *http.Request, what string, err error, back string) {
	log.Printf("Failed to %s: %v", what, err)
	p.flash(w, r, flashError, "Failed to "+what+". "+apiclient.UserMessage(err))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// pathID parses a numeric path wildcard.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

func formString(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// formInt parses an integer field; unparseable input becomes -1 so that
// range rules reject it instead of silently accepting zero.
func formInt(r *http.Request, key string) int {
	v := formString(r, key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func formInt64(r *http.Request, key string) int64 {
	n, err := strconv.ParseInt(formString(r, key), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func formFloat(r *http.Request, key string) float64 {
	v := formString(r, key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return -1
	}
	return f
}

func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.FormValue(key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// formFile returns the uploaded file for key, or an empty File when none
// was chosen. The caller must call the returned close func.
func formFile(r *http.Request, key string) (apiclient.File, func(), error) {
	f, header, err := r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return apiclient.File{}, func() {}, nil
	}
	if err != nil {
		return apiclient.File{}, func() {}, err
	}
	if header.Size == 0 {
		f.Close()
		return apiclient.File{}, func() {}, nil
	}
	return apiclient.File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     io.Reader(f),
	}, func() { f.Close() }, nil
}

// pageQuery reads the search box and page number. A size outside
// 1..MaxPageSize falls back to the default.
func pageQuery(r *http.Request) (string, int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if size < 1 || size > service.MaxPageSize {
		size = service.DefaultPageSize
	}
	return strings.TrimSpace(q.Get("q")), page, size
}

// newPager builds pagination links that keep the current query.
func newPager[T any](r *http.Request, p service.Page[T]) Pager {
	link := func(n int) string {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(n))
		return r.URL.Path + "?" + q.Encode()
	}
	pager := Pager{
		Number: p.Number,
		Pages:  p.Pages,
		Total:  p.Total,
		First:  p.First(),
		Last:   p.Last(),
	}
	if p.HasPrev() {
		pager.PrevURL = link(p.Prev())
	}
	if p.HasNext() {
		pager.NextURL = link(p.Next())
	}
	return pager
}

func withQuery(path string, q string) string {
	if q == "" {
		return path
	}
	return path + "?" + url.Values{"q": {q}}.Encode()
}
