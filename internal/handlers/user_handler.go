package handlers

import (
	"html/template"
	"log"
	"net/http"
	"time"

	"logineko/internal/security"
	"logineko/internal/service"

	"github.com/gorilla/sessions"
)

// UserHandler lists learner accounts.
type UserHandler struct {
	pages
	accountService *service.AccountService
}

// NewUserHandler creates a new user handler
func NewUserHandler(accountService *service.AccountService, templates *template.Template, cookies sessions.Store, csrf *security.FormTokens) *UserHandler {
	return &UserHandler{
		pages:          newPages(templates, cookies, csrf),
		accountService: accountService,
	}
}

// List handles GET /users?q=&page=&size=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	query, number, size := pageQuery(r)

	view := h.accountService.List(r.Context(), query)
	h.flashLoadFailures(w, r, view.Message)
	page := service.Paginate(view.Data, number, size)

	data := UsersViewData{
		Layout:       h.layout(w, r, "Users", "users"),
		Query:        query,
		View:         view,
		Page:         page,
		Pager:        newPager(r, page),
		PremiumCount: service.PremiumCount(view.Data),
		ExportURL:    withQuery("/users/export.csv", query),
	}
	h.render(w, http.StatusOK, "users.tmpl", data)
}

// Export handles GET /users/export.csv?q= with the same filter as the list.
func (h *UserHandler) Export(w http.ResponseWriter, r *http.Request) {
	query, _, _ := pageQuery(r)

	view := h.accountService.List(r.Context(), query)
	if !view.OK() {
		h.flash(w, r, flashError, view.Message)
		http.Redirect(w, r, withQuery("/users", query), http.StatusSeeOther)
		return
	}

	filename := "users_" + time.Now().Format("20060102_150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := service.WriteAccountsCSV(w, view.Data); err != nil {
		log.Printf("Error writing users export: %v", err)
	}
}
