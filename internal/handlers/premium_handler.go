package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"logineko/internal/models"
	"logineko/internal/security"
	"logineko/internal/service"
	"logineko/internal/validation"

	"github.com/gorilla/sessions"
)

// PremiumHandler manages the premium subscription plans.
type PremiumHandler struct {
	pages
	pricingService *service.PricingService
}

// NewPremiumHandler creates a new premium handler
func NewPremiumHandler(pricingService *service.PricingService, templates *template.Template, cookies sessions.Store, csrf *security.FormTokens) *PremiumHandler {
	return &PremiumHandler{
		pages:          newPages(templates, cookies, csrf),
		pricingService: pricingService,
	}
}

// List handles GET /premium?q=
func (h *PremiumHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderPlans(w, r, http.StatusOK, premiumRender{})
}

type premiumRender struct {
	form   *validation.PriceForm
	errs   validation.Errors
	editID int64 // zero for the create modal
}

func (h *PremiumHandler) renderPlans(w http.ResponseWriter, r *http.Request, status int, pr premiumRender) {
	query := r.URL.Query().Get("q")
	view := h.pricingService.List(r.Context(), query)
	h.flashLoadFailures(w, r, view.Message)

	layout := h.layout(w, r, "Premium", "premium")

	cards := make([]PriceCard, 0, len(view.Data))
	for _, p := range view.Data {
		form := validation.PriceForm{Price: p.Price, Duration: p.Duration}
		var errs validation.Errors
		if pr.form != nil && pr.editID == p.ID {
			form, errs = *pr.form, pr.errs
		}
		cards = append(cards, PriceCard{
			Price: p,
			Edit: FormView[validation.PriceForm]{
				ID: fmt.Sprintf("price-edit-%d", p.ID), Title: "Edit plan",
				Action: fmt.Sprintf("/premium/%d", p.ID), Submit: "Save",
				CSRFToken: layout.CSRFToken, Form: form, Errors: errs, Open: errs != nil,
			},
		})
	}

	createForm := validation.PriceForm{Duration: 1}
	var createErrs validation.Errors
	if pr.form != nil && pr.editID == 0 {
		createForm, createErrs = *pr.form, pr.errs
	}

	data := PremiumViewData{
		Layout: layout,
		Query:  query,
		View:   view,
		Cards:  cards,
		Create: FormView[validation.PriceForm]{
			ID: "price-create", Title: "New plan", Action: "/premium", Submit: "Create",
			CSRFToken: layout.CSRFToken, Form: createForm, Errors: createErrs, Open: createErrs != nil, Creating: true,
		},
	}
	h.render(w, status, "premium.tmpl", data)
}

// Create handles POST /premium
func (h *PremiumHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := priceFormFromRequest(r)

	_, err := h.pricingService.Create(r.Context(), form)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		h.renderPlans(w, r, http.StatusUnprocessableEntity, premiumRender{form: &form, errs: verrs})
	case err != nil:
		h.writeFailed(w, r, "create plan", err, "/premium")
	default:
		h.flash(w, r, flashSuccess, fmt.Sprintf("Plan for %s created.", models.SubscriptionPrice{Duration: form.Duration}.DurationLabel()))
		http.Redirect(w, r, "/premium", http.StatusSeeOther)
	}
}

// Update handles POST /premium/{id}
func (h *PremiumHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	form := priceFormFromRequest(r)

	_, err := h.pricingService.Update(r.Context(), id, form)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		h.renderPlans(w, r, http.StatusUnprocessableEntity, premiumRender{form: &form, errs: verrs, editID: id})
	case err != nil:
		h.writeFailed(w, r, "update plan", err, "/premium")
	default:
		h.flash(w, r, flashSuccess, "Plan updated.")
		http.Redirect(w, r, "/premium", http.StatusSeeOther)
	}
}

// Delete handles POST /premium/{id}/delete
func (h *PremiumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.pricingService.Delete(r.Context(), id); err != nil {
		h.writeFailed(w, r, "delete plan", err, "/premium")
		return
	}
	h.flash(w, r, flashSuccess, "Plan deleted.")
	http.Redirect(w, r, "/premium", http.StatusSeeOther)
}

func priceFormFromRequest(r *http.Request) validation.PriceForm {
	return validation.PriceForm{
		Price:    formFloat(r, "price"),
		Duration: formInt(r, "duration"),
	}
}
