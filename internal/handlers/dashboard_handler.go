package handlers

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"logineko/internal/security"
	"logineko/internal/service"
	"logineko/internal/utils"

	"github.com/gorilla/sessions"
)

// yearsShown is how many years the year selector offers.
const yearsShown = 5

// DashboardHandler renders the statistics page.
type DashboardHandler struct {
	pages
	dashboardService *service.DashboardService
	defaultYear      int
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, defaultYear int, templates *template.Template, cookies sessions.Store, csrf *security.FormTokens) *DashboardHandler {
	return &DashboardHandler{
		pages:            newPages(templates, cookies, csrf),
		dashboardService: dashboardService,
		defaultYear:      defaultYear,
	}
}

// Show handles GET /dashboard?year=
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	year := h.defaultYear
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y >= 2000 && y <= 9999 {
		year = y
	}

	d := h.dashboardService.Load(r.Context(), year)
	h.flashLoadFailures(w, r, d.Failures()...)

	data := DashboardViewData{
		Layout:    h.layout(w, r, "Dashboard", "dashboard"),
		Year:      d.Year,
		Years:     yearOptions(d.Year),
		Dashboard: d,
		Cards:     cardViews(d.Cards()),
		Summary:   d.Summary(),
		Months:    monthRows(d),
	}
	h.render(w, http.StatusOK, "dashboard.tmpl", data)
}

func cardViews(cards []service.Card) []CardView {
	icons := []string{"users", "crown", "wallet", "trend"}
	out := make([]CardView, 0, len(cards))
	for i, c := range cards {
		var value string
		switch c.Kind {
		case "money":
			value = utils.FormatVND(c.Value)
		case "percent":
			value = utils.FormatPercent(c.Value)
		default:
			value = utils.FormatNumber(c.Value)
		}
		out = append(out, CardView{Title: c.Title, Value: value, Icon: icons[i%len(icons)]})
	}
	return out
}

func monthRows(d *service.Dashboard) []MonthRow {
	if !d.Stats.OK() || d.Stats.Data == nil {
		return nil
	}
	rows := make([]MonthRow, 0, len(d.Stats.Data.MonthlyStats))
	for _, m := range d.Stats.Data.MonthlyStats {
		status, color := monthStatus(m.Revenue)
		rows = append(rows, MonthRow{
			Label:           utils.MonthName(m.Month),
			Revenue:         utils.FormatVND(m.Revenue),
			NewUsers:        m.NewUsers,
			NewPremiumUsers: m.NewPremiumUsers,
			Growth:          utils.FormatPercent(m.Growth),
			GrowthColor:     utils.GrowthColor(m.Growth),
			Status:          status,
			StatusColor:     color,
		})
	}
	return rows
}

// monthStatus tags a month by whether it earned anything at all.
func monthStatus(revenue float64) (string, string) {
	if revenue == 0 {
		return "Paused", "red"
	}
	return "Good", "blue"
}

// yearOptions lists the selectable years, newest first, always including
// the selected one.
func yearOptions(selected int) []int {
	current := time.Now().Year()
	if selected > current {
		current = selected
	}
	years := make([]int, 0, yearsShown+1)
	for y := current; y > current-yearsShown; y-- {
		years = append(years, y)
	}
	if selected <= current-yearsShown {
		years = append(years, selected)
	}
	return years
}
