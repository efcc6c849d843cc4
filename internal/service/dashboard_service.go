package service

import (
	"context"
	"time"

	"logineko/internal/apiclient"
	"logineko/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// popularCourseLimit is how many courses the dashboard ranks.
const popularCourseLimit = 5

// recentAccountLimit is how many accounts the latest users panel lists.
const recentAccountLimit = 4

// Dashboard is everything shown on the statistics page. Each panel keeps
// its own outcome so one failing endpoint never blanks the others.
type Dashboard struct {
	Year          int
	Stats         View[*models.AdminStat]
	Subscriptions View[*models.SubscriptionStatus]
	Churn         View[[]models.ChurnStat]
	Popular       View[[]models.PopularCourse]
	Revenue       View[[]models.RevenueByType]
	Active        View[*models.ActiveUserStat]
	Recent        View[[]models.Account]
}

// Card is one of the four summary tiles.
type Card struct {
	Title string
	Value float64
	Kind  string // "count", "money" or "percent"
}

// Cards returns total users, premium users, revenue and growth. Values are
// zero when the admin statistics could not be loaded.
func (d *Dashboard) Cards() []Card {
	var s models.AdminStat
	if d.Stats.OK() && d.Stats.Data != nil {
		s = *d.Stats.Data
	}
	return []Card{
		{Title: "Total users", Value: float64(s.TotalUsers), Kind: "count"},
		{Title: "Premium users", Value: float64(s.TotalPremiumUsers), Kind: "count"},
		{Title: "Revenue", Value: s.TotalRevenue, Kind: "money"},
		{Title: "Growth", Value: s.GrowthRate, Kind: "percent"},
	}
}

// YearSummary condenses the monthly table.
type YearSummary struct {
	TotalRevenue   float64
	MonthlyAverage float64
	BestMonth      int // 0 when there is no revenue at all
	BestRevenue    float64
	Growth         float64
}

// Summary computes the yearly summary from the monthly breakdown.
func (d *Dashboard) Summary() YearSummary {
	var sum YearSummary
	if !d.Stats.OK() || d.Stats.Data == nil {
		return sum
	}
	months := d.Stats.Data.MonthlyStats
	for _, m := range months {
		sum.TotalRevenue += m.Revenue
		if m.Revenue > sum.BestRevenue {
			sum.BestRevenue = m.Revenue
			sum.BestMonth = m.Month
		}
	}
	if len(months) > 0 {
		sum.MonthlyAverage = sum.TotalRevenue / float64(len(months))
	}
	sum.Growth = d.Stats.Data.GrowthRate
	return sum
}

// Failures lists the message of every panel that failed to load.
func (d *Dashboard) Failures() []string {
	var out []string
	for _, msg := range []string{
		d.Stats.Message, d.Subscriptions.Message, d.Churn.Message,
		d.Popular.Message, d.Revenue.Message, d.Active.Message,
		d.Recent.Message,
	} {
		if msg != "" {
			out = append(out, msg)
		}
	}
	return out
}

// DashboardService loads the statistics page.
type DashboardService struct {
	api *apiclient.Client
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(api *apiclient.Client) *DashboardService {
	return &DashboardService{api: api}
}

// Load fetches the six statistics endpoints and the latest accounts
// concurrently and waits for all of them. It always returns a dashboard; failures are recorded per panel.
func (s *DashboardService) Load(ctx context.Context, year int) *Dashboard {
	if year <= 0 {
		year = time.Now().Year()
	}
	ctx, span := otel.Tracer("logineko-admin/service").Start(ctx, "dashboard.load")
	defer span.End()
	span.SetAttributes(attribute.Int("dashboard.year", year))

	d := &Dashboard{Year: year}

	// Every goroutine returns nil so one failure never cancels its siblings.
	var g errgroup.Group
	g.Go(func() error {
		d.Stats = Load(ctx, "statistics", func(ctx context.Context) (*models.AdminStat, error) {
			return s.api.AdminStatistics(ctx, year)
		})
		return nil
	})
	g.Go(func() error {
		d.Subscriptions = Load(ctx, "subscription status", s.api.SubscriptionStatus)
		return nil
	})
	g.Go(func() error {
		d.Churn = Load(ctx, "churn statistics", func(ctx context.Context) ([]models.ChurnStat, error) {
			return s.api.ChurnStatistics(ctx, year)
		})
		return nil
	})
	g.Go(func() error {
		d.Popular = Load(ctx, "popular courses", func(ctx context.Context) ([]models.PopularCourse, error) {
			return s.api.PopularCourses(ctx, popularCourseLimit)
		})
		return nil
	})
	g.Go(func() error {
		d.Revenue = Load(ctx, "revenue by type", func(ctx context.Context) ([]models.RevenueByType, error) {
			return s.api.RevenueByType(ctx, year)
		})
		return nil
	})
	g.Go(func() error {
		d.Active = Load(ctx, "active users", s.api.ActiveUsers)
		return nil
	})
	g.Go(func() error {
		d.Recent = Load(ctx, "latest users", func(ctx context.Context) ([]models.Account, error) {
			accounts, err := s.api.ListAccounts(ctx)
			if len(accounts) > recentAccountLimit {
				accounts = accounts[:recentAccountLimit]
			}
			return accounts, err
		})
		return nil
	})
	_ = g.Wait()

	span.SetAttributes(attribute.Int("dashboard.failures", len(d.Failures())))
	return d
}
