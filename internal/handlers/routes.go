package handlers

import (
	"html/template"
	"net/http"
	"time"

	"logineko/internal/apiclient"
	"logineko/internal/metrics"
	"logineko/internal/security"
	"logineko/internal/service"
	"logineko/internal/session"
)

// Deps is everything the router needs from main.
type Deps struct {
	Templates      *template.Template
	Store          *session.Store
	API            *apiclient.Client
	Metrics        *metrics.Metrics
	SessionSecret  string
	LoginRateLimit int // attempts per minute per client IP
	UploadMaxSize  int64
	StaticPath     string
	StatsYear      int
	Limiter        *security.RateLimiter // built from LoginRateLimit when nil
}

// NewRouter wires services, handlers and middleware into one handler.
func NewRouter(d Deps) http.Handler {
	cookies := NewCookieStore(d.SessionSecret)
	csrf := security.NewFormTokens(d.SessionSecret, security.DefaultFormTokenMaxAge)

	limiter := d.Limiter
	if limiter == nil && d.LoginRateLimit > 0 {
		limiter = security.NewRateLimiter(d.LoginRateLimit, time.Minute)
	}
	statsYear := d.StatsYear
	if statsYear == 0 {
		statsYear = time.Now().Year()
	}

	authService := service.NewAuthService(d.API, d.Store)
	dashboardService := service.NewDashboardService(d.API)
	accountService := service.NewAccountService(d.API)
	catalogService := service.NewCatalogService(d.API)
	pricingService := service.NewPricingService(d.API)

	mw := NewMiddleware(authService, cookies, csrf, limiter, d.Metrics, d.UploadMaxSize)
	authHandler := NewAuthHandler(authService, d.Templates, cookies, csrf, d.Metrics)
	dashboardHandler := NewDashboardHandler(dashboardService, statsYear, d.Templates, cookies, csrf)
	userHandler := NewUserHandler(accountService, d.Templates, cookies, csrf)
	courseHandler := NewCourseHandler(catalogService, d.Templates, cookies, csrf)
	premiumHandler := NewPremiumHandler(pricingService, d.Templates, cookies, csrf)

	// page wraps a protected read, action a protected write.
	page := func(h http.HandlerFunc) http.HandlerFunc {
		return mw.Session(mw.RequireAuth(h))
	}
	action := func(h http.HandlerFunc) http.HandlerFunc {
		return mw.Session(mw.RequireAuth(mw.CSRFProtect(h)))
	}

	mux := http.NewServeMux()

	if d.StaticPath != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(d.StaticPath))))
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": d.Store.Count()})
	})
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	// Public routes
	mux.HandleFunc("GET /{$}", authHandler.Home)
	mux.HandleFunc("GET /login", mw.Session(authHandler.ShowLogin))
	mux.HandleFunc("POST /login", mw.Session(mw.RateLimit(mw.CSRFProtect(authHandler.Login))))
	mux.HandleFunc("POST /logout", mw.Session(mw.CSRFProtect(authHandler.Logout)))

	// Dashboard and users
	mux.HandleFunc("GET /dashboard", page(dashboardHandler.Show))
	mux.HandleFunc("GET /users", page(userHandler.List))
	mux.HandleFunc("GET /users/export.csv", page(userHandler.Export))

	// Courses, lessons and videos
	mux.HandleFunc("GET /courses", page(courseHandler.ListCourses))
	mux.HandleFunc("POST /courses", action(courseHandler.CreateCourse))
	mux.HandleFunc("GET /courses/{id}", page(courseHandler.ShowCourse))
	mux.HandleFunc("POST /courses/{id}", action(courseHandler.UpdateCourse))
	mux.HandleFunc("POST /courses/{id}/lessons", action(courseHandler.CreateLesson))
	mux.HandleFunc("GET /courses/{courseId}/lessons/{id}", page(courseHandler.ShowLesson))
	mux.HandleFunc("POST /courses/{courseId}/lessons/{id}", action(courseHandler.UpdateLesson))
	mux.HandleFunc("POST /courses/{courseId}/lessons/{id}/videos", action(courseHandler.CreateVideo))
	mux.HandleFunc("POST /courses/{courseId}/lessons/{lessonId}/videos/{id}", action(courseHandler.UpdateVideo))
	mux.HandleFunc("GET /lessons", page(courseHandler.ListLessons))

	// Premium plans
	mux.HandleFunc("GET /premium", page(premiumHandler.List))
	mux.HandleFunc("POST /premium", action(premiumHandler.Create))
	mux.HandleFunc("POST /premium/{id}", action(premiumHandler.Update))
	mux.HandleFunc("POST /premium/{id}/delete", action(premiumHandler.Delete))

	return Logging(d.Metrics, mux)
}
