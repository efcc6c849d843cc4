package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"logineko/internal/apiclient/apitest"
	"logineko/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replyStatistics(backend *apitest.Server) {
	backend.Reply("GET /statistics/admin", models.AdminStat{
		Year: 2025, TotalUsers: 1200, TotalPremiumUsers: 300, TotalRevenue: 45000000, GrowthRate: 12.5,
		MonthlyStats: []models.MonthlyStat{
			{Month: 1, Revenue: 10000000, NewUsers: 100, Growth: 0},
			{Month: 2, Revenue: 20000000, NewUsers: 150, Growth: 100},
			{Month: 3, Revenue: 0, NewUsers: 20, Growth: -100},
		},
	})
	backend.Reply("GET /statistics/subscriptions/status", models.SubscriptionStatus{Active: 300, Expired: 40, Cancelled: 5})
	backend.Reply("GET /statistics/subscriptions/churn", []models.ChurnStat{{Month: 1, ChurnRate: 2.5, Churned: 3}})
	backend.Reply("GET /statistics/courses/popular", []models.PopularCourse{{CourseID: 42, CourseName: "Counting", Enrollments: 90}})
	backend.Reply("GET /statistics/revenue/by-type", []models.RevenueByType{{Type: "12 months", Revenue: 5000000, Count: 10}})
	backend.Reply("GET /statistics/users/active", models.ActiveUserStat{DailyActive: 80, WeeklyActive: 200, MonthlyActive: 600})
	backend.Reply("GET /api/all", []models.Account{
		{ID: 1, Username: "ann", Email: "ann@example.com"},
		{ID: 2, Username: "bao", Email: "bao@example.com"},
		{ID: 3, Username: "chi", Email: "chi@example.com"},
		{ID: 4, Username: "dung", Email: "dung@example.com"},
		{ID: 5, Username: "em", Email: "em@example.com"},
	})
}

func TestLoginThenDashboard(t *testing.T) {
	h := newHarness(t)
	replyStatistics(h.backend)

	h.login()

	resp, body := h.get("/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	statPaths := []string{
		"/statistics/admin",
		"/statistics/subscriptions/status",
		"/statistics/subscriptions/churn",
		"/statistics/courses/popular",
		"/statistics/revenue/by-type",
		"/statistics/users/active",
		"/api/all",
	}
	for _, p := range statPaths {
		reqs := h.backend.RequestsTo(http.MethodGet, p)
		require.Len(t, reqs, 1, p)
		assert.Equal(t, "access-123", reqs[0].Bearer(), p)
	}

	assert.Equal(t, 4, strings.Count(body, `class="card stat-card`))
	assert.Contains(t, body, "1.200")
	assert.Contains(t, body, "45.000.000 ₫")
	assert.Contains(t, body, "&#43;12.5%", "html/template escapes the sign")
	assert.Contains(t, body, "Signed in successfully.")
	assert.Contains(t, body, "Counting")

	assert.Equal(t, 4, strings.Count(body, `class="recent-user"`))
	assert.Contains(t, body, "dung@example.com")
	assert.NotContains(t, body, "em@example.com")
	assert.Equal(t, 2, strings.Count(body, `class="tag tag-blue">Good<`))
	assert.Equal(t, 1, strings.Count(body, `class="tag tag-red">Paused<`))
}

func TestLoginWithWrongPasswordStaysOnLoginPage(t *testing.T) {
	h := newHarness(t)
	h.backend.Fail("POST /api/login/exchange", http.StatusUnauthorized)

	resp, body := h.postForm("/login", url.Values{
		"csrf_token": {h.csrfToken("/login")},
		"username":   {"admin"},
		"password":   {"wrong-password"},
	})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid username or password.")
	assert.Equal(t, 0, h.store.Count())
}

func TestLoginFormValidationSendsNothing(t *testing.T) {
	h := newHarness(t)

	resp, body := h.postForm("/login", url.Values{
		"csrf_token": {h.csrfToken("/login")},
		"username":   {"ad"},
		"password":   {"123"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "field-error")
	assert.Empty(t, h.backend.Requests())
}

func TestLoginReturnsToRequestedPage(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply("POST /api/login/exchange", models.TokenExchangeResponse{AccessToken: "access-123"})

	resp, _ := h.postForm("/login", url.Values{
		"csrf_token": {h.csrfToken("/login?next=%2Fusers%3Fq%3Dann")},
		"username":   {"admin"},
		"password":   {"secret123"},
		"next":       {"/users?q=ann"},
	})

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/users?q=ann", resp.Header.Get("Location"))
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t)
	h.login()
	require.Equal(t, 1, h.store.Count())

	h.backend.Reply("GET /api/all", []models.Account{})
	token := h.csrfToken("/users")
	resp, _ := h.postForm("/logout", url.Values{"csrf_token": {token}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, 0, h.store.Count())

	resp, _ = h.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestSecondLoginEndsPreviousSession(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply("GET /api/all", []models.Account{})
	h.login()
	require.Equal(t, 1, h.store.Count())

	// The login page redirects a signed-in browser, so take the token from another page.
	resp, _ := h.postForm("/login", url.Values{
		"csrf_token": {h.csrfToken("/users")},
		"username":   {"admin"},
		"password":   {"secret123"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	assert.Equal(t, 1, h.store.Count())
	assert.Len(t, h.backend.RequestsTo(http.MethodPost, "/api/login/exchange"), 2)

	resp, _ = h.get("/users")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUsersSearchAndExport(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply("GET /api/all", []models.Account{
		{ID: 1, Username: "ann", FullName: "Ann Nguyen", Email: "ann@example.com", Premium: true},
		{ID: 2, Username: "bao", FullName: "Bao Tran", Email: "bao@example.com"},
	})
	h.login()

	resp, body := h.get("/users?q=nguyen")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ann@example.com")
	assert.NotContains(t, body, "bao@example.com")

	resp, body = h.get("/users/export.csv?q=bao")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, body, "bao@example.com")
	assert.NotContains(t, body, "ann@example.com")
}

func TestUsersPageSizeIsBounded(t *testing.T) {
	h := newHarness(t)
	accounts := make([]models.Account, 12)
	for i := range accounts {
		accounts[i] = models.Account{ID: int64(i + 1), Username: fmt.Sprintf("user%02d", i+1), Email: fmt.Sprintf("user%02d@example.com", i+1)}
	}
	h.backend.Reply("GET /api/all", accounts)
	h.login()

	for _, size := range []string{"9223372036854775805", "-1", "101", "abc"} {
		resp, body := h.get("/users?size=" + size)
		require.Equal(t, http.StatusOK, resp.StatusCode, "size=%s", size)
		assert.Contains(t, body, "user10@example.com", "size=%s", size)
		assert.NotContains(t, body, "user11@example.com", "size=%s falls back to the default page", size)
	}

	_, body := h.get("/users?size=100")
	assert.Contains(t, body, "user12@example.com")
}

func TestCreateCourseWithoutThumbnailIsRejected(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply("GET /courses", []models.Course{})
	h.login()

	resp, body := h.postMultipart("/courses", map[string]string{
		"csrf_token":  h.csrfToken("/courses"),
		"name":        "Shapes",
		"description": "Circles and squares",
		"price":       "0",
		"isActive":    "on",
	}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Please choose a file")
	assert.Contains(t, body, `value="Shapes"`)
	assert.Empty(t, h.backend.RequestsTo(http.MethodPost, "/courses"))
}

func TestCreateCourse(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply("GET /courses", []models.Course{})
	h.backend.Reply("POST /courses", models.Course{ID: 9, Name: "Shapes"})
	h.login()

	resp, _ := h.postMultipart("/courses", map[string]string{
		"csrf_token":  h.csrfToken("/courses"),
		"name":        "Shapes",
		"description": "Circles and squares",
		"price":       "49000",
		"isPremium":   "on",
	}, map[string]string{"thumbnail": "PNG"})

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/courses", resp.Header.Get("Location"))

	reqs := h.backend.RequestsTo(http.MethodPost, "/courses")
	require.Len(t, reqs, 1)
	var sent models.CourseRequest
	require.NoError(t, reqs[0].DecodePart("request", &sent))
	assert.Equal(t, models.CourseRequest{Name: "Shapes", Description: "Circles and squares", Price: 49000, IsPremium: true}, sent)
	assert.Empty(t, reqs[0].Bearer(), "course writes are public")
}

// catalogBackend keeps created lessons so the course page sees them.
func catalogBackend(h *harness) {
	var (
		mu      sync.Mutex
		lessons []models.Lesson
	)
	h.backend.Reply("GET /courses/{id}", models.Course{ID: 42, Name: "Counting", Description: "Numbers 1-10"})
	h.backend.Handle("POST /lessons", func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("request")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		var req models.LessonRequest
		if err := decodeJSON(f, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		l := models.Lesson{ID: int64(len(lessons) + 1), CourseID: req.CourseID, Name: req.Name, Order: req.Order, DifficultyLevel: req.DifficultyLevel}
		lessons = append(lessons, l)
		mu.Unlock()
		apitest.WriteData(w, r, l)
	})
	h.backend.Handle("GET /lessons/courses/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		out := []models.Lesson{}
		for _, l := range lessons {
			if r.PathValue("id") == "42" && l.CourseID == 42 {
				out = append(out, l)
			}
		}
		apitest.WriteData(w, r, out)
	})
}

func TestCreateLessonShowsOnCoursePage(t *testing.T) {
	h := newHarness(t)
	catalogBackend(h)
	h.login()

	_, body := h.get("/courses/42")
	assert.Contains(t, body, "No lessons yet")

	token := h.csrfToken("/courses/42")
	fetches := len(h.backend.RequestsTo(http.MethodGet, "/lessons/courses/42"))

	resp, _ := h.postMultipart("/courses/42/lessons", map[string]string{
		"csrf_token":      token,
		"name":            "Lesson 1",
		"description":     "One to five",
		"order":           "1",
		"minAge":          "3",
		"maxAge":          "6",
		"difficultyLevel": "1",
		"duration":        "15",
		"isActive":        "on",
	}, map[string]string{"thumbnail": "PNG"})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/courses/42", resp.Header.Get("Location"))

	resp, body = h.get("/courses/42")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Lesson 1")
	assert.Contains(t, body, "Lesson &#34;Lesson 1&#34; created.")
	assert.Len(t, h.backend.RequestsTo(http.MethodGet, "/lessons/courses/42"), fetches+1, "the list is re-fetched after the write")
}

func TestLessonAgeRangeIsValidated(t *testing.T) {
	h := newHarness(t)
	catalogBackend(h)
	h.login()

	resp, body := h.postMultipart("/courses/42/lessons", map[string]string{
		"csrf_token":      h.csrfToken("/courses/42"),
		"name":            "Lesson 1",
		"order":           "1",
		"minAge":          "8",
		"maxAge":          "4",
		"difficultyLevel": "4",
		"duration":        "15",
	}, map[string]string{"thumbnail": "PNG"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "field-error")
	assert.Empty(t, h.backend.RequestsTo(http.MethodPost, "/lessons"))
}

func TestVideoWithAnswerOutsideOptionsIsRejected(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply("GET /lessons/{id}", models.Lesson{ID: 7, CourseID: 42, Name: "Lesson 1"})
	h.backend.Reply("GET /videos", []models.Video{})
	h.login()

	resp, body := h.postMultipart("/courses/42/lessons/7/videos", map[string]string{
		"csrf_token": h.csrfToken("/courses/42/lessons/7"),
		"title":      "Intro",
		"order":      "1",
		"duration":   "30",
		"question":   "2+2?",
		"optionA":    "3",
		"optionB":    "4",
		"optionC":    "5",
		"optionD":    "6",
		"answer":     "E",
	}, map[string]string{"video": "MP4", "thumbnail": "PNG"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `value="E"`)
	assert.Empty(t, h.backend.RequestsTo(http.MethodPost, "/videos"))
}

func TestUpdateLessonReturnsToCourse(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply("PATCH /lessons/{id}", models.Lesson{ID: 7, CourseID: 42, Name: "Lesson 1b"})
	h.backend.Reply("GET /lessons/{id}", models.Lesson{ID: 7, CourseID: 42, Name: "Lesson 1"})
	h.backend.Reply("GET /videos", []models.Video{})
	h.login()

	resp, _ := h.postMultipart("/courses/42/lessons/7", map[string]string{
		"csrf_token":      h.csrfToken("/courses/42/lessons/7"),
		"courseId":        "42",
		"name":            "Lesson 1b",
		"order":           "1",
		"minAge":          "3",
		"maxAge":          "6",
		"difficultyLevel": "2",
		"duration":        "20",
	}, nil)

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/courses/42", resp.Header.Get("Location"))
	require.Len(t, h.backend.RequestsTo(http.MethodPatch, "/lessons/7"), 1)
}

func TestBackendFailureBecomesFlash(t *testing.T) {
	h := newHarness(t)
	h.backend.Fail("GET /courses", http.StatusInternalServerError)
	h.login()

	resp, body := h.get("/courses")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "flash-error")
	assert.Contains(t, body, "Could not load courses.")
	assert.Contains(t, body, "No courses found")
}

func TestPremiumPlans(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply("GET /subscription-prices", []models.SubscriptionPrice{
		{ID: 2, Price: 990000, Duration: 12},
		{ID: 1, Price: 99000, Duration: 1},
	})
	h.backend.Reply("POST /subscription-prices", models.SubscriptionPrice{ID: 3, Price: 499000, Duration: 6})
	h.backend.Handle("DELETE /subscription-prices/{id}", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteData(w, r, nil)
	})
	h.login()

	resp, body := h.get("/premium")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Less(t, strings.Index(body, "1 month"), strings.Index(body, "12 months"), "plans are shortest first")
	assert.Contains(t, body, "99.000 ₫")

	token := h.csrfToken("/premium")

	resp, body = h.postForm("/premium", url.Values{"csrf_token": {token}, "price": {"0"}, "duration": {"40"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "field-error")
	assert.Empty(t, h.backend.RequestsTo(http.MethodPost, "/subscription-prices"))

	resp, _ = h.postForm("/premium", url.Values{"csrf_token": {token}, "price": {"499000"}, "duration": {"6"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	reqs := h.backend.RequestsTo(http.MethodPost, "/subscription-prices")
	require.Len(t, reqs, 1)
	assert.Equal(t, "access-123", reqs[0].Bearer())
	var sent models.SubscriptionPriceRequest
	require.NoError(t, reqs[0].DecodeJSON(&sent))
	assert.Equal(t, models.SubscriptionPriceRequest{Price: 499000, Duration: 6}, sent)

	resp, _ = h.postForm("/premium/2/delete", url.Values{"csrf_token": {token}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Len(t, h.backend.RequestsTo(http.MethodDelete, "/subscription-prices/2"), 1)
}
