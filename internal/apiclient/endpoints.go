package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"logineko/internal/models"

	"golang.org/x/oauth2"
)

// call runs one request and unwraps its envelope into T.
func call[T any](ctx context.Context, c *Client, method, path string, body any, auth bool) (T, error) {
	env, err := c.do(ctx, method, path, body, auth)
	if err != nil {
		var zero T
		return zero, err
	}
	return Unwrap[T](env)
}

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

// Login exchanges operator credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	body := models.LoginRequest{Username: username, Password: password}
	resp, err := call[models.TokenExchangeResponse](ctx, c, http.MethodPost, "/api/login/exchange", body, false)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &EnvelopeError{Status: http.StatusOK, Message: "token exchange returned no access token", Path: "/api/login/exchange"}
	}
	return resp.OAuth2Token(c.now()), nil
}

// ListAccounts returns every learner account.
func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return call[[]models.Account](ctx, c, http.MethodGet, "/api/all", nil, true)
}

// AdminStatistics returns the yearly totals and monthly breakdown.
func (c *Client) AdminStatistics(ctx context.Context, year int) (*models.AdminStat, error) {
	path := withQuery("/statistics/admin", url.Values{"year": {strconv.Itoa(year)}})
	return call[*models.AdminStat](ctx, c, http.MethodGet, path, nil, true)
}

func (c *Client) SubscriptionStatus(ctx context.Context) (*models.SubscriptionStatus, error) {
	return call[*models.SubscriptionStatus](ctx, c, http.MethodGet, "/statistics/subscriptions/status", nil, true)
}

func (c *Client) ChurnStatistics(ctx context.Context, year int) ([]models.ChurnStat, error) {
	path := withQuery("/statistics/subscriptions/churn", url.Values{"year": {strconv.Itoa(year)}})
	return call[[]models.ChurnStat](ctx, c, http.MethodGet, path, nil, true)
}

func (c *Client) PopularCourses(ctx context.Context, limit int) ([]models.PopularCourse, error) {
	path := withQuery("/statistics/courses/popular", url.Values{"limit": {strconv.Itoa(limit)}})
	return call[[]models.PopularCourse](ctx, c, http.MethodGet, path, nil, true)
}

func (c *Client) RevenueByType(ctx context.Context, year int) ([]models.RevenueByType, error) {
	path := withQuery("/statistics/revenue/by-type", url.Values{"year": {strconv.Itoa(year)}})
	return call[[]models.RevenueByType](ctx, c, http.MethodGet, path, nil, true)
}

func (c *Client) ActiveUsers(ctx context.Context) (*models.ActiveUserStat, error) {
	return call[*models.ActiveUserStat](ctx, c, http.MethodGet, "/statistics/users/active", nil, true)
}

// Catalog endpoints are public on the backend.

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	return call[[]models.Course](ctx, c, http.MethodGet, "/courses", nil, false)
}

func (c *Client) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return call[*models.Course](ctx, c, http.MethodGet, fmt.Sprintf("/courses/%d", id), nil, false)
}

// CreateCourse uploads a new course. thumbnail is required by the backend.
func (c *Client) CreateCourse(ctx context.Context, req models.CourseRequest, thumbnail File) (*models.Course, error) {
	body := &Multipart{Request: req, Files: []File{withField(thumbnail, "thumbnail")}}
	return call[*models.Course](ctx, c, http.MethodPost, "/courses", body, false)
}

// UpdateCourse patches a course; a zero thumbnail keeps the current image.
func (c *Client) UpdateCourse(ctx context.Context, id int64, req models.CourseRequest, thumbnail File) (*models.Course, error) {
	body := &Multipart{Request: req, Files: []File{withField(thumbnail, "thumbnail")}}
	return call[*models.Course](ctx, c, http.MethodPatch, fmt.Sprintf("/courses/%d", id), body, false)
}

func (c *Client) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	return call[[]models.Lesson](ctx, c, http.MethodGet, "/lessons", nil, false)
}

func (c *Client) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	return call[*models.Lesson](ctx, c, http.MethodGet, fmt.Sprintf("/lessons/%d", id), nil, false)
}

func (c *Client) ListLessonsByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	return call[[]models.Lesson](ctx, c, http.MethodGet, fmt.Sprintf("/lessons/courses/%d", courseID), nil, false)
}

func (c *Client) CreateLesson(ctx context.Context, req models.LessonRequest, thumbnail File) (*models.Lesson, error) {
	body := &Multipart{Request: req, Files: []File{withField(thumbnail, "thumbnail")}}
	return call[*models.Lesson](ctx, c, http.MethodPost, "/lessons", body, false)
}

func (c *Client) UpdateLesson(ctx context.Context, id int64, req models.LessonRequest, thumbnail File) (*models.Lesson, error) {
	body := &Multipart{Request: req, Files: []File{withField(thumbnail, "thumbnail")}}
	return call[*models.Lesson](ctx, c, http.MethodPatch, fmt.Sprintf("/lessons/%d", id), body, false)
}

func (c *Client) ListVideosByLesson(ctx context.Context, lessonID int64) ([]models.Video, error) {
	path := withQuery("/videos", url.Values{"lessonId": {strconv.FormatInt(lessonID, 10)}})
	return call[[]models.Video](ctx, c, http.MethodGet, path, nil, false)
}

func (c *Client) CreateVideo(ctx context.Context, req models.VideoRequest, video, thumbnail File) (*models.Video, error) {
	body := &Multipart{Request: req, Files: []File{withField(thumbnail, "thumbnail"), withField(video, "video")}}
	return call[*models.Video](ctx, c, http.MethodPost, "/videos", body, false)
}

func (c *Client) UpdateVideo(ctx context.Context, id int64, req models.VideoRequest, video, thumbnail File) (*models.Video, error) {
	body := &Multipart{Request: req, Files: []File{withField(thumbnail, "thumbnail"), withField(video, "video")}}
	return call[*models.Video](ctx, c, http.MethodPatch, fmt.Sprintf("/videos/%d", id), body, false)
}

func (c *Client) ListSubscriptionPrices(ctx context.Context) ([]models.SubscriptionPrice, error) {
	return call[[]models.SubscriptionPrice](ctx, c, http.MethodGet, "/subscription-prices", nil, true)
}

func (c *Client) CreateSubscriptionPrice(ctx context.Context, req models.SubscriptionPriceRequest) (*models.SubscriptionPrice, error) {
	return call[*models.SubscriptionPrice](ctx, c, http.MethodPost, "/subscription-prices", req, true)
}

func (c *Client) UpdateSubscriptionPrice(ctx context.Context, id int64, req models.SubscriptionPriceRequest) (*models.SubscriptionPrice, error) {
	return call[*models.SubscriptionPrice](ctx, c, http.MethodPut, fmt.Sprintf("/subscription-prices/%d", id), req, true)
}

// DeleteSubscriptionPrice removes a plan. The backend answers with an
// envelope that has no data, so only its status is checked.
func (c *Client) DeleteSubscriptionPrice(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/subscription-prices/%d", id)
	env, err := c.do(ctx, http.MethodDelete, path, nil, true)
	if err != nil {
		return err
	}
	if env.Status != http.StatusOK {
		return &EnvelopeError{Status: env.Status, Message: env.Message, Path: path}
	}
	return nil
}

func withField(f File, field string) File {
	f.Field = field
	return f
}
