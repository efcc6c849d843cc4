package handlers

import (
	"bytes"
	"context"
	"html"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"logineko/internal/apiclient"
	"logineko/internal/apiclient/apitest"
	"logineko/internal/metrics"
	"logineko/internal/models"
	"logineko/internal/security"
	"logineko/internal/session"

	"github.com/stretchr/testify/require"
)

const testSecret = "handlers-test-secret"

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// harness is the admin console running against a fake backend, driven by
// a browser-like client that keeps cookies and does not follow redirects.
type harness struct {
	t       *testing.T
	backend *apitest.Server
	store   *session.Store
	server  *httptest.Server
	client  *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := apitest.NewServer(t)
	store, err := session.Init(context.Background(), session.NewMemoryPersistence(), security.NewSealer(testSecret))
	require.NoError(t, err)

	templates, err := LoadTemplates("../templates")
	require.NoError(t, err)

	m := metrics.New(func() float64 { return float64(store.Count()) })
	api := apiclient.New(backend.URL, apiclient.WithTokenSource(store), apiclient.WithObserver(m))

	server := httptest.NewServer(NewRouter(Deps{
		Templates:      templates,
		Store:          store,
		API:            api,
		Metrics:        m,
		SessionSecret:  testSecret,
		LoginRateLimit: 100,
		UploadMaxSize:  10 << 20,
		StatsYear:      2025,
	}))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &harness{t: t, backend: backend, store: store, server: server, client: client}
}

func (h *harness) do(req *http.Request) (*http.Response, string) {
	h.t.Helper()
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp, string(body)
}

func (h *harness) get(path string) (*http.Response, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.server.URL+path, nil)
	require.NoError(h.t, err)
	return h.do(req)
}

func (h *harness) postForm(path string, form url.Values) (*http.Response, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

// postMultipart sends fields plus files keyed by form name; each file's
// content is its value.
func (h *harness) postMultipart(path string, fields map[string]string, files map[string]string) (*http.Response, string) {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(h.t, mw.WriteField(k, v))
	}
	for k, content := range files {
		fw, err := mw.CreateFormFile(k, k+".bin")
		require.NoError(h.t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(h.t, err)
	}
	require.NoError(h.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, h.server.URL+path, &buf)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return h.do(req)
}

// csrfToken loads page and returns the token of its first form.
func (h *harness) csrfToken(page string) string {
	h.t.Helper()
	_, body := h.get(page)
	m := csrfInput.FindStringSubmatch(body)
	require.NotNil(h.t, m, "no csrf token on %s", page)
	return html.UnescapeString(m[1])
}

// login signs in as admin through the login form.
func (h *harness) login() {
	h.t.Helper()
	h.backend.Reply("POST /api/login/exchange", models.TokenExchangeResponse{
		AccessToken: "access-123", RefreshToken: "refresh-456", TokenType: "Bearer",
	})
	resp, _ := h.postForm("/login", url.Values{
		"csrf_token": {h.csrfToken("/login")},
		"username":   {"admin"},
		"password":   {"secret123"},
	})
	require.Equal(h.t, http.StatusSeeOther, resp.StatusCode)
}
