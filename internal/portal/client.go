// Package portal talks to the student portal: login, the day schedule
// page and absence submission.
package portal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/dispatch"
	"github.com/julianstephens/sfh/internal/logger"
	"github.com/julianstephens/sfh/internal/models"
)

var (
	// ErrLoginRejected is returned when the portal answers a login with its login form.
	ErrLoginRejected = errors.New("portal rejected the credentials")
	// ErrSessionExpired is returned when an authenticated page shows the login form.
	ErrSessionExpired = errors.New("portal session expired")
	// ErrUnexpectedResponse is returned when a response cannot be classified.
	ErrUnexpectedResponse = errors.New("unexpected portal response")
)

const maxBodyBytes = 8 << 20

// Credentials identify the operator on the portal.
type Credentials struct {
	LoginID  string
	Password string
}

// Client holds one authenticated portal session. The cookie jar and base
// headers are set up once and are read-only while a batch runs.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
}

// New creates a client for baseURL. timeout bounds every request that
// does not carry a shorter deadline.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}

	origin := base.Scheme + "://" + base.Host
	return &Client{
		base:    base,
		timeout: timeout,
		http: &http.Client{
			Jar: jar,
			Transport: &headerTransport{
				next: http.DefaultTransport,
				headers: http.Header{
					"User-Agent": {constants.UserAgent},
					"Origin":     {origin},
					"Referer":    {origin + constants.HomePath},
				},
			},
		},
	}, nil
}

// BaseURL returns the portal root.
func (c *Client) BaseURL() string { return c.base.String() }

// DayURL returns the schedule page for a day of the current academic year.
func (c *Client) DayURL(month, day int) string {
	return c.base.String() + fmt.Sprintf(constants.DayPagePath, month, day)
}

// Login authenticates against the portal. The session cookie is kept in
// the client's jar.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	form := url.Values{
		"id":       {creds.LoginID},
		"password": {creds.Password},
		"submit":   {"Войти"},
	}
	status, body, err := c.do(ctx, http.MethodPost, c.base.String()+constants.LoginPath, form, nil)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	logger.Debug("Login response", "status", status, "session", c.HasSession())

	if c.HasSession() {
		return nil
	}
	text := strings.TrimSpace(string(body))
	if isLoginForm(text) {
		return ErrLoginRejected
	}
	if strings.Contains(text, "logout") || strings.Contains(text, "Выход") {
		return nil
	}
	return fmt.Errorf("%w: HTTP %d: %s", ErrUnexpectedResponse, status, excerpt(text))
}

// HasSession reports whether the jar holds a portal session cookie.
func (c *Client) HasSession() bool {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == constants.SessionCookieName && ck.Value != "" {
			return true
		}
	}
	return false
}

// Day is one fetched schedule page.
type Day struct {
	Month    int
	Day      int
	URL      string
	Students []models.StudentSchedule
}

// FetchDay loads and parses the schedule table for month/day.
func (c *Client) FetchDay(ctx context.Context, month, day int) (*Day, error) {
	pageURL := c.DayURL(month, day)
	logger.Debug("Fetching day", "url", pageURL)

	status, body, err := c.do(ctx, http.MethodGet, pageURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", pageURL, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrUnexpectedResponse, status, pageURL)
	}
	if isLoginForm(string(body)) {
		return nil, ErrSessionExpired
	}

	students, err := ParseSchedule(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &Day{Month: month, Day: day, URL: pageURL, Students: students}, nil
}

// Ping checks that the portal answers at all.
func (c *Client) Ping(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, c.base.String()+constants.HomePath, nil, nil)
	if err != nil {
		return err
	}
	if status >= 500 {
		return fmt.Errorf("%w: HTTP %d", ErrUnexpectedResponse, status)
	}
	return nil
}

// Submitter returns a dispatch submitter bound to a fetched day page.
func (c *Client) Submitter(day *Day) *DaySubmitter {
	return &DaySubmitter{client: c, pageURL: day.URL}
}

var _ dispatch.Submitter = (*DaySubmitter)(nil)

// DaySubmitter posts absence records to one day page.
type DaySubmitter struct {
	client  *Client
	pageURL string
}

// Submit posts one hour. Any transport error or non-200 status is false.
func (s *DaySubmitter) Submit(ctx context.Context, rec models.HourRecord, reason constants.ReasonCode) bool {
	form := url.Values{
		"userid": {rec.UserID},
		"zid":    {rec.PairID},
		"hour":   {rec.Hour},
		"nb":     {"on"},
		"type":   {string(reason)},
		"reason": {""},
	}
	headers := http.Header{
		"Referer":          {s.pageURL},
		"X-Requested-With": {"XMLHttpRequest"},
	}
	status, _, err := s.client.do(ctx, http.MethodPost, s.pageURL, form, headers)
	if err != nil {
		logger.Debug("Submit failed", "zid", rec.PairID, "hour", rec.Hour, "error", err)
		return false
	}
	if status != http.StatusOK {
		logger.Debug("Submit rejected", "zid", rec.PairID, "hour", rec.Hour, "status", status)
		return false
	}
	return true
}

func (c *Client) do(ctx context.Context, method, target string, form url.Values, headers http.Header) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

// headerTransport adds default headers to requests that do not set them.
type headerTransport struct {
	next    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header[k] = v
		}
	}
	return t.next.RoundTrip(r)
}

func isLoginForm(text string) bool {
	return strings.Contains(text, "регистрация") && strings.Contains(text, "вход")
}

func excerpt(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if r := []rune(text); len(r) > constants.MaxBodyExcerpt {
		return string(r[:constants.MaxBodyExcerpt])
	}
	return text
}
