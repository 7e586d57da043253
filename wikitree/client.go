// Package wikitree is a client for the WikiTree genealogy API. The API uses
// a single endpoint and selects operations via an "action" form parameter;
// response shapes vary per action and are normalized here into the typed
// person structures before anything downstream sees them.
package wikitree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/lineakit/bridgefinder/person"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.wikitree.com/api.php"

const defaultUserAgent = "bridgefinder/0.1 (github.com/lineakit/bridgefinder)"

// Client talks to the WikiTree API.
type Client struct {
	httpClient *http.Client
	cache      Cacher
	logger     *slog.Logger
	auth       *AuthInfo
	base       string
	appID      string
	userAgent  string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = base }
}

// WithAppID sets the appId parameter sent with every request.
func WithAppID(appID string) Option {
	return func(c *Client) { c.appID = appID }
}

// WithHTTPClient supplies a custom HTTP client (e.g. with a pre-filled
// cookie jar).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache enables response caching for read-only actions.
func WithCache(cache Cacher) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a WikiTree API client. The default HTTP client carries a
// cookie jar so a clientLogin session persists across calls.
func New(opts ...Option) *Client {
	c := &Client{
		base:      DefaultBaseURL,
		userAgent: defaultUserAgent,
		timeout:   30 * time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			jar = nil
		}
		c.httpClient = &http.Client{Timeout: c.timeout, Jar: jar}
	}
	return c
}

// Auth returns login information from a successful Login, or nil.
func (c *Client) Auth() *AuthInfo { return c.auth }

// SessionCookies returns the current session cookies as a name-value map,
// suitable for auth.SaveCookies.
func (c *Client) SessionCookies() map[string]string {
	if c.httpClient.Jar == nil {
		return nil
	}
	u, err := url.Parse(c.base)
	if err != nil {
		return nil
	}
	cookies := make(map[string]string)
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		cookies[ck.Name] = ck.Value
	}
	return cookies
}

// HTTPError is a non-200 response from the API endpoint.
type HTTPError struct {
	Action     string
	StatusCode int
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("wikitree %s: HTTP %d", e.Action, e.StatusCode)
}

// Unwrap maps throttling responses onto the shared sentinel so callers can
// use errors.Is(err, person.ErrRateLimited).
func (e *HTTPError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests {
		return person.ErrRateLimited
	}
	return nil
}

// StatusError is a 200 response whose payload carries non-zero status
// entries.
type StatusError struct {
	Action   string
	Messages []string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wikitree %s: %s", e.Action, strings.Join(e.Messages, "; "))
}

// Unwrap maps well-known status texts onto the shared sentinels.
func (e *StatusError) Unwrap() error {
	for _, m := range e.Messages {
		switch {
		case strings.Contains(m, "Permission denied"):
			return person.ErrAuthRequired
		case strings.Contains(m, "Invalid page"):
			return person.ErrProfileNotFound
		}
	}
	return nil
}

// post performs one action request and returns the raw JSON payload after
// validating it and surfacing any embedded status errors. Read-only actions
// are served through the cache when one is configured.
func (c *Client) post(ctx context.Context, action string, params url.Values) ([]byte, error) {
	form := compactParams(params)
	form.Set("action", action)
	if c.appID != "" && form.Get("appId") == "" {
		form.Set("appId", c.appID)
	}
	encoded := form.Encode()

	var body []byte
	var err error
	if c.cache != nil && cacheableAction(action) {
		body, err = c.cache.GetSet(ctx, requestKey(c.base, encoded), func(ctx context.Context) ([]byte, error) {
			c.logger.Debug("cache miss", "action", action)
			return c.doPost(ctx, action, encoded)
		}, c.cache.TTL())
	} else {
		body, err = c.doPost(ctx, action, encoded)
	}
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("wikitree %s: response was not valid JSON: %w", action, err)
	}
	if msgs := statusErrors(payload); len(msgs) > 0 {
		return nil, &StatusError{Action: action, Messages: msgs}
	}
	return body, nil
}

func (c *Client) doPost(ctx context.Context, action, form string) ([]byte, error) {
	return retry.DoWithData(
		func() ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, strings.NewReader(form))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("User-Agent", c.userAgent)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close() //nolint:errcheck // intentional

			if resp.StatusCode != http.StatusOK {
				herr := &HTTPError{Action: action, StatusCode: resp.StatusCode}
				if secs, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil && secs > 0 {
					herr.RetryAfter = time.Duration(secs) * time.Second
				}
				return nil, herr
			}
			return io.ReadAll(resp.Body)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxJitter(500*time.Millisecond),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying API request", "attempt", n+1, "action", action, "error", err)
			// Honor the server's Retry-After when it asks for more than the
			// base delay already provides.
			var httpErr *HTTPError
			if errors.As(err, &httpErr) && httpErr.RetryAfter > time.Second {
				time.Sleep(httpErr.RetryAfter - time.Second)
			}
		}),
	)
}

// isRetryableError returns true for transient errors that should be retried.
func isRetryableError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false // other 4xx errors are permanent
		}
	}
	// Network errors, timeouts, etc. are retryable
	return true
}

// cacheableAction reports whether an action is a pure read that may be
// served from cache. Session actions never are.
func cacheableAction(action string) bool {
	switch action {
	case "getProfile", "getPerson", "getRelatives", "getPeople", "getAncestors", "getWatchlist", "searchPerson":
		return true
	default:
		return false
	}
}

// compactParams drops empty values so the wire request only carries the
// criteria that were actually set.
func compactParams(params url.Values) url.Values {
	out := url.Values{}
	for key, values := range params {
		for _, v := range values {
			if v != "" {
				out.Add(key, v)
			}
		}
	}
	return out
}

// statusErrors walks a decoded payload collecting non-zero status entries.
// The API reports per-item status both at the top level and inside list
// elements.
func statusErrors(v any) []string {
	var out []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			out = append(out, statusErrors(item)...)
		}
	case map[string]any:
		if s, ok := t["status"]; ok {
			switch sv := s.(type) {
			case string:
				if sv != "" && sv != "0" {
					out = append(out, sv)
				}
			case float64:
				if sv != 0 {
					out = append(out, "status "+strconv.Itoa(int(sv)))
				}
			}
		}
	}
	return out
}

// AuthInfo is the identity returned by a successful clientLogin.
type AuthInfo struct {
	UserName string
	UserID   int
}

var authcodeRE = regexp.MustCompile(`authcode=(.+)$`)

// Login authenticates as a WikiTree member using the two-step clientLogin
// flow: a credentialed POST that answers with a 302 carrying an authcode,
// then a confirmation POST that sets the session cookies.
func (c *Client) Login(ctx context.Context, email, password string) (AuthInfo, error) {
	form := url.Values{}
	form.Set("action", "clientLogin")
	form.Set("doLogin", "1")
	form.Set("wpEmail", email)
	form.Set("wpPassword", password)
	if c.appID != "" {
		form.Set("appId", c.appID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, strings.NewReader(form.Encode()))
	if err != nil {
		return AuthInfo{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	// The authcode arrives as a redirect target, so this request must not
	// follow redirects.
	noRedirect := *c.httpClient
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := noRedirect.Do(req)
	if err != nil {
		return AuthInfo{}, fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	if resp.StatusCode != http.StatusFound {
		return AuthInfo{}, fmt.Errorf("login: expected 302 redirect, got %d: %w", resp.StatusCode, person.ErrAuthRequired)
	}
	location := resp.Header.Get("Location")
	m := authcodeRE.FindStringSubmatch(location)
	if m == nil {
		return AuthInfo{}, fmt.Errorf("login: authcode not found in redirect: %w", person.ErrAuthRequired)
	}

	confirm := url.Values{}
	confirm.Set("authcode", m[1])
	body, err := c.post(ctx, "clientLogin", confirm)
	if err != nil {
		return AuthInfo{}, fmt.Errorf("login confirm: %w", err)
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return AuthInfo{}, fmt.Errorf("login confirm: %w", err)
	}
	info, ok := parseLoginPayload(payload)
	if !ok {
		return AuthInfo{}, fmt.Errorf("login confirm: unexpected response: %w", person.ErrAuthRequired)
	}
	c.auth = &info
	c.logger.InfoContext(ctx, "logged in", "user", info.UserName, "id", info.UserID)
	return info, nil
}

func parseLoginPayload(payload any) (AuthInfo, bool) {
	top, ok := payload.(map[string]any)
	if !ok {
		return AuthInfo{}, false
	}
	cl, ok := top["clientLogin"].(map[string]any)
	if !ok {
		return AuthInfo{}, false
	}
	result, _ := cl["result"].(string)
	if r := strings.ToLower(result); r != "success" && r != "ok" {
		return AuthInfo{}, false
	}

	var info AuthInfo
	switch id := cl["userid"].(type) {
	case float64:
		info.UserID = int(id)
	case string:
		info.UserID, _ = strconv.Atoi(id) //nolint:errcheck // 0 is acceptable default
	}
	info.UserName, _ = cl["username"].(string)
	if info.UserName == "" {
		return AuthInfo{}, false
	}
	return info, true
}
