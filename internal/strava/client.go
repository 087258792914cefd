// Package strava fetches athlete activities from the Strava API.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL  = "https://www.strava.com/api/v3"
	defaultTokenURL = "https://www.strava.com/oauth/token"
	defaultPerPage  = 30
	maxPage         = 998
	requestTimeout  = 60 * time.Second
)

// Credentials holds the OAuth2 application and athlete secrets.
type Credentials struct {
	ClientID     string `env:"STRAVA_CLIENT_ID, required"`
	ClientSecret string `env:"STRAVA_CLIENT_SECRET, required"`
	RefreshToken string `env:"STRAVA_REFRESH_TOKEN, required"`
}

// LoadCredentials reads credentials from the process environment.
func LoadCredentials(ctx context.Context) (Credentials, error) {
	return loadCredentials(ctx, envconfig.OsLookuper())
}

func loadCredentials(ctx context.Context, lookuper envconfig.Lookuper) (Credentials, error) {
	var creds Credentials
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &creds,
		Lookuper: lookuper,
	}); err != nil {
		return Credentials{}, fmt.Errorf("failed to read strava credentials: %w", err)
	}
	return creds, nil
}

// Client is an authenticated Strava API client.
type Client struct {
	baseURL  string
	tokenURL string
	perPage  int
	base     *http.Client
	http     *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTokenURL overrides the OAuth2 token endpoint.
func WithTokenURL(u string) Option {
	return func(c *Client) { c.tokenURL = u }
}

// WithPerPage sets the page size requested from the API. Non-positive values are ignored.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// WithHTTPClient sets the underlying HTTP client used for token and API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.base = hc }
}

// NewClient builds a client that refreshes its access token from creds.RefreshToken.
func NewClient(ctx context.Context, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		tokenURL: defaultTokenURL,
		perPage:  defaultPerPage,
		base:     &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})
	c.http = oauth2.NewClient(ctx, ts)
	c.http.Timeout = c.base.Timeout
	return c
}

// ListActivities returns one page of raw activity objects. Pages start at 1.
func (c *Client) ListActivities(ctx context.Context, page int) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.perPage))
	endpoint := c.baseURL + "/athlete/activities?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected strava status: %s: %s", resp.Status, body)
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode activities page %d: %w", page, err)
	}
	return records, nil
}

// FetchAll walks pages until an empty page or a repeated final start_date.
func (c *Client) FetchAll(ctx context.Context) ([]json.RawMessage, error) {
	var (
		all      []json.RawMessage
		lastSeen string
	)
	for page := 1; page <= maxPage; page++ {
		records, err := c.ListActivities(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}
		last := startDate(records[len(records)-1])
		if page > 1 && last == lastSeen {
			logrus.WithField("page", page).Debug("strava repeated final page")
			break
		}
		lastSeen = last
		all = append(all, records...)
		logrus.WithFields(logrus.Fields{"page": page, "records": len(records)}).Debug("strava page fetched")
	}
	return all, nil
}

func startDate(raw json.RawMessage) string {
	var probe struct {
		StartDate string `json:"start_date"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.StartDate
}
