// Package spotify is a small Web API client: client-credentials tokens and the
// two paginated collections the extraction drains. Requests are never retried.
package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/logger"
)

const (
	baseURLDefault  = "https://api.spotify.com/v1"
	tokenURLDefault = "https://accounts.spotify.com/api/token"
	defaultTimeout  = 10 * time.Second
	defaultUA       = "factsongs-extract"
	maxBody         = 8 << 20
)

// Options configures the Client
type Options struct {
	BaseURL   string
	TokenURL  string
	UserAgent string
	Timeout   time.Duration

	ClientID     string
	ClientSecret string
}

// Client talks to the Spotify accounts and Web API hosts
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a Client with defaults filled in
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.TokenURL == "" {
		o.TokenURL = tokenURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("spotify"),
		now:  time.Now,
	}
}

// get issues an authorized GET and decodes a 2xx JSON body into out
func (c *Client) get(ctx context.Context, cred Credential, path string, q url.Values, out any) error {
	u := c.opts.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "spotify new request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", cred.header())

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "spotify GET %s", path)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("spotify close body failed")
		}
	}()

	c.log.Debug().
		Str("path", path).
		Str("offset", q.Get("offset")).
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("spotify http response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(http.MethodGet, path, resp)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "spotify read %s", path)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "spotify decode %s", path)
	}
	return nil
}

func pageQuery(limit, offset int) url.Values {
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}
