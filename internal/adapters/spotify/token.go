package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "factsongs/internal/platform/errors"
)

// Credential is a bearer token valid for one extraction run
type Credential struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

func (c Credential) header() string {
	typ := c.TokenType
	if typ == "" {
		typ = "Bearer"
	}
	return typ + " " + c.AccessToken
}

// TokenProvider exchanges application credentials for a Credential
type TokenProvider interface {
	Acquire(ctx context.Context) (Credential, error)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Acquire runs the client-credentials grant. Any failure is an
// authentication error and no Credential is returned.
func (c *Client) Acquire(ctx context.Context) (Credential, error) {
	if c.opts.ClientID == "" || c.opts.ClientSecret == "" {
		return Credential{}, perr.Unauthorizedf("spotify: client id and secret are required")
	}
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.opts.ClientID},
		"client_secret": {c.opts.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Credential{}, perr.Wrap(err, perr.ErrorCodeUnauthorized, "spotify token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Credential{}, perr.Wrap(err, perr.ErrorCodeUnauthorized, "spotify token request")
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	if resp.StatusCode != http.StatusOK {
		return Credential{}, perr.Wrap(statusError(http.MethodPost, "/api/token", resp), perr.ErrorCodeUnauthorized, "spotify token rejected")
	}
	var tr tokenResponse
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		err = json.Unmarshal(b, &tr)
	}
	if err != nil {
		return Credential{}, perr.Wrap(err, perr.ErrorCodeUnauthorized, "spotify token decode")
	}
	if tr.AccessToken == "" {
		return Credential{}, perr.Unauthorizedf("spotify token response has no access_token")
	}

	cred := Credential{AccessToken: tr.AccessToken, TokenType: tr.TokenType}
	if tr.ExpiresIn > 0 {
		cred.ExpiresAt = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	c.log.Debug().Time("expires_at", cred.ExpiresAt).Msg("spotify token acquired")
	return cred, nil
}
