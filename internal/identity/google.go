package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrProviderToken marks a token the provider rejected, as opposed to
// the provider call itself failing.
var ErrProviderToken = errors.New("provider rejected token")

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates an ID token against Google's tokeninfo
// endpoint and checks the audience matches our client id.
type GoogleVerifier struct {
	ClientID string
	Client   *http.Client

	// BaseURL overrides the tokeninfo endpoint in tests.
	BaseURL string
}

func (g *GoogleVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	base := g.BaseURL
	if base == "" {
		base = googleTokenInfoURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		base+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return Identity{}, fmt.Errorf("google: build request: %w", err)
	}
	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("google: tokeninfo call: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: tokeninfo status %d", ErrProviderToken, resp.StatusCode)
	}
	var payload struct {
		Aud   string `json:"aud"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Identity{}, fmt.Errorf("google: decode tokeninfo: %w", err)
	}
	if g.ClientID != "" && payload.Aud != g.ClientID {
		return Identity{}, fmt.Errorf("%w: audience mismatch", ErrProviderToken)
	}
	if payload.Email == "" {
		return Identity{}, fmt.Errorf("%w: no email in token", ErrProviderToken)
	}
	name := payload.Name
	if name == "" {
		name = strings.SplitN(payload.Email, "@", 2)[0]
	}
	return Identity{Email: payload.Email, Name: name}, nil
}
