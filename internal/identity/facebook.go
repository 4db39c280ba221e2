package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const facebookGraphURL = "https://graph.facebook.com/me"

// FacebookVerifier resolves an access token through the Graph API.
// Accounts without an email get the <id>@facebook.local placeholder so
// find-or-create still has a stable natural key.
type FacebookVerifier struct {
	Client *http.Client

	// BaseURL overrides the Graph endpoint in tests.
	BaseURL string
}

func (f *FacebookVerifier) Verify(ctx context.Context, accessToken string) (Identity, error) {
	base := f.BaseURL
	if base == "" {
		base = facebookGraphURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		base+"?fields=id,name,email&access_token="+url.QueryEscape(accessToken), nil)
	if err != nil {
		return Identity{}, fmt.Errorf("facebook: build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("facebook: graph call: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: graph status %d", ErrProviderToken, resp.StatusCode)
	}
	var payload struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Identity{}, fmt.Errorf("facebook: decode graph response: %w", err)
	}
	email := payload.Email
	if email == "" {
		email = payload.ID + "@facebook.local"
	}
	name := payload.Name
	if name == "" {
		name = "Facebook User"
	}
	return Identity{Email: email, Name: name}, nil
}
