package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/arent-kient/api-key-dashboard/internal/models"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Provider is the OAuth identity provider used for sign-in
type Provider interface {
	AuthCodeURL(state string, selectAccount bool) string
	Exchange(ctx context.Context, code string) (*models.GoogleProfile, error)
}

// GoogleProvider signs users in with Google
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider creates a provider that redirects back to redirectURL
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: googleUserInfoURL,
	}
}

// AuthCodeURL returns the consent page URL. selectAccount forces the account
// chooser, used after an explicit sign-out.
func (p *GoogleProvider) AuthCodeURL(state string, selectAccount bool) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOnline}
	if selectAccount {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "select_account"))
	}
	return p.config.AuthCodeURL(state, opts...)
}

// Exchange trades the authorization code for a token and fetches the profile
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*models.GoogleProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request failed with status %d", resp.StatusCode)
	}

	var profile models.GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &profile, nil
}
