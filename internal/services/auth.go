package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/seedmix/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const spotifyTokenURL = "https://accounts.spotify.com/api/token"

// ClientCredentialsProvider implements [TokenProvider] with the OAuth2 client credentials grant.
//
// It holds no token state: every call to AccessToken exchanges the credentials again.
type ClientCredentialsProvider struct {
	config     *clientcredentials.Config
	httpClient *http.Client
}

// NewClientCredentialsProvider creates a provider for the given credentials.
//
// tokenURL defaults to the Spotify accounts endpoint and client to [http.DefaultClient].
func NewClientCredentialsProvider(clientID, clientSecret, tokenURL string, client *http.Client) *ClientCredentialsProvider {
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ClientCredentialsProvider{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: client,
	}
}

// AccessToken performs one client credentials exchange.
//
// Transport failures, non-2xx responses and payloads without an access token are
// returned wrapping [shared.ErrAuthFailed].
func (p *ClientCredentialsProvider) AccessToken(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.config.Token(ctx)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %w: %v", shared.ErrAuthFailed, shared.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: token exchange failed: %v", shared.ErrAuthFailed, err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", shared.ErrAuthFailed)
	}

	return token.AccessToken, nil
}
