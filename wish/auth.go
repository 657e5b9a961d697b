package wish

import (
	"context"
	"net/http"
)

// Auth performs the OAuth exchanges for an application.
type Auth struct {
	clientID     string
	clientSecret string
	client       *Client
}

// NewAuth creates an OAuth helper for env. The underlying session has no
// access token.
func NewAuth(clientID, clientSecret string, env Environment, opts ...Option) (*Auth, error) {
	client, err := NewClient(NewSession("", env, ""), opts...)
	if err != nil {
		return nil, err
	}

	return &Auth{
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       client,
	}, nil
}

// GetToken exchanges an authorization code for a token. An expired code
// fails with KindAuthorizationCodeExpired.
func (a *Auth) GetToken(ctx context.Context, code, redirectURI string) (*Token, error) {
	return a.exchange(ctx, "oauth/access_token", Params{
		"client_id":     a.clientID,
		"client_secret": a.clientSecret,
		"code":          code,
		"grant_type":    "authorization_code",
		"redirect_uri":  redirectURI,
	}, authCodeExchangeCodes)
}

// RefreshToken exchanges a refresh token for a new token
func (a *Auth) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	return a.exchange(ctx, "oauth/refresh_token", Params{
		"client_id":     a.clientID,
		"client_secret": a.clientSecret,
		"refresh_token": refreshToken,
		"grant_type":    "refresh_token",
	}, refreshCodes)
}

func (a *Auth) exchange(ctx context.Context, path string, params Params, table codeTable) (*Token, error) {
	env, err := a.client.call(ctx, http.MethodPost, path, params, table)
	if err != nil {
		return nil, err
	}

	var token Token
	if err := decodeData(env, &token); err != nil {
		return nil, err
	}
	return &token, nil
}
