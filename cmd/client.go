package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s0up4200/wishmerchant/config"
	"github.com/s0up4200/wishmerchant/wish"
)

// Client factories, replaceable in tests.
var (
	newMerchantAPI    = newMerchantClient
	newTokenExchanger = newAuthClient
)

// clientOptions translates the client section of the config into wish options
func clientOptions(cfg *config.Config, env wish.Environment, logger zerolog.Logger) []wish.Option {
	opts := []wish.Option{
		wish.WithLogger(logger),
		wish.WithConnectTimeout(cfg.Client.ConnectTimeout),
		wish.WithPageSize(cfg.Client.PageSize),
		wish.WithPageConcurrency(cfg.Client.PageConcurrency),
	}
	if cfg.Client.UserAgent != "" {
		opts = append(opts, wish.WithUserAgent(cfg.Client.UserAgent))
	}
	if cfg.Wish.BaseURL != "" {
		opts = append(opts, wish.WithBaseURL(env, cfg.Wish.BaseURL))
	}
	return opts
}

func newMerchantClient(cfg *config.Config, logger zerolog.Logger) (wish.MerchantAPI, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}

	env, err := wish.ParseEnvironment(cfg.Wish.Environment)
	if err != nil {
		return nil, err
	}

	session := wish.NewSession(cfg.Wish.AccessToken, env, cfg.Wish.MerchantID)
	client, err := wish.NewClient(session, clientOptions(cfg, env, logger)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Wish client: %w", err)
	}
	return client, nil
}

func newAuthClient(cfg *config.Config, logger zerolog.Logger) (wish.TokenExchanger, error) {
	if err := cfg.RequireOAuth(); err != nil {
		return nil, err
	}

	env, err := wish.ParseEnvironment(cfg.Wish.Environment)
	if err != nil {
		return nil, err
	}

	auth, err := wish.NewAuth(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, env, clientOptions(cfg, env, logger)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth client: %w", err)
	}
	return auth, nil
}
