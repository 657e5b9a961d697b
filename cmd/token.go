package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/wishmerchant/wish"
)

var (
	authCode     string
	redirectURI  string
	refreshToken string
)

// tokenCmd groups the OAuth token commands
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Exchange OAuth codes and refresh tokens",
}

var tokenExchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Exchange an authorization code for an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := newTokenExchanger(cfg, logger)
		if err != nil {
			return err
		}
		redirect := redirectURI
		if redirect == "" {
			redirect = cfg.OAuth.RedirectURI
		}
		return runTokenExchange(cmd.Context(), auth, authCode, redirect, cmd.OutOrStdout())
	},
}

var tokenRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange a refresh token for a new access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := newTokenExchanger(cfg, logger)
		if err != nil {
			return err
		}
		return runTokenRefresh(cmd.Context(), auth, refreshToken, cmd.OutOrStdout())
	},
}

func init() {
	tokenExchangeCmd.Flags().StringVar(&authCode, "code", "", "authorization code returned to the redirect uri")
	tokenExchangeCmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "redirect uri registered for the app (default oauth.redirect_uri)")
	_ = tokenExchangeCmd.MarkFlagRequired("code")

	tokenRefreshCmd.Flags().StringVar(&refreshToken, "refresh-token", "", "refresh token from a previous exchange")
	_ = tokenRefreshCmd.MarkFlagRequired("refresh-token")

	tokenCmd.AddCommand(tokenExchangeCmd)
	tokenCmd.AddCommand(tokenRefreshCmd)
}

func runTokenExchange(ctx context.Context, auth wish.TokenExchanger, code, redirect string, out io.Writer) error {
	token, err := auth.GetToken(ctx, code, redirect)
	if err != nil {
		if errors.Is(err, wish.ErrAuthorizationCodeExpired) {
			return fmt.Errorf("authorization code expired, restart the authorization flow: %w", err)
		}
		return fmt.Errorf("token exchange failed: %w", err)
	}
	printToken(out, token)
	return nil
}

func runTokenRefresh(ctx context.Context, auth wish.TokenExchanger, refresh string, out io.Writer) error {
	token, err := auth.RefreshToken(ctx, refresh)
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}
	printToken(out, token)
	return nil
}

func printToken(out io.Writer, token *wish.Token) {
	fmt.Fprintln(out, "✓ Token issued")
	fmt.Fprintf(out, "- Access token:  %s\n", token.AccessToken)
	fmt.Fprintf(out, "- Refresh token: %s\n", token.RefreshToken)
	if token.MerchantID != "" {
		fmt.Fprintf(out, "- Merchant ID:   %s\n", token.MerchantID)
	}
	if token.ExpiryTime > 0 {
		fmt.Fprintf(out, "- Expires:       %s\n", time.Unix(token.ExpiryTime, 0).UTC().Format(time.RFC3339))
	} else if token.ExpiresIn > 0 {
		fmt.Fprintf(out, "- Expires in:    %s\n", time.Duration(token.ExpiresIn)*time.Second)
	}
}
