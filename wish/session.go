package wish

import (
	"fmt"
	"strings"
)

// Environment selects which Wish merchant API host requests are sent to.
type Environment string

const (
	// EnvProduction is the live merchant API
	EnvProduction Environment = "prod"
	// EnvSandbox is the public sandbox
	EnvSandbox Environment = "sandbox"
	// EnvStage is the internal staging host
	EnvStage Environment = "stage"
)

// ParseEnvironment converts a configuration string into an Environment.
// Matching is case-insensitive and "production" is accepted as an alias.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return EnvProduction, nil
	case "sandbox":
		return EnvSandbox, nil
	case "stage":
		return EnvStage, nil
	default:
		return "", newError(KindConfiguration, fmt.Sprintf("invalid environment %q", s), nil, nil, nil)
	}
}

// Session holds the credentials attached to every request.
// It is immutable once created.
type Session struct {
	accessToken string
	environment Environment
	merchantID  string
}

// NewSession creates a session. merchantID may be empty.
func NewSession(accessToken string, env Environment, merchantID string) Session {
	return Session{
		accessToken: accessToken,
		environment: env,
		merchantID:  merchantID,
	}
}

// AccessToken returns the OAuth access token
func (s Session) AccessToken() string {
	return s.accessToken
}

// Environment returns the environment the session targets
func (s Session) Environment() Environment {
	return s.environment
}

// MerchantID returns the merchant id, or "" if none was configured
func (s Session) MerchantID() string {
	return s.merchantID
}
