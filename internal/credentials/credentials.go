// Package credentials resolves API secrets from the macOS Keychain
// with environment and config-file fallbacks.
package credentials

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	// Keychain item for the Admin API key.
	serviceName = "claude-usage-tui"
	accountName = "admin-api-key"

	// Keychain item written by the Claude Code CLI, holding the OAuth
	// credentials JSON.
	oauthServiceName = "Claude Code-credentials"

	// EnvAdminKey is the environment fallback for the Admin API key.
	EnvAdminKey = "ANTHROPIC_ADMIN_API_KEY"
)

// ErrUnavailable is returned when no source yields a secret.
var ErrUnavailable = errors.New("credential unavailable")

// Store resolves secrets. The zero value is not usable; construct with
// NewStore.
type Store struct {
	fallbackAdminKey string

	// lookup is swapped out in tests.
	lookup func(service, account string) (string, error)
}

// NewStore creates a credential store. fallbackAdminKey is the
// config-file value consulted after the keychain and environment.
func NewStore(fallbackAdminKey string) *Store {
	return &Store{
		fallbackAdminKey: fallbackAdminKey,
		lookup:           keychainLookup,
	}
}

// AdminAPIKey returns the Admin API key from the keychain, the
// environment, or the config fallback, in that order.
func (s *Store) AdminAPIKey() (string, error) {
	if key, err := s.lookup(serviceName, accountName); err == nil && key != "" {
		return key, nil
	}
	if key := os.Getenv(EnvAdminKey); key != "" {
		return key, nil
	}
	if s.fallbackAdminKey != "" {
		return s.fallbackAdminKey, nil
	}
	return "", fmt.Errorf("%w: no admin API key in keychain, %s or config", ErrUnavailable, EnvAdminKey)
}

// oauthCredentials is the JSON shape stored by the Claude Code CLI.
type oauthCredentials struct {
	ClaudeAiOauth struct {
		AccessToken string `json:"accessToken"`
	} `json:"claudeAiOauth"`
}

// BearerToken returns the OAuth access token stored by the Claude Code
// CLI.
func (s *Store) BearerToken() (string, error) {
	raw, err := s.lookup(oauthServiceName, "")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	token, err := ParseOAuthToken(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return token, nil
}

// ParseOAuthToken extracts the access token from the credentials JSON.
func ParseOAuthToken(raw string) (string, error) {
	var creds oauthCredentials
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &creds); err != nil {
		return "", fmt.Errorf("failed to parse oauth credentials: %w", err)
	}
	if creds.ClaudeAiOauth.AccessToken == "" {
		return "", errors.New("oauth credentials contain no access token")
	}
	return creds.ClaudeAiOauth.AccessToken, nil
}

// SetAdminAPIKey stores the Admin API key in the keychain, replacing
// any existing entry.
func (s *Store) SetAdminAPIKey(key string) error {
	// Best effort; the item may not exist yet.
	_ = exec.Command("security", "delete-generic-password",
		"-s", serviceName, "-a", accountName).Run()

	cmd := exec.Command("security", "add-generic-password",
		"-s", serviceName, "-a", accountName, "-w", key)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to store key in keychain: %w", err)
	}
	return nil
}

// DeleteAdminAPIKey removes the Admin API key from the keychain.
func (s *Store) DeleteAdminAPIKey() error {
	cmd := exec.Command("security", "delete-generic-password",
		"-s", serviceName, "-a", accountName)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to delete keychain entry: %w", err)
	}
	return nil
}

// MaskKey returns a display-safe form of an API key.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// keychainLookup reads a generic password via the security CLI. On
// platforms without it the exec error falls through to the next
// source.
func keychainLookup(service, account string) (string, error) {
	args := []string{"find-generic-password", "-s", service}
	if account != "" {
		args = append(args, "-a", account)
	}
	args = append(args, "-w")

	var out bytes.Buffer
	cmd := exec.Command("security", args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("keychain lookup failed: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}
