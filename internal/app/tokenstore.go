package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// TokenStore persists access tokens per provider host.
type TokenStore interface {
	// Get returns "" (not an error) when no token is stored for host.
	Get(host string) (string, error)
	Set(host, token string) error
	Delete(host string) error
}

// KeychainStore keeps tokens in the OS keychain under KeychainService.
type KeychainStore struct{}

func normalizeHost(host string) string {
	return strings.ToLower(strings.TrimSpace(host))
}

func (KeychainStore) Get(host string) (string, error) {
	secret, err := keyring.Get(KeychainService, normalizeHost(host))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading keychain for %q: %w", host, err)
	}
	return secret, nil
}

func (KeychainStore) Set(host, token string) error {
	if normalizeHost(host) == "" {
		return fmt.Errorf("host is required")
	}
	if err := keyring.Set(KeychainService, normalizeHost(host), token); err != nil {
		return fmt.Errorf("writing keychain for %q: %w", host, err)
	}
	return nil
}

func (KeychainStore) Delete(host string) error {
	err := keyring.Delete(KeychainService, normalizeHost(host))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting keychain for %q: %w", host, err)
	}
	return nil
}
