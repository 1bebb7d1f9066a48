package secrets

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "legitapply"
)

var ErrPasswordNotFound = errors.New("LinkedIn password not found (set LINKEDIN_PASSWORD or store it in the keychain)")

func GetLinkedInPassword(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) == "" {
		return "", ErrPasswordNotFound
	}
	pw, err := keyring.Get(KeyringService, keyringAccount)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrPasswordNotFound
		}
		return "", fmt.Errorf("keyring lookup failed: %w", err)
	}
	if strings.TrimSpace(pw) == "" {
		return "", ErrPasswordNotFound
	}
	return pw, nil
}

func SetLinkedInPassword(keyringAccount string, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeleteLinkedInPassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

// ResolvePassword prefers an explicitly configured password and falls back
// to the keychain. It returns "" when neither has one, or when the keychain
// cannot be reached: a saved cookie session may still log in.
func ResolvePassword(configured, keyringAccount string) string {
	if configured != "" {
		return configured
	}
	if strings.TrimSpace(keyringAccount) == "" {
		return ""
	}
	pw, err := GetLinkedInPassword(keyringAccount)
	if err != nil {
		if !errors.Is(err, ErrPasswordNotFound) {
			log.Printf("⚠️ Keychain unavailable, continuing without a stored password: %v", err)
		}
		return ""
	}
	return pw
}
