package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name in the OS keychain
const KeyringService = "merit"

// KeyringManager handles secure credential storage in OS keychain
type KeyringManager struct {
	logger *slog.Logger
}

// NewKeyringManager creates a new keyring manager
func NewKeyringManager() *KeyringManager {
	return &KeyringManager{
		logger: slog.Default().With("component", "keyring"),
	}
}

func keyringItem(provider string) string {
	return provider + "-api-key"
}

// SetProviderKey stores a provider API key in the OS keychain
// - macOS: Keychain Access.app → "merit" → "<provider>-api-key"
// - Windows: Credential Manager → "merit"
// - Linux: Secret Service (requires libsecret)
func (km *KeyringManager) SetProviderKey(provider, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	if _, ok := providerEnv[provider]; !ok {
		return fmt.Errorf("unknown provider %q", provider)
	}

	if err := keyring.Set(KeyringService, keyringItem(provider), apiKey); err != nil {
		km.logger.Error("failed to save API key to keychain", "provider", provider, "error", err)
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}

	km.logger.Info("api key saved to keychain", "provider", provider)
	return nil
}

// GetProviderKey retrieves a provider API key. A missing entry is not an
// error and returns "".
func (km *KeyringManager) GetProviderKey(provider string) (string, error) {
	apiKey, err := keyring.Get(KeyringService, keyringItem(provider))
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		km.logger.Debug("failed to get API key from keychain", "provider", provider, "error", err)
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}

	return apiKey, nil
}

// DeleteProviderKey removes a provider API key from the OS keychain
func (km *KeyringManager) DeleteProviderKey(provider string) error {
	err := keyring.Delete(KeyringService, keyringItem(provider))
	if err == keyring.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}

	km.logger.Info("api key deleted from keychain", "provider", provider)
	return nil
}

// IsAvailable checks if OS keychain is available.
// Returns false on headless systems where no secret service is running.
func (km *KeyringManager) IsAvailable() bool {
	_, err := keyring.Get(KeyringService, "test-availability")
	if err == keyring.ErrNotFound {
		return true
	}
	if err != nil {
		km.logger.Debug("keychain not available", "error", err)
		return false
	}
	return true
}

// KeySourceInfo describes where a provider key is coming from
type KeySourceInfo struct {
	Source string // "env", "keychain", "config", "none"
	Secure bool
}

// KeySource determines where the provider's API key is coming from
func (km *KeyringManager) KeySource(provider string, cfg *Config) KeySourceInfo {
	if os.Getenv(providerEnv[provider]) != "" {
		return KeySourceInfo{Source: "env", Secure: true}
	}

	if key, _ := km.GetProviderKey(provider); key != "" {
		return KeySourceInfo{Source: "keychain", Secure: true}
	}

	if pc := cfg.LLM.ProviderConfig(provider); pc != nil && pc.APIKey != "" {
		return KeySourceInfo{Source: "config", Secure: false}
	}

	return KeySourceInfo{Source: "none"}
}

// MaskAPIKey masks an API key for display
// Shows first 7 chars and last 4 chars: "sk-proj...abc123"
func MaskAPIKey(apiKey string) string {
	if apiKey == "" {
		return "(not set)"
	}
	if len(apiKey) < 12 {
		return "***"
	}
	return fmt.Sprintf("%s...%s", apiKey[:7], apiKey[len(apiKey)-4:])
}
