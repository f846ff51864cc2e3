package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringManager_SetAndGetProviderKey(t *testing.T) {
	keyring.MockInit()
	km := NewKeyringManager()

	require.True(t, km.IsAvailable())

	err := km.SetProviderKey(ProviderOpenAI, "sk-test123456789")
	require.NoError(t, err)

	key, err := km.GetProviderKey(ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, "sk-test123456789", key)

	// Other providers are stored independently
	key, err = km.GetProviderKey(ProviderClaude)
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestKeyringManager_DeleteProviderKey(t *testing.T) {
	keyring.MockInit()
	km := NewKeyringManager()

	require.NoError(t, km.SetProviderKey(ProviderDeepSeek, "sk-delete-me-123"))
	require.NoError(t, km.DeleteProviderKey(ProviderDeepSeek))

	key, err := km.GetProviderKey(ProviderDeepSeek)
	require.NoError(t, err)
	assert.Empty(t, key)

	// Deleting a missing key is not an error
	assert.NoError(t, km.DeleteProviderKey(ProviderDeepSeek))
}

func TestKeyringManager_SetProviderKeyRejectsBadInput(t *testing.T) {
	keyring.MockInit()
	km := NewKeyringManager()

	assert.Error(t, km.SetProviderKey(ProviderOpenAI, ""))
	assert.Error(t, km.SetProviderKey("mistral", "sk-whatever-1234"))
}

func TestKeyringManager_KeySource(t *testing.T) {
	keyring.MockInit()
	km := NewKeyringManager()
	cfg := Default()

	t.Setenv("GEMINI_API_KEY", "")
	assert.Equal(t, "none", km.KeySource(ProviderGemini, cfg).Source)

	cfg.LLM.Gemini.APIKey = "from-config-file"
	info := km.KeySource(ProviderGemini, cfg)
	assert.Equal(t, "config", info.Source)
	assert.False(t, info.Secure)

	require.NoError(t, km.SetProviderKey(ProviderGemini, "from-keychain-123"))
	assert.Equal(t, "keychain", km.KeySource(ProviderGemini, cfg).Source)

	t.Setenv("GEMINI_API_KEY", "from-env")
	info = km.KeySource(ProviderGemini, cfg)
	assert.Equal(t, "env", info.Source)
	assert.True(t, info.Secure)
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty key", "", "(not set)"},
		{"short key", "sk-123", "***"},
		{"normal key", "sk-proj-abcdefghijklmnop1234", "sk-proj...1234"},
		{"long key", "sk-1234567890abcdefghijklmnopqrstuvwxyz", "sk-1234...wxyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskAPIKey(tt.input))
		})
	}
}
