package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rohankatakam/merit/internal/errors"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Err converts a failed result into a ConfigurationError, or nil
func (vr *ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("configuration validation failed:")
	for _, e := range vr.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(e)
	}
	return errors.ConfigError(sb.String())
}

// Validate checks settings that do not depend on which command runs
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}

	if c.Repository.Path == "" {
		result.AddError("repository.path must not be empty")
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		result.AddError("llm.temperature must be between 0 and 2 (got %.2f)", c.LLM.Temperature)
	}
	if c.LLM.RateLimit < 0 {
		result.AddError("llm.rate_limit must not be negative")
	}
	if c.LLM.MaxInput < 0 {
		result.AddError("llm.max_input_bytes must not be negative")
	}
	if c.LLM.Provider != "" && c.LLM.ProviderConfig(c.LLM.Provider) == nil {
		result.AddError("llm.provider %q is not one of %s", c.LLM.Provider, strings.Join(ProviderNames, ", "))
	}

	for _, name := range ProviderNames {
		pc := c.LLM.ProviderConfig(name)
		if pc.BaseURL == "" {
			continue
		}
		if u, err := url.Parse(pc.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			result.AddError("llm.%s.base_url is not a valid URL: %q", name, pc.BaseURL)
		}
	}

	if c.Cache.TTL < 0 {
		result.AddError("cache.ttl must not be negative")
	}
	if c.Cache.Enabled && c.Cache.Path == "" && c.Cache.RedisAddr == "" {
		result.AddWarning("cache enabled but cache.path is empty; caching disabled")
	}

	return result
}

// RequireProvider fails fast with a ConfigurationError when the named
// provider has no credential.
func (c *Config) RequireProvider(name string) error {
	pc := c.LLM.ProviderConfig(name)
	if pc == nil {
		return errors.ConfigErrorf("unknown provider %q (expected one of %s)", name, strings.Join(ProviderNames, ", "))
	}
	if pc.APIKey == "" {
		return errors.ConfigErrorf("%s API key not configured. Set %s or run: merit configure --provider %s",
			name, EnvVar(name), name)
	}
	return nil
}

// RequireAnyProvider fails when no provider has a credential
func (c *Config) RequireAnyProvider() error {
	if len(c.LLM.Configured()) > 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("no AI providers found. Please set at least one API key:")
	for _, name := range ProviderNames {
		sb.WriteString(fmt.Sprintf("\n  %s for %s", EnvVar(name), name))
	}
	return errors.ConfigError(sb.String())
}
