package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByType(t *testing.T) {
	cause := fmt.Errorf("reference not found")
	err := RepositoryAccessError(cause, "failed to resolve HEAD")

	assert.True(t, stderrors.Is(err, RepositoryAccess))
	assert.False(t, stderrors.Is(err, DiffComputation))
	assert.True(t, stderrors.Is(err, cause), "cause should stay reachable through Unwrap")
}

func TestErrorIsThroughFmtWrap(t *testing.T) {
	inner := DiffComputationErrorf(fmt.Errorf("object not found"), "diff %s", "abc123")
	outer := fmt.Errorf("aggregating: %w", inner)

	assert.True(t, stderrors.Is(outer, DiffComputation))
	assert.Equal(t, ErrorTypeDiff, GetType(outer))
	assert.Equal(t, SeverityLow, GetSeverity(outer))
	assert.False(t, IsFatal(outer))
}

func TestSeverityByConstructor(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		severity Severity
		fatal    bool
	}{
		{"config", ConfigError("missing key"), SeverityCritical, true},
		{"validation", ValidationError("bad input"), SeverityHigh, false},
		{"repository", RepositoryAccessError(fmt.Errorf("x"), "open"), SeverityCritical, true},
		{"diff", DiffComputationError(fmt.Errorf("x"), "diff"), SeverityLow, false},
		{"provider", ProviderError(fmt.Errorf("x"), "generate"), SeverityMedium, false},
		{"internal", InternalError("boom"), SeverityCritical, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.severity, tt.err.Severity)
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, SeverityLow, "nothing"))
}

func TestDetailedString(t *testing.T) {
	err := ProviderError(fmt.Errorf("429 too many requests"), "openai completion failed").
		WithContext("provider", "OpenAI")

	detail := err.DetailedString()
	require.Contains(t, detail, "[MEDIUM] [PROVIDER] openai completion failed")
	assert.Contains(t, detail, "Caused by: 429 too many requests")
	assert.Contains(t, detail, "provider: OpenAI")
	assert.Equal(t, "openai completion failed: 429 too many requests", err.Error())
}

func TestGetTypeForPlainError(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, GetType(fmt.Errorf("plain")))
	assert.Equal(t, SeverityMedium, GetSeverity(fmt.Errorf("plain")))
	assert.Equal(t, SeverityLow, GetSeverity(nil))
}
