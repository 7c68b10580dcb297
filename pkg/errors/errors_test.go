package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsErrorType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{"base error matches", NewBaseError(ErrorTypeLLM, "boom", nil), ErrorTypeLLM, true},
		{"base error wrong type", NewBaseError(ErrorTypeLLM, "boom", nil), ErrorTypeGraph, false},
		{"typed wrapper matches", NewLLMRequestFailed("test-model", stderrors.New("timeout")), ErrorTypeLLM, true},
		{"typed wrapper wrong type", NewGraphQueryFailed("store fact", stderrors.New("down")), ErrorTypeLLM, false},
		{"wrapped in fmt.Errorf", fmt.Errorf("chat turn: %w", NewEpisodicSearchFailed(stderrors.New("down"))), ErrorTypeEpisodic, true},
		{"plain error", stderrors.New("nope"), ErrorTypeLLM, false},
		{"nil error", nil, ErrorTypeLLM, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsErrorType(tt.err, tt.errType))
		})
	}
}

func TestBaseError_Error(t *testing.T) {
	plain := NewBaseError(ErrorTypeConfig, "missing key", nil)
	require.Equal(t, "[config] missing key", plain.Error())

	wrapped := NewBaseError(ErrorTypeGraph, "query failed", stderrors.New("connection refused"))
	require.Equal(t, "[graph] query failed: connection refused", wrapped.Error())
}

func TestNewConfigMissingRequired(t *testing.T) {
	err := NewConfigMissingRequired("LLM_API_KEY")
	require.Equal(t, "LLM_API_KEY", err.Field)
	require.Contains(t, err.Error(), "LLM_API_KEY")
	require.True(t, IsErrorType(err, ErrorTypeConfig))
}

func TestUnwrap(t *testing.T) {
	inner := stderrors.New("root cause")
	err := NewEpisodicWriteFailed(inner)
	require.True(t, stderrors.Is(err, inner))
}
