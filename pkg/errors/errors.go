package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeLLM represents language-model gateway errors
	ErrorTypeLLM ErrorType = "llm"
	// ErrorTypeGraph represents knowledge-graph store errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeEpisodic represents episodic/vector store errors
	ErrorTypeEpisodic ErrorType = "episodic"
	// ErrorTypeMemory represents memory-pipeline errors (classification, extraction)
	ErrorTypeMemory ErrorType = "memory"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Base exposes the common fields; promoted through every typed error so
// IsErrorType can match wrappers and plain BaseErrors alike
func (e *BaseError) Base() *BaseError {
	return e
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required secret or setting is absent
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// LLM Errors

// ErrLLMRequestFailed is returned when a chat-completion call fails
type ErrLLMRequestFailed struct {
	*BaseError
	Model string
}

func NewLLMRequestFailed(model string, err error) *ErrLLMRequestFailed {
	return &ErrLLMRequestFailed{
		BaseError: NewBaseError(ErrorTypeLLM, "LLM request failed", err),
		Model:     model,
	}
}

// ErrLLMEmptyResponse is returned when the model produced no choices
var ErrLLMEmptyResponse = NewBaseError(ErrorTypeLLM, "no choices in LLM response", nil)

// Graph Errors

// ErrGraphConnectionFailed is returned when the Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("graph operation failed: %s", operation), err),
		Operation: operation,
	}
}

// Episodic Errors

// ErrEpisodicWriteFailed is returned when an episodic record cannot be stored
type ErrEpisodicWriteFailed struct {
	*BaseError
}

func NewEpisodicWriteFailed(err error) *ErrEpisodicWriteFailed {
	return &ErrEpisodicWriteFailed{
		BaseError: NewBaseError(ErrorTypeEpisodic, "failed to store episodic record", err),
	}
}

// ErrEpisodicSearchFailed is returned when a similarity search fails
type ErrEpisodicSearchFailed struct {
	*BaseError
}

func NewEpisodicSearchFailed(err error) *ErrEpisodicSearchFailed {
	return &ErrEpisodicSearchFailed{
		BaseError: NewBaseError(ErrorTypeEpisodic, "similarity search failed", err),
	}
}

// Helper functions

// IsErrorType checks if an error (anywhere in its chain) is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var typed interface{ Base() *BaseError }
	if stderrors.As(err, &typed) {
		return typed.Base().Type == errType
	}
	return false
}
