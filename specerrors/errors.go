// Package specerrors provides structured error types for specforge.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of pipeline failures and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ParseError: dialect parsing failures (syntax, unresolved refs, unsupported features)
//   - InvariantError: an IR invariant violation produced by a parser (a bug, not bad input)
//   - IntentError: an invalid target_intents selection
//   - RenderError: a template could not render a given operation's payload set
//   - StoreError: an artifact failed to persist
//   - LLMPolicyViolation: the enhancer rejected a provider's output
//
// # Usage with errors.As
//
//	spec, err := dialect.Parse(dialect.HTTPContract, src, dialect.Options{})
//	if err != nil {
//	    var perr *specerrors.ParseError
//	    if errors.As(err, &perr) {
//	        fmt.Println(perr.Kind, perr.Path)
//	    }
//	}
package specerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates a dialect parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrUnsupportedDialect indicates the requested source_dialect is unknown.
	ErrUnsupportedDialect = errors.New("unsupported dialect")

	// ErrInvariant indicates an internal IR invariant was violated.
	ErrInvariant = errors.New("invariant violation")

	// ErrIntent indicates an invalid intent selection.
	ErrIntent = errors.New("invalid intent selection")

	// ErrRender indicates a template could not render an operation.
	ErrRender = errors.New("render error")

	// ErrStore indicates an artifact failed to persist.
	ErrStore = errors.New("store error")

	// ErrLLMPolicy indicates the enhancer rejected a provider response.
	ErrLLMPolicy = errors.New("llm policy violation")
)

// ParseErrorKind classifies why a dialect parser failed.
type ParseErrorKind string

const (
	KindSyntax              ParseErrorKind = "syntax"
	KindUnresolvedReference ParseErrorKind = "unresolved_reference"
	KindUnsupportedFeature  ParseErrorKind = "unsupported_feature"
	KindInvariantViolation  ParseErrorKind = "invariant_violation"
)

// ParseError represents a failure to parse a specification source.
type ParseError struct {
	// Path is the source identifier (file path, "<reader>", etc.)
	Path string
	// Kind classifies the failure.
	Kind ParseErrorKind
	// Detail describes the parsing failure.
	Detail string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Kind != "" {
		msg += fmt.Sprintf(" (%s)", e.Kind)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Cause }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// InvariantError represents a violation of an IR invariant (§3 of the spec)
// produced by a parser. This is treated as an implementation bug, never a
// caller input error.
type InvariantError struct {
	// Invariant names which invariant was violated (e.g. "unique-operation-id").
	Invariant string
	// Detail describes the violation.
	Detail string
}

func (e *InvariantError) Error() string {
	msg := "invariant violation"
	if e.Invariant != "" {
		msg += ": " + e.Invariant
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }

// IntentError represents an invalid target_intents selection.
type IntentError struct {
	// IntentID is the offending identifier, if applicable.
	IntentID string
	// Detail describes the problem.
	Detail string
}

func (e *IntentError) Error() string {
	msg := "invalid intent selection"
	if e.IntentID != "" {
		msg += ": " + e.IntentID
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *IntentError) Is(target error) bool { return target == ErrIntent }

// RenderError represents a failure to render a single operation's test file.
// Its scope is the one offending operation; the job otherwise continues.
type RenderError struct {
	// OperationID is the operation that failed to render.
	OperationID string
	// Framework is the target framework being rendered.
	Framework string
	// Detail describes the failure.
	Detail string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *RenderError) Error() string {
	msg := "render error"
	if e.OperationID != "" {
		msg += " for " + e.OperationID
	}
	if e.Framework != "" {
		msg += fmt.Sprintf(" (%s)", e.Framework)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Cause }

func (e *RenderError) Is(target error) bool { return target == ErrRender }

// StoreError represents a failure to persist a pipeline artifact.
type StoreError struct {
	// Artifact is the artifact path (e.g. "1_ir.json").
	Artifact string
	// JobID identifies the job whose artifact write failed.
	JobID string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *StoreError) Error() string {
	msg := "store error"
	if e.Artifact != "" {
		msg += " writing " + e.Artifact
	}
	if e.JobID != "" {
		msg += fmt.Sprintf(" (job %s)", e.JobID)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error { return e.Cause }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// LLMPolicyViolation represents a provider response rejected by the
// enhancer's structural-invariant validator. This is logged, not fatal.
type LLMPolicyViolation struct {
	// OperationID identifies the operation whose payload was being enhanced.
	OperationID string
	// Reason names which invariant the response violated.
	Reason string
}

func (e *LLMPolicyViolation) Error() string {
	msg := "llm policy violation"
	if e.OperationID != "" {
		msg += " for " + e.OperationID
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *LLMPolicyViolation) Is(target error) bool { return target == ErrLLMPolicy }
