package entity

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies a failure so the entrypoint can pick an exit code and
// message without every component terminating the process on its own.
type Kind int

const (
	// KindInternal is the fallback for errors no component classified.
	KindInternal Kind = iota
	// KindUsage covers bad flags, env values or malformed addresses,
	// reported before any network interaction.
	KindUsage
	// KindConnectivity covers an unreachable or unresponsive node.
	KindConnectivity
	// KindRPC covers node-level errors on calls that did reach the node.
	KindRPC
	// KindState covers business-logic guards: zero balances, zero
	// computed amounts, unmatched coin index.
	KindState
	// KindTransaction covers a submitted withdrawal that failed or
	// timed out waiting for confirmation.
	KindTransaction
)

// Error tags an underlying error with a failure kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Usage wraps err as a usage/configuration failure.
func Usage(err error) *Error { return &Error{Kind: KindUsage, Err: err} }

// Usagef builds a usage failure from a format string.
func Usagef(format string, args ...any) *Error {
	return &Error{Kind: KindUsage, Err: pkgerrors.Errorf(format, args...)}
}

// Connectivity wraps err as an unreachable-node failure.
func Connectivity(err error) *Error { return &Error{Kind: KindConnectivity, Err: err} }

// RPC wraps err as a node-level call failure.
func RPC(err error) *Error { return &Error{Kind: KindRPC, Err: err} }

// State wraps err as a business-logic guard failure.
func State(err error) *Error { return &Error{Kind: KindState, Err: err} }

// Statef builds a state failure from a format string.
func Statef(format string, args ...any) *Error {
	return &Error{Kind: KindState, Err: pkgerrors.Errorf(format, args...)}
}

// Transaction wraps err as a failed or unconfirmed transaction.
func Transaction(err error) *Error { return &Error{Kind: KindTransaction, Err: err} }

// KindOf reports the kind of err, walking wrapped errors. Unclassified
// errors are internal.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindInternal
}
