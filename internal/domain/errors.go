package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories reported by the ledger.
type ErrorKind uint8

const (
	// KindInternal covers every failure that is not one of the kinds below.
	KindInternal ErrorKind = iota
	KindInvalidAmount
	KindSelfTransfer
	KindAccountNotFound
	KindTransferNotFound
	KindInsufficientFunds
	// KindUnavailable reports lock timeouts and serialization conflicts
	// that survived the engine's retries. Callers may retry.
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidAmount:
		return "invalid_amount"
	case KindSelfTransfer:
		return "self_transfer"
	case KindAccountNotFound:
		return "account_not_found"
	case KindTransferNotFound:
		return "transfer_not_found"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is a classified ledger failure.
type Error struct {
	Kind       ErrorKind
	AccountID  AccountID
	TransferID TransferID
	Msg        string
	cause      error
}

func (e *Error) Error() string {
	return e.Msg
}

// Unwrap returns the underlying storage error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error of the same kind, so the sentinels
// below match every error of their kind regardless of the ids it carries.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidAmount          = &Error{Kind: KindInvalidAmount, Msg: "invalid amount"}
	ErrSelfTransfer           = &Error{Kind: KindSelfTransfer, Msg: "no self transfers allowed"}
	ErrAccountNotFound        = &Error{Kind: KindAccountNotFound, Msg: "account not found"}
	ErrTransferNotFound       = &Error{Kind: KindTransferNotFound, Msg: "transfer not found"}
	ErrInsufficientFunds      = &Error{Kind: KindInsufficientFunds, Msg: "insufficient funds"}
	ErrTemporarilyUnavailable = &Error{Kind: KindUnavailable, Msg: "ledger temporarily unavailable, retry later"}
)

// InvalidAmount builds an InvalidAmount error with a rule description.
func InvalidAmount(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidAmount, Msg: fmt.Sprintf(format, args...)}
}

// AccountNotFound builds an AccountNotFound error naming the missing account.
func AccountNotFound(id AccountID) *Error {
	return &Error{
		Kind:      KindAccountNotFound,
		AccountID: id,
		Msg:       fmt.Sprintf("cannot find account with id=%d", id),
	}
}

// TransferNotFound builds a TransferNotFound error naming the missing transfer.
func TransferNotFound(id TransferID) *Error {
	return &Error{
		Kind:       KindTransferNotFound,
		TransferID: id,
		Msg:        fmt.Sprintf("cannot find transfer with id=%d", id),
	}
}

// InsufficientFunds builds an InsufficientFunds error for the debited account.
func InsufficientFunds(id AccountID) *Error {
	return &Error{
		Kind:      KindInsufficientFunds,
		AccountID: id,
		Msg:       fmt.Sprintf("not enough money on account id=%d to transfer", id),
	}
}

// Unavailable wraps a transient storage conflict.
func Unavailable(cause error) *Error {
	return &Error{
		Kind:  KindUnavailable,
		Msg:   ErrTemporarilyUnavailable.Msg,
		cause: cause,
	}
}

// KindOf classifies any error. Context deadline expiry counts as contention.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}
	return KindInternal
}
