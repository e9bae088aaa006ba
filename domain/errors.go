package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeInvalid             ErrorCode = "INVALID"
	ErrCodeAlreadyCompleted    ErrorCode = "ALREADY_COMPLETED"
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeInternal            ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is makes sentinel comparisons work across wrapped copies of the same
// code/message pair, so repositories can return the exact sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrTaskNotFound        = NewError(ErrCodeNotFound, "task not found")
	ErrTaskCompleted       = NewError(ErrCodeAlreadyCompleted, "task already completed")
	ErrDescriptionRequired = NewError(ErrCodeInvalid, "description is required")
	ErrUserIDRequired      = NewError(ErrCodeInvalid, "userId is required")
	ErrInvalidPayload      = NewError(ErrCodeInvalid, "invalid payload")
	ErrInsufficientBalance = NewError(ErrCodeInsufficientBalance, "insufficient balance")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// BalanceShortfall carries the numbers behind a rejected spend: what the
// caller asked for and what the ledger actually held at rejection time.
type BalanceShortfall struct {
	Currency  string
	Balance   int64
	Requested int64
}

func (e *BalanceShortfall) Error() string {
	return fmt.Sprintf("have %d, requested %d", e.Balance, e.Requested)
}

// NewBalanceShortfall builds the classified error surfaced by spend
// operations when the requested amount exceeds the derived balance.
func NewBalanceShortfall(currency string, balance, requested int64) *Error {
	return WrapError(
		ErrCodeInsufficientBalance,
		fmt.Sprintf("insufficient %s balance", currency),
		&BalanceShortfall{Currency: currency, Balance: balance, Requested: requested},
	)
}
