package domain

import "errors"

// Every error below aborts the whole call: a disbursement either commits all
// of its transfers or none of them. Callers match with errors.Is.

// Validation errors, reported by the transfer validator. The validator
// returns the first violated rule only; the order is part of the contract.
var (
	// ErrNoRecipients indicates an empty recipients list.
	ErrNoRecipients = errors.New("no recipients provided")
	// ErrNoAmounts indicates an empty amounts list.
	ErrNoAmounts = errors.New("no amounts provided")
	// ErrLengthMismatch indicates the recipients and amounts lists differ in length.
	ErrLengthMismatch = errors.New("recipients and amounts length mismatch")
	// ErrTooManyRecipients indicates the recipient count exceeds the variant's limit.
	ErrTooManyRecipients = errors.New("too many recipients")
)

// Funds errors, reported while funding or distributing a disbursement.
var (
	// ErrInsufficientValue indicates the attached native value cannot cover a transfer.
	ErrInsufficientValue = errors.New("insufficient attached value")
	// ErrInsufficientAllowance indicates the caller's allowance to the engine
	// does not cover the declared total amount.
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrInsufficientAmount indicates the declared total amount cannot cover a
	// token transfer.
	ErrInsufficientAmount = errors.New("insufficient total amount")
)

// Access errors, reported by the access gate.
var (
	// ErrNotOwner indicates the caller is not the owner account.
	ErrNotOwner = errors.New("caller is not the owner")
	// ErrPaused indicates disbursements are paused.
	ErrPaused = errors.New("disbursements are paused")
)

// Transfer errors, reported when an individual transfer leg cannot be applied.
var (
	// ErrRecipientRejected indicates the recipient cannot accept the asset.
	ErrRecipientRejected = errors.New("recipient rejected the transfer")
	// ErrZeroAddressRecipient indicates a transfer targeted the zero account.
	ErrZeroAddressRecipient = errors.New("recipient is the zero account")
)

// Ledger errors, reported by asset ledger implementations.
var (
	// ErrNegativeAmount indicates a ledger operation received a negative amount.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrInsufficientBalance indicates the source account cannot cover a
	// ledger operation.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
