package services

import "errors"

// Business-rule errors surfaced to the transport layer. Callers branch on
// the sentinel, never on message text. Storage failures are wrapped with
// %w and reach the transport as unknown errors.
var (
	ErrMissingFields             = errors.New("missing required fields")
	ErrInvalidAmount             = errors.New("invalid amount")
	ErrShareMismatch             = errors.New("participant shares do not sum to the transaction total")
	ErrNotFound                  = errors.New("entity not found or inactive")
	ErrInsufficientFunds         = errors.New("insufficient funds")
	ErrNoEligibleAccount         = errors.New("no eligible account for participant and payment method")
	ErrNoOpenInvoice             = errors.New("no open invoice for the charge date")
	ErrTransactionUnavailable    = errors.New("transaction not available for settlement")
	ErrOverSettlement            = errors.New("linked amount exceeds the transaction's outstanding balance")
	ErrAlreadyReversed           = errors.New("already reversed")
	ErrInvalidDestinationAccount = errors.New("destination account does not belong to the destination participant")
	ErrMissingReason             = errors.New("reversal reason is required")
)
