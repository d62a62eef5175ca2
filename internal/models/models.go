package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction statuses. A transaction is created pending, accumulates
// settlement through payments and is terminally reversed at most once.
const (
	TransactionPending       = "pending"
	TransactionPartiallyPaid = "partially_paid"
	TransactionFullyPaid     = "fully_paid"
	TransactionReversed      = "reversed"
)

// Payment statuses.
const (
	PaymentActive   = "active"
	PaymentReversed = "reversed"
)

// Invoice statuses.
const (
	InvoiceOpen   = "open"
	InvoiceClosed = "closed"
	InvoicePaid   = "paid"
)

// PaymentMethodCreditCard marks the method that routes charges through a
// card's open invoice cycle.
const PaymentMethodCreditCard = "credit_card"

type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PaymentMethod struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Kind      string    `db:"kind" json:"kind"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Account struct {
	ID             string          `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	InitialBalance decimal.Decimal `db:"initial_balance" json:"initial_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance" json:"current_balance"`
	Active         bool            `db:"active" json:"active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

type Participant struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	UsesAccount bool      `db:"uses_account" json:"uses_account"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Card struct {
	ID          string              `db:"id" json:"id"`
	Name        string              `db:"name" json:"name"`
	AccountID   string              `db:"account_id" json:"account_id"`
	CreditLimit decimal.NullDecimal `db:"credit_limit" json:"credit_limit"`
	Active      bool                `db:"active" json:"active"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
}

type Invoice struct {
	ID            string          `db:"id" json:"id"`
	CardID        string          `db:"card_id" json:"card_id"`
	ClosingDate   time.Time       `db:"closing_date" json:"closing_date"`
	DueDate       time.Time       `db:"due_date" json:"due_date"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status        string          `db:"status" json:"status"`
	Justification *string         `db:"justification" json:"justification,omitempty"`
	Active        bool            `db:"active" json:"active"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

type Transaction struct {
	ID              string          `db:"id" json:"id"`
	Description     string          `db:"description" json:"description"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	OccurredOn      time.Time       `db:"occurred_on" json:"occurred_on"`
	PaymentMethodID string          `db:"payment_method_id" json:"payment_method_id"`
	Category        string          `db:"category" json:"category"`
	Status          string          `db:"status" json:"status"`
	Reversed        bool            `db:"reversed" json:"reversed"`
	Active          bool            `db:"active" json:"active"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// TransactionShare records one participant's portion of a transaction.
// Pre/post balances snapshot the debited account at split time; they stay
// null for participants that do not use an account.
type TransactionShare struct {
	ID            string              `db:"id" json:"id"`
	TransactionID string              `db:"transaction_id" json:"transaction_id"`
	ParticipantID string              `db:"participant_id" json:"participant_id"`
	AccountID     *string             `db:"account_id" json:"account_id,omitempty"`
	ShareAmount   decimal.Decimal     `db:"share_amount" json:"share_amount"`
	PreBalance    decimal.NullDecimal `db:"pre_balance" json:"pre_balance"`
	PostBalance   decimal.NullDecimal `db:"post_balance" json:"post_balance"`
	ReversalID    *string             `db:"reversal_id" json:"reversal_id,omitempty"`
	Active        bool                `db:"active" json:"active"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
}

type Payment struct {
	ID                       string              `db:"id" json:"id"`
	Description              string              `db:"description" json:"description"`
	TotalAmount              decimal.Decimal     `db:"total_amount" json:"total_amount"`
	Type                     string              `db:"type" json:"type"`
	PaymentMethodID          string              `db:"payment_method_id" json:"payment_method_id"`
	SourceAccountID          *string             `db:"source_account_id" json:"source_account_id,omitempty"`
	SourceParticipantID      *string             `db:"source_participant_id" json:"source_participant_id,omitempty"`
	DestinationParticipantID string              `db:"destination_participant_id" json:"destination_participant_id"`
	DestinationAccountID     *string             `db:"destination_account_id" json:"destination_account_id,omitempty"`
	SourcePreBalance         decimal.NullDecimal `db:"source_pre_balance" json:"source_pre_balance"`
	SourcePostBalance        decimal.NullDecimal `db:"source_post_balance" json:"source_post_balance"`
	DestPreBalance           decimal.NullDecimal `db:"dest_pre_balance" json:"dest_pre_balance"`
	DestPostBalance          decimal.NullDecimal `db:"dest_post_balance" json:"dest_post_balance"`
	Status                   string              `db:"status" json:"status"`
	ReversalReason           *string             `db:"reversal_reason" json:"reversal_reason,omitempty"`
	ReversalProof            *string             `db:"reversal_proof" json:"reversal_proof,omitempty"`
	ReversedAt               *time.Time          `db:"reversed_at" json:"reversed_at,omitempty"`
	CreatedAt                time.Time           `db:"created_at" json:"created_at"`
}

// PaymentTransactionLink records how much of a transaction's outstanding
// amount a payment satisfied, with the status transition it caused.
type PaymentTransactionLink struct {
	ID                      string          `db:"id" json:"id"`
	PaymentID               string          `db:"payment_id" json:"payment_id"`
	TransactionID           string          `db:"transaction_id" json:"transaction_id"`
	LinkedAmount            decimal.Decimal `db:"linked_amount" json:"linked_amount"`
	TransactionStatusBefore string          `db:"transaction_status_before" json:"transaction_status_before"`
	TransactionStatusAfter  string          `db:"transaction_status_after" json:"transaction_status_after"`
	CreatedAt               time.Time       `db:"created_at" json:"created_at"`
}

// Reversal target types.
const (
	ReversalTargetShare   = "transaction_share"
	ReversalTargetPayment = "payment"
)

type Reversal struct {
	ID          string          `db:"id" json:"id"`
	TargetType  string          `db:"target_type" json:"target_type"`
	TargetID    string          `db:"target_id" json:"target_id"`
	AccountID   *string         `db:"account_id" json:"account_id,omitempty"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	PreBalance  decimal.Decimal `db:"pre_balance" json:"pre_balance"`
	PostBalance decimal.Decimal `db:"post_balance" json:"post_balance"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
