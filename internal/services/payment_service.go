package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"splitledger/internal/db"
	"splitledger/internal/models"
	"splitledger/internal/money"
	"splitledger/internal/store"
	"splitledger/internal/websocket"
)

// PaymentService settles transactions: a payment moves money from an
// optional source to a destination participant and may extinguish the
// outstanding amount of one or more transactions. Reversal is one-shot and
// restores both sides.
type PaymentService struct {
	txRunner     db.TxRunner
	ledger       *Ledger
	resolver     *Resolver
	gate         *InvoiceGate
	participants ParticipantStore
	transactions TransactionStore
	payments     PaymentStore
	reversals    ReversalStore
	hub          BalanceHub
}

func NewPaymentService(txRunner db.TxRunner, ledger *Ledger, resolver *Resolver, gate *InvoiceGate, participants ParticipantStore, transactions TransactionStore, payments PaymentStore, reversals ReversalStore, hub BalanceHub) *PaymentService {
	return &PaymentService{
		txRunner:     txRunner,
		ledger:       ledger,
		resolver:     resolver,
		gate:         gate,
		participants: participants,
		transactions: transactions,
		payments:     payments,
		reversals:    reversals,
		hub:          hub,
	}
}

type PaymentLinkInput struct {
	TransactionID string
	Amount        decimal.Decimal
}

type CreatePaymentRequest struct {
	Description              string
	TotalAmount              decimal.Decimal
	Type                     string
	PaymentMethodID          string
	SourceAccountID          *string
	SourceParticipantID      *string
	DestinationParticipantID string
	DestinationAccountID     *string
	Links                    []PaymentLinkInput
}

func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (string, error) {
	if strings.TrimSpace(req.Description) == "" || req.PaymentMethodID == "" || req.DestinationParticipantID == "" {
		return "", ErrMissingFields
	}
	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return "", ErrInvalidAmount
	}
	for _, link := range req.Links {
		if link.TransactionID == "" || link.Amount.LessThanOrEqual(decimal.Zero) {
			return "", ErrInvalidAmount
		}
	}

	paymentID := uuid.NewString()
	var updates []websocket.BalanceUpdate
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		updates = updates[:0]
		payment := models.Payment{
			ID:                       paymentID,
			Description:              req.Description,
			TotalAmount:              req.TotalAmount,
			Type:                     req.Type,
			PaymentMethodID:          req.PaymentMethodID,
			SourceAccountID:          req.SourceAccountID,
			SourceParticipantID:      req.SourceParticipantID,
			DestinationParticipantID: req.DestinationParticipantID,
			DestinationAccountID:     req.DestinationAccountID,
			Status:                   models.PaymentActive,
		}

		// Source side: only participants that use an account move money.
		debitSource := false
		if req.SourceParticipantID != nil {
			source, err := s.participants.GetActive(ctx, tx, *req.SourceParticipantID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrNotFound
				}
				return fmt.Errorf("load source participant: %w", err)
			}
			if source.UsesAccount {
				if req.SourceAccountID == nil {
					return ErrMissingFields
				}
				// Sufficiency precheck under lock; the mutation itself
				// happens after all validation passes.
				account, err := s.ledger.lock(ctx, tx, *req.SourceAccountID)
				if err != nil {
					return err
				}
				if account.CurrentBalance.Sub(req.TotalAmount).IsNegative() {
					return ErrInsufficientFunds
				}
				debitSource = true
			}
		}

		// Destination side.
		destination, err := s.participants.GetActive(ctx, tx, req.DestinationParticipantID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("load destination participant: %w", err)
		}
		creditDestination := false
		if destination.UsesAccount {
			if req.DestinationAccountID == nil {
				return ErrMissingFields
			}
			if err := s.resolver.ValidateDestinationAccount(ctx, tx, req.DestinationParticipantID, *req.DestinationAccountID); err != nil {
				return err
			}
			creditDestination = true
		}

		// Settlement links: availability, over-settlement bound and the
		// status each transaction will transition to.
		type linkPlan struct {
			link      models.PaymentTransactionLink
			newStatus string
		}
		plans := make([]linkPlan, 0, len(req.Links))
		// Links are not persisted until all of them validate, so amounts
		// staged earlier in this request must count against the bound too.
		staged := make(map[string]decimal.Decimal, len(req.Links))
		for _, link := range req.Links {
			transaction, err := s.transactions.GetActiveForUpdate(ctx, tx, link.TransactionID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrTransactionUnavailable
				}
				return fmt.Errorf("load transaction: %w", err)
			}
			switch transaction.Status {
			case models.TransactionPending, models.TransactionPartiallyPaid, models.TransactionFullyPaid:
			default:
				return ErrTransactionUnavailable
			}
			settled, err := s.payments.SettledAmount(ctx, tx, link.TransactionID)
			if err != nil {
				return fmt.Errorf("sum settled amount: %w", err)
			}
			accumulated := settled.Add(staged[link.TransactionID]).Add(link.Amount)
			if accumulated.Sub(transaction.TotalAmount).GreaterThan(money.Tolerance) {
				return ErrOverSettlement
			}
			staged[link.TransactionID] = staged[link.TransactionID].Add(link.Amount)
			newStatus := models.TransactionPartiallyPaid
			switch {
			case money.SumWithin(accumulated, transaction.TotalAmount) || accumulated.GreaterThanOrEqual(transaction.TotalAmount):
				newStatus = models.TransactionFullyPaid
			case accumulated.IsZero():
				newStatus = models.TransactionPending
			}
			plans = append(plans, linkPlan{
				link: models.PaymentTransactionLink{
					ID:                      uuid.NewString(),
					PaymentID:               paymentID,
					TransactionID:           link.TransactionID,
					LinkedAmount:            link.Amount,
					TransactionStatusBefore: transaction.Status,
					TransactionStatusAfter:  newStatus,
				},
				newStatus: newStatus,
			})
		}

		// All validation passed; apply balance mutations via the ledger
		// and persist the snapshots on the payment row.
		if debitSource {
			pre, post, err := s.ledger.Debit(ctx, tx, *req.SourceAccountID, req.TotalAmount)
			if err != nil {
				return err
			}
			payment.SourcePreBalance = decimal.NewNullDecimal(pre)
			payment.SourcePostBalance = decimal.NewNullDecimal(post)
			updates = append(updates, websocket.BalanceUpdate{AccountID: *req.SourceAccountID, Balance: money.Format(post)})
		}
		if creditDestination {
			pre, post, err := s.ledger.Credit(ctx, tx, *req.DestinationAccountID, req.TotalAmount)
			if err != nil {
				return err
			}
			payment.DestPreBalance = decimal.NewNullDecimal(pre)
			payment.DestPostBalance = decimal.NewNullDecimal(post)
			updates = append(updates, websocket.BalanceUpdate{AccountID: *req.DestinationAccountID, Balance: money.Format(post)})
		}

		if err := s.payments.Create(ctx, tx, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		for _, plan := range plans {
			if err := s.payments.InsertLink(ctx, tx, plan.link); err != nil {
				return fmt.Errorf("insert payment link: %w", err)
			}
			if err := s.transactions.UpdateStatus(ctx, tx, plan.link.TransactionID, plan.newStatus); err != nil {
				return fmt.Errorf("update transaction status: %w", err)
			}
		}

		// Credit-card payments accrue onto the open cycle of the card tied
		// to the debited account; other method kinds skip card resolution.
		if debitSource {
			invoice, err := s.resolver.ResolveCardChargeForAccount(ctx, tx, *req.SourceAccountID, req.PaymentMethodID, time.Now())
			if err != nil {
				return err
			}
			if invoice != nil {
				if err := s.gate.Accrue(ctx, tx, invoice.ID, req.TotalAmount); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	for _, update := range updates {
		s.hub.BroadcastBalance(update.AccountID, update)
	}
	return paymentID, nil
}

// ReversePayment undoes both balance sides of an active payment and snaps
// every linked transaction back to pending. It fails on the second attempt
// and leaves balances unchanged after the first reversal's effect.
func (s *PaymentService) ReversePayment(ctx context.Context, paymentID, reason string, proof *string) error {
	var updates []websocket.BalanceUpdate
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		updates = updates[:0]
		payment, err := s.payments.GetForUpdate(ctx, tx, paymentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("load payment: %w", err)
		}
		if payment.Status != models.PaymentActive {
			return ErrAlreadyReversed
		}
		if strings.TrimSpace(reason) == "" {
			return ErrMissingReason
		}

		if payment.DestinationAccountID != nil && payment.DestPreBalance.Valid {
			pre, post, err := s.ledger.Debit(ctx, tx, *payment.DestinationAccountID, payment.TotalAmount)
			if err != nil {
				return err
			}
			if err := s.reversals.Insert(ctx, tx, models.Reversal{
				ID:          uuid.NewString(),
				TargetType:  models.ReversalTargetPayment,
				TargetID:    payment.ID,
				AccountID:   payment.DestinationAccountID,
				Amount:      payment.TotalAmount,
				PreBalance:  pre,
				PostBalance: post,
			}); err != nil {
				return fmt.Errorf("insert reversal: %w", err)
			}
			updates = append(updates, websocket.BalanceUpdate{AccountID: *payment.DestinationAccountID, Balance: money.Format(post)})
		}
		if payment.SourceAccountID != nil && payment.SourcePreBalance.Valid {
			pre, post, err := s.ledger.Credit(ctx, tx, *payment.SourceAccountID, payment.TotalAmount)
			if err != nil {
				return err
			}
			if err := s.reversals.Insert(ctx, tx, models.Reversal{
				ID:          uuid.NewString(),
				TargetType:  models.ReversalTargetPayment,
				TargetID:    payment.ID,
				AccountID:   payment.SourceAccountID,
				Amount:      payment.TotalAmount,
				PreBalance:  pre,
				PostBalance: post,
			}); err != nil {
				return fmt.Errorf("insert reversal: %w", err)
			}
			updates = append(updates, websocket.BalanceUpdate{AccountID: *payment.SourceAccountID, Balance: money.Format(post)})
		}

		links, err := s.payments.LinksByPayment(ctx, tx, paymentID)
		if err != nil {
			return fmt.Errorf("load payment links: %w", err)
		}
		for _, link := range links {
			if err := s.transactions.UpdateStatus(ctx, tx, link.TransactionID, models.TransactionPending); err != nil {
				return fmt.Errorf("reset transaction status: %w", err)
			}
		}
		return s.payments.MarkReversed(ctx, tx, paymentID, reason, proof)
	})
	if err != nil {
		return err
	}
	for _, update := range updates {
		s.hub.BroadcastBalance(update.AccountID, update)
	}
	return nil
}

// ListPayments is read-only: filter plus 1-indexed offset pagination, no
// balance side effects.
func (s *PaymentService) ListPayments(ctx context.Context, filter store.PaymentFilter, page, pageSize int) ([]models.Payment, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize
	return s.payments.List(ctx, filter, pageSize, offset)
}
