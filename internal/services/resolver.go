package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"splitledger/internal/models"
	"splitledger/internal/store"
)

// Resolver decides which account (and, for credit cards, which card and
// invoice) is eligible for a charge against a participant with a given
// payment method.
type Resolver struct {
	participants ParticipantStore
	methods      PaymentMethodStore
	cards        CardStore
	gate         *InvoiceGate
}

func NewResolver(participants ParticipantStore, methods PaymentMethodStore, cards CardStore, gate *InvoiceGate) *Resolver {
	return &Resolver{participants: participants, methods: methods, cards: cards, gate: gate}
}

// ChargeTarget is the resolution result for one participant. Accounts is
// empty when the participant does not use accounts; callers must then skip
// balance mutation entirely. Card and Invoice are set only for the
// credit-card payment method.
type ChargeTarget struct {
	Participant models.Participant
	Method      models.PaymentMethod
	Accounts    []store.EligibleAccount
	Card        *models.Card
	Invoice     *models.Invoice
}

func (r *Resolver) ResolveAccountsForCharge(ctx context.Context, tx store.Tx, participantID, paymentMethodID string, chargeDate time.Time) (ChargeTarget, error) {
	participant, err := r.participants.GetActive(ctx, tx, participantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ChargeTarget{}, ErrNotFound
		}
		return ChargeTarget{}, fmt.Errorf("load participant: %w", err)
	}
	method, err := r.methods.GetActive(ctx, tx, paymentMethodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ChargeTarget{}, ErrNotFound
		}
		return ChargeTarget{}, fmt.Errorf("load payment method: %w", err)
	}
	target := ChargeTarget{Participant: participant, Method: method}
	if !participant.UsesAccount {
		return target, nil
	}

	accounts, err := r.participants.EligibleAccounts(ctx, tx, participantID, paymentMethodID)
	if err != nil {
		return ChargeTarget{}, fmt.Errorf("resolve eligible accounts: %w", err)
	}
	if len(accounts) == 0 {
		return ChargeTarget{}, ErrNoEligibleAccount
	}
	target.Accounts = accounts

	if method.Kind == models.PaymentMethodCreditCard {
		ids := make([]string, len(accounts))
		for i, account := range accounts {
			ids[i] = account.ID
		}
		card, err := r.cards.ActiveCardForAccounts(ctx, tx, ids)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ChargeTarget{}, ErrNoOpenInvoice
			}
			return ChargeTarget{}, fmt.Errorf("resolve card: %w", err)
		}
		invoice, err := r.gate.ResolveOpenInvoice(ctx, tx, card.ID, chargeDate)
		if err != nil {
			return ChargeTarget{}, err
		}
		target.Card = &card
		target.Invoice = &invoice
	}
	return target, nil
}

// ResolveCardChargeForAccount resolves the open invoice for a charge
// debited from a specific account. Only the credit-card method accrues
// onto a cycle; every other kind resolves to no invoice and imposes no
// account-method eligibility on the debited account.
func (r *Resolver) ResolveCardChargeForAccount(ctx context.Context, tx store.Tx, accountID, paymentMethodID string, chargeDate time.Time) (*models.Invoice, error) {
	method, err := r.methods.GetActive(ctx, tx, paymentMethodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load payment method: %w", err)
	}
	if method.Kind != models.PaymentMethodCreditCard {
		return nil, nil
	}
	card, err := r.cards.ActiveCardForAccounts(ctx, tx, []string{accountID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenInvoice
		}
		return nil, fmt.Errorf("resolve card: %w", err)
	}
	invoice, err := r.gate.ResolveOpenInvoice(ctx, tx, card.ID, chargeDate)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ValidateDestinationAccount checks that the account is reachable from the
// participant through an active link.
func (r *Resolver) ValidateDestinationAccount(ctx context.Context, tx store.Tx, participantID, accountID string) error {
	owns, err := r.participants.OwnsAccount(ctx, tx, participantID, accountID)
	if err != nil {
		return fmt.Errorf("validate destination account: %w", err)
	}
	if !owns {
		return ErrInvalidDestinationAccount
	}
	return nil
}
