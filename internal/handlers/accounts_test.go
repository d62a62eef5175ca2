package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"splitledger/internal/models"
	"splitledger/internal/store"
)

func TestCreateAccountSetsBothBalances(t *testing.T) {
	handler := newTestHandler(testDeps{
		accounts: stubAccountStore{
			createFn: func(_ context.Context, account models.Account) error {
				if !account.InitialBalance.Equal(dec("250.00")) || !account.CurrentBalance.Equal(dec("250.00")) {
					t.Fatalf("unexpected balances: %#v", account)
				}
				return nil
			},
		},
	})

	body := []byte(`{"name":"checking","initial_balance":"250.00"}`)
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.CreateAccount(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateAccountLinksPaymentMethods(t *testing.T) {
	linked := false
	handler := newTestHandler(testDeps{
		accounts: stubAccountStore{
			setMethodsFn: func(_ context.Context, _ store.Execer, _ string, links []store.AccountMethodLinkInput) error {
				if len(links) != 2 || links[0].PaymentMethodID != "pm-1" {
					t.Fatalf("unexpected links: %#v", links)
				}
				linked = true
				return nil
			},
		},
	})

	body := []byte(`{"name":"checking","payment_method_ids":["pm-1","pm-2"]}`)
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.CreateAccount(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if !linked {
		t.Fatal("expected payment methods to be linked")
	}
}

func TestGetAccountNotFound(t *testing.T) {
	handler := newTestHandler(testDeps{
		accounts: stubAccountStore{
			getByIDFn: func(context.Context, string) (models.Account, error) {
				return models.Account{}, sql.ErrNoRows
			},
		},
	})

	router := chi.NewRouter()
	router.Get("/accounts/{id}", handler.GetAccount)
	req := httptest.NewRequest(http.MethodGet, "/accounts/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateAccountRejectsBadBalance(t *testing.T) {
	handler := newTestHandler(testDeps{})

	router := chi.NewRouter()
	router.Put("/accounts/{id}", handler.UpdateAccount)
	body := []byte(`{"name":"checking","current_balance":"1.005"}`)
	req := httptest.NewRequest(http.MethodPut, "/accounts/acc-1", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSetAccountPaymentMethodsRequiresIDs(t *testing.T) {
	handler := newTestHandler(testDeps{})

	router := chi.NewRouter()
	router.Put("/accounts/{id}/payment-methods", handler.SetAccountPaymentMethods)
	req := httptest.NewRequest(http.MethodPut, "/accounts/acc-1/payment-methods", bytes.NewReader([]byte(`{"payment_method_ids":[]}`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
