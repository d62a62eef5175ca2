package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"splitledger/internal/models"
)

func TestCreateInvoiceForcesOpenStatus(t *testing.T) {
	handler := newTestHandler(testDeps{
		invoices: stubInvoiceStore{
			createFn: func(_ context.Context, invoice models.Invoice) error {
				if invoice.Status != models.InvoiceOpen {
					t.Fatalf("expected open status, got %s", invoice.Status)
				}
				if !invoice.ClosingDate.Before(invoice.DueDate) {
					t.Fatalf("unexpected billing window: %v .. %v", invoice.ClosingDate, invoice.DueDate)
				}
				return nil
			},
		},
	})

	body := []byte(`{"card_id":"card-1","closing_date":"2026-03-05","due_date":"2026-03-15","status":"paid"}`)
	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.CreateInvoice(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateInvoiceRejectsInvertedWindow(t *testing.T) {
	handler := newTestHandler(testDeps{
		invoices: stubInvoiceStore{
			createFn: func(context.Context, models.Invoice) error {
				t.Fatal("store should not be called")
				return nil
			},
		},
	})

	body := []byte(`{"card_id":"card-1","closing_date":"2026-03-15","due_date":"2026-03-05"}`)
	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.CreateInvoice(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
