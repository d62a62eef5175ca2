package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"splitledger/internal/config"
	"splitledger/internal/db"
	"splitledger/internal/handlers"
	"splitledger/internal/obs"
	"splitledger/internal/services"
	"splitledger/internal/store"
	"splitledger/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	obs.Init()

	users := store.NewUserStore(database)
	methods := store.NewPaymentMethodStore(database)
	accounts := store.NewAccountStore(database)
	participants := store.NewParticipantStore(database)
	cards := store.NewCardStore(database)
	invoices := store.NewInvoiceStore(database)
	transactions := store.NewTransactionStore(database)
	payments := store.NewPaymentStore(database)
	reversals := store.NewReversalStore(database)

	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	ledger := services.NewLedger(accounts)
	gate := services.NewInvoiceGate(invoices)
	resolver := services.NewResolver(participants, methods, cards, gate)
	txEngine := services.NewTransactionService(txRunner, ledger, resolver, gate, transactions, reversals, hub)
	settlements := services.NewPaymentService(txRunner, ledger, resolver, gate, participants, transactions, payments, reversals, hub)

	handler := handlers.New(cfg, txRunner, users, methods, accounts, participants, cards, invoices, transactions, txEngine, settlements, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("splitledger API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
