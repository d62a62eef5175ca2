package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"splitledger/internal/config"
	"splitledger/internal/db"
	"splitledger/internal/obs"
	"splitledger/internal/websocket"
)

type Handler struct {
	cfg          config.Config
	txRunner     db.TxRunner
	users        UserStore
	methods      PaymentMethodStore
	accounts     AccountStore
	participants ParticipantStore
	cards        CardStore
	invoices     InvoiceStore
	transactions TransactionStore
	txEngine     TransactionEngine
	settlements  SettlementEngine
	hub          *websocket.Hub
}

func New(cfg config.Config, txRunner db.TxRunner, users UserStore, methods PaymentMethodStore, accounts AccountStore, participants ParticipantStore, cards CardStore, invoices InvoiceStore, transactions TransactionStore, txEngine TransactionEngine, settlements SettlementEngine, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:          cfg,
		txRunner:     txRunner,
		users:        users,
		methods:      methods,
		accounts:     accounts,
		participants: participants,
		cards:        cards,
		invoices:     invoices,
		transactions: transactions,
		txEngine:     txEngine,
		settlements:  settlements,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(obs.Instrument)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
	router.Route("/payment-methods", func(r chi.Router) {
		r.Post("/", h.CreatePaymentMethod)
		r.Get("/", h.ListPaymentMethods)
		r.Put("/{id}", h.UpdatePaymentMethod)
		r.Delete("/{id}", h.DeletePaymentMethod)
	})
	router.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.CreateAccount)
		r.Get("/", h.ListAccounts)
		r.Get("/{id}", h.GetAccount)
		r.Put("/{id}", h.UpdateAccount)
		r.Delete("/{id}", h.DeleteAccount)
		r.Put("/{id}/payment-methods", h.SetAccountPaymentMethods)
	})
	router.Route("/participants", func(r chi.Router) {
		r.Post("/", h.CreateParticipant)
		r.Get("/", h.ListParticipants)
		r.Put("/{id}", h.UpdateParticipant)
		r.Delete("/{id}", h.DeleteParticipant)
		r.Put("/{id}/accounts", h.AssignParticipantAccounts)
	})
	router.Route("/cards", func(r chi.Router) {
		r.Post("/", h.CreateCard)
		r.Get("/", h.ListCards)
		r.Put("/{id}", h.UpdateCard)
		r.Delete("/{id}", h.DeleteCard)
	})
	router.Route("/invoices", func(r chi.Router) {
		r.Post("/", h.CreateInvoice)
		r.Get("/", h.ListInvoices)
		r.Put("/{id}", h.UpdateInvoice)
		r.Delete("/{id}", h.DeleteInvoice)
	})
	router.Route("/transactions", func(r chi.Router) {
		r.Post("/", h.CreateTransaction)
		r.Get("/", h.ListTransactions)
		r.Post("/{id}/reverse", h.ReverseTransaction)
	})
	router.Route("/payments", func(r chi.Router) {
		r.Post("/", h.CreatePayment)
		r.Get("/", h.ListPayments)
		r.Post("/{id}/reverse", h.ReversePayment)
	})

	router.Get("/ws/balances", h.WSBalances)
	router.Method(http.MethodGet, "/metrics", obs.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

// WSBalances subscribes the caller to balance updates for one account.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		respondError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	websocket.ServeWS(w, r, h.hub, accountID)
}
