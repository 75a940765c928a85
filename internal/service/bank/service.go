// Package bank implements the operations the front-ends consume: account
// opening, deposits and withdrawals with textual amounts, the two searches,
// persistence and CSV export. Handlers and menus stay thin; every rule lives
// here or below.
package bank

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/artyom-lobachev/bankledger/internal/ledger"
	"github.com/artyom-lobachev/bankledger/internal/storage/memory"
)

// Gateway abstracts durable persistence of the whole store. Save and
// ExportCSV are the service's only blocking calls; callers needing
// cancellation wrap the context with a deadline.
type Gateway interface {
	Save(ctx context.Context, store *memory.Store) error
	ExportCSV(ctx context.Context, store *memory.Store, accountID uuid.UUID, path string) error
}

// Service exposes the collaborator-facing operations over one account store.
type Service interface {
	OpenAccount(iban, bic, bankName, ownerName string) (*ledger.Account, error)
	Deposit(accountID uuid.UUID, amount, description string) (ledger.Transaction, error)
	Withdraw(accountID uuid.UUID, amount, description string) (ledger.Transaction, error)
	Account(accountID uuid.UUID) (*ledger.Account, error)
	AccountByIBAN(iban string) (*ledger.Account, error)
	SearchAccounts(q memory.AccountQuery) []*ledger.Account
	SearchTransactions(accountID uuid.UUID, f memory.TransactionFilter) []ledger.Transaction
	ExportCSV(ctx context.Context, accountID uuid.UUID, path string) error
	Save(ctx context.Context) error
}

type service struct {
	store *memory.Store
	gw    Gateway
}

// New wires a service over the store and its persistence gateway.
func New(store *memory.Store, gw Gateway) Service {
	return &service{store: store, gw: gw}
}

// OpenAccount creates and indexes a new account. Surrounding whitespace on
// the metadata fields is not significant.
func (s *service) OpenAccount(iban, bic, bankName, ownerName string) (*ledger.Account, error) {
	acc, err := ledger.NewAccount(
		strings.TrimSpace(iban),
		strings.TrimSpace(bic),
		strings.TrimSpace(bankName),
		strings.TrimSpace(ownerName),
	)
	if err != nil {
		return nil, err
	}
	return s.store.Add(acc), nil
}

func (s *service) Deposit(accountID uuid.UUID, amount, description string) (ledger.Transaction, error) {
	m, err := ledger.ParseMoney(amount)
	if err != nil {
		return ledger.Transaction{}, err
	}
	acc, err := s.store.GetByID(accountID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return acc.Deposit(m, description)
}

func (s *service) Withdraw(accountID uuid.UUID, amount, description string) (ledger.Transaction, error) {
	m, err := ledger.ParseMoney(amount)
	if err != nil {
		return ledger.Transaction{}, err
	}
	acc, err := s.store.GetByID(accountID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return acc.Withdraw(m, description)
}

func (s *service) Account(accountID uuid.UUID) (*ledger.Account, error) {
	return s.store.GetByID(accountID)
}

func (s *service) AccountByIBAN(iban string) (*ledger.Account, error) {
	return s.store.GetByIBAN(strings.TrimSpace(iban))
}

func (s *service) SearchAccounts(q memory.AccountQuery) []*ledger.Account {
	return s.store.SearchAccounts(q)
}

func (s *service) SearchTransactions(accountID uuid.UUID, f memory.TransactionFilter) []ledger.Transaction {
	return s.store.SearchTransactions(accountID, f)
}

func (s *service) ExportCSV(ctx context.Context, accountID uuid.UUID, path string) error {
	return s.gw.ExportCSV(ctx, s.store, accountID, path)
}

func (s *service) Save(ctx context.Context) error {
	return s.gw.Save(ctx, s.store)
}
