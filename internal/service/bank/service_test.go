package bank

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/artyom-lobachev/bankledger/internal/errs"
	"github.com/artyom-lobachev/bankledger/internal/ledger"
	"github.com/artyom-lobachev/bankledger/internal/storage/memory"
)

// recordingGateway counts persistence calls without touching the disk.
type recordingGateway struct {
	saves   int
	exports int
}

func (g *recordingGateway) Save(_ context.Context, _ *memory.Store) error { g.saves++; return nil }
func (g *recordingGateway) ExportCSV(_ context.Context, store *memory.Store, accountID uuid.UUID, _ string) error {
	if _, err := store.GetByID(accountID); err != nil {
		return err
	}
	g.exports++
	return nil
}

func setup(t *testing.T) (Service, *memory.Store, *recordingGateway) {
	t.Helper()
	store := memory.New()
	gw := &recordingGateway{}
	return New(store, gw), store, gw
}

func TestOpenAccount(t *testing.T) {
	svc, store, _ := setup(t)
	acc, err := svc.OpenAccount("  X1  ", "BIC1", "Acme", "Alice")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if acc.IBAN() != "X1" {
		t.Fatalf("iban not trimmed: %q", acc.IBAN())
	}
	if got, err := store.GetByIBAN("X1"); err != nil || got != acc {
		t.Fatalf("account not indexed")
	}
	if _, err := svc.OpenAccount("", "BIC", "Bank", "Owner"); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestDepositWithdrawParseAmounts(t *testing.T) {
	svc, _, _ := setup(t)
	acc, err := svc.OpenAccount("X1", "BIC1", "Acme", "Alice")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.Deposit(acc.ID(), "100,50", "salary"); err != nil {
		t.Fatalf("deposit with comma separator: %v", err)
	}
	if acc.Balance().String() != "100.50" {
		t.Fatalf("balance = %s", acc.Balance())
	}
	if _, err := svc.Withdraw(acc.ID(), "0.50", "fee"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if acc.Balance().String() != "100.00" {
		t.Fatalf("balance = %s", acc.Balance())
	}
	if _, err := svc.Deposit(acc.ID(), "nonsense", ""); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := svc.Withdraw(acc.ID(), "500.00", ""); !errors.Is(err, errs.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := svc.Deposit(uuid.New(), "1.00", ""); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchDelegation(t *testing.T) {
	svc, _, _ := setup(t)
	a, _ := svc.OpenAccount("X1", "BIC1", "Acme", "Alice")
	_, _ = svc.OpenAccount("X2", "BIC2", "Acme", "Alicia")
	if got := svc.SearchAccounts(memory.AccountQuery{Owner: "alic"}); len(got) != 2 {
		t.Fatalf("search accounts: %d", len(got))
	}
	_, _ = svc.Deposit(a.ID(), "10.00", "first")
	kind := ledger.KindDeposit
	if got := svc.SearchTransactions(a.ID(), memory.TransactionFilter{Kind: &kind}); len(got) != 1 {
		t.Fatalf("search transactions: %d", len(got))
	}
}

func TestSaveAndExportGoThroughGateway(t *testing.T) {
	svc, _, gw := setup(t)
	acc, _ := svc.OpenAccount("X1", "BIC1", "Acme", "Alice")
	if err := svc.Save(context.Background()); err != nil || gw.saves != 1 {
		t.Fatalf("save: %v, calls=%d", err, gw.saves)
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := svc.ExportCSV(context.Background(), acc.ID(), path); err != nil || gw.exports != 1 {
		t.Fatalf("export: %v, calls=%d", err, gw.exports)
	}
	if err := svc.ExportCSV(context.Background(), uuid.New(), path); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
