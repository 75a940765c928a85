package memory

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/artyom-lobachev/bankledger/internal/errs"
	"github.com/artyom-lobachev/bankledger/internal/ledger"
)

func addAccount(t *testing.T, s *Store, iban, bic, bank, owner string) *ledger.Account {
	t.Helper()
	a, err := ledger.NewAccount(iban, bic, bank, owner)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	return s.Add(a)
}

func money(t *testing.T, s string) ledger.Money {
	t.Helper()
	m, err := ledger.ParseMoney(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return m
}

// ibans returns the result as an iban set for order-independent comparison.
func ibans(accs []*ledger.Account) map[string]int {
	out := make(map[string]int)
	for _, a := range accs {
		out[a.IBAN()]++
	}
	return out
}

func TestAddAndLookups(t *testing.T) {
	s := New()
	a := addAccount(t, s, "X1", "BIC1", "Acme", "Alice")
	if got, err := s.GetByID(a.ID()); err != nil || got != a {
		t.Fatalf("GetByID: %v %v", got, err)
	}
	if got, err := s.GetByIBAN("X1"); err != nil || got != a {
		t.Fatalf("GetByIBAN: %v %v", got, err)
	}
	if _, err := s.GetByID(uuid.New()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetByIBAN("nope"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchAccounts(t *testing.T) {
	s := New()
	addAccount(t, s, "X1", "BIC1", "Acme", "Alice")
	addAccount(t, s, "X2", "BIC2", "Acme", "Alicia")
	addAccount(t, s, "X9", "BIC9", "Globex", "Bob")

	cases := []struct {
		name string
		q    AccountQuery
		want []string
	}{
		{"no criteria returns all", AccountQuery{}, []string{"X1", "X2", "X9"}},
		{"blank criteria are ignored", AccountQuery{Owner: "  ", Bank: ""}, []string{"X1", "X2", "X9"}},
		{"owner substring", AccountQuery{Owner: "alic"}, []string{"X1", "X2"}},
		{"owner and bank", AccountQuery{Owner: "alic", Bank: "acme"}, []string{"X1", "X2"}},
		{"iban narrows owner", AccountQuery{IBAN: "X1", Owner: "alic"}, []string{"X1"}},
		{"unknown iban", AccountQuery{IBAN: "X3"}, nil},
		{"bic exact", AccountQuery{BIC: "BIC9"}, []string{"X9"}},
		{"empty criterion empties intersection", AccountQuery{BIC: "BIC1", Owner: "bob"}, nil},
		{"bank substring case-insensitive", AccountQuery{Bank: "GLOB"}, []string{"X9"}},
	}
	for _, c := range cases {
		got := ibans(s.SearchAccounts(c.q))
		if len(got) != len(c.want) {
			t.Fatalf("%s: got %v, want %v", c.name, got, c.want)
		}
		for _, iban := range c.want {
			if got[iban] != 1 {
				t.Fatalf("%s: got %v, want exactly one %s", c.name, got, iban)
			}
		}
	}
}

func TestAddDuplicateIBANLastWriteWins(t *testing.T) {
	s := New()
	old := addAccount(t, s, "X1", "BIC1", "Acme", "Alice")
	newer := addAccount(t, s, "X1", "BIC2", "Globex", "Bob")

	got, err := s.GetByIBAN("X1")
	if err != nil || got != newer {
		t.Fatalf("iban index must point at the latest add")
	}
	// the earlier account is still reachable by id and via the other indexes
	if got, err := s.GetByID(old.ID()); err != nil || got != old {
		t.Fatalf("old account lost from primary map")
	}
	if res := s.SearchAccounts(AccountQuery{BIC: "BIC1"}); len(res) != 1 || res[0] != old {
		t.Fatalf("old account lost from bic index")
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestSearchTransactions(t *testing.T) {
	s := New()
	a := addAccount(t, s, "X1", "BIC1", "Acme", "Alice")
	if _, err := a.Deposit(money(t, "200.00"), "salary march"); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	for _, amt := range []string{"10.00", "30.00", "60.00"} {
		if _, err := a.Withdraw(money(t, amt), "cash "+amt); err != nil {
			t.Fatalf("withdraw %s: %v", amt, err)
		}
	}

	// kind + amount range keeps only the 30.00 withdrawal
	kind := ledger.KindWithdrawal
	min := money(t, "20.00")
	max := money(t, "50.00")
	got := s.SearchTransactions(a.ID(), TransactionFilter{Kind: &kind, Min: &min, Max: &max})
	if len(got) != 1 || got[0].Amount.String() != "30.00" {
		t.Fatalf("got %+v", got)
	}

	// description substring, case-insensitive
	got = s.SearchTransactions(a.ID(), TransactionFilter{Description: "SALARY"})
	if len(got) != 1 || got[0].Kind != ledger.KindDeposit {
		t.Fatalf("got %+v", got)
	}

	// no criteria returns the full log in chronological order
	got = s.SearchTransactions(a.ID(), TransactionFilter{})
	if len(got) != 4 {
		t.Fatalf("expected 4, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Fatalf("order broken at %d", i)
		}
	}

	// time window
	cut := got[1].Timestamp
	windowed := s.SearchTransactions(a.ID(), TransactionFilter{From: &cut})
	if len(windowed) != 3 {
		t.Fatalf("from filter: expected 3, got %d", len(windowed))
	}
	to := got[1].Timestamp
	windowed = s.SearchTransactions(a.ID(), TransactionFilter{To: &to})
	if len(windowed) != 2 {
		t.Fatalf("to filter: expected 2, got %d", len(windowed))
	}

	// unknown account is an empty result, not an error
	if res := s.SearchTransactions(uuid.New(), TransactionFilter{}); len(res) != 0 {
		t.Fatalf("unknown account: %v", res)
	}
}
