package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artyom-lobachev/bankledger/internal/errs"
)

// Account is a bank account identified by a generated id plus a business
// iban. Metadata fields are immutable after construction; the balance and the
// transaction log only ever change together, through Deposit and Withdraw.
type Account struct {
	id        uuid.UUID
	iban      string
	bic       string
	bankName  string
	ownerName string

	mu           sync.RWMutex
	balance      Money
	transactions []Transaction
}

// NewAccount creates an account with a fresh id and a zero balance.
// All four metadata fields are required.
func NewAccount(iban, bic, bankName, ownerName string) (*Account, error) {
	if iban == "" || bic == "" || bankName == "" || ownerName == "" {
		return nil, errs.ErrInvalid
	}
	return &Account{
		id:        uuid.New(),
		iban:      iban,
		bic:       bic,
		bankName:  bankName,
		ownerName: ownerName,
	}, nil
}

// RestoreAccount rebuilds an account from persisted state. The log order is
// preserved as given and the balance is re-derived from it, so a stored
// balance can never diverge from the ledger.
func RestoreAccount(id uuid.UUID, iban, bic, bankName, ownerName string, log []Transaction) (*Account, error) {
	if iban == "" || bic == "" || bankName == "" || ownerName == "" {
		return nil, errs.ErrInvalid
	}
	a := &Account{id: id, iban: iban, bic: bic, bankName: bankName, ownerName: ownerName}
	for _, tx := range log {
		switch tx.Kind {
		case KindDeposit:
			a.balance = a.balance.Add(tx.Amount)
		case KindWithdrawal:
			a.balance = a.balance.Sub(tx.Amount)
		default:
			return nil, errs.ErrInvalid
		}
		a.transactions = append(a.transactions, tx)
	}
	return a, nil
}

func (a *Account) ID() uuid.UUID     { return a.id }
func (a *Account) IBAN() string      { return a.iban }
func (a *Account) BIC() string       { return a.bic }
func (a *Account) BankName() string  { return a.bankName }
func (a *Account) OwnerName() string { return a.ownerName }

// Balance returns the current balance.
func (a *Account) Balance() Money {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance
}

// Deposit increases the balance by amount and appends a deposit transaction
// stamped with the current time. amount must be strictly positive; on failure
// neither the balance nor the log changes.
func (a *Account) Deposit(amount Money, description string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, errs.ErrInvalid
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	tx := Transaction{Timestamp: time.Now(), Amount: amount, Kind: KindDeposit, Description: description}
	a.balance = a.balance.Add(amount)
	a.transactions = append(a.transactions, tx)
	return tx, nil
}

// Withdraw decreases the balance by amount and appends a withdrawal
// transaction. The same positivity rule applies, and the balance must cover
// the amount in full. On failure neither the balance nor the log changes.
func (a *Account) Withdraw(amount Money, description string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, errs.ErrInvalid
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.balance.Cmp(amount) < 0 {
		return Transaction{}, errs.ErrInsufficientFunds
	}
	tx := Transaction{Timestamp: time.Now(), Amount: amount, Kind: KindWithdrawal, Description: description}
	a.balance = a.balance.Sub(amount)
	a.transactions = append(a.transactions, tx)
	return tx, nil
}

// Transactions returns a copy of the log in chronological order. The
// underlying log cannot be mutated through the returned slice.
func (a *Account) Transactions() []Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// Equal reports account equality, which is defined by iban alone.
func (a *Account) Equal(other *Account) bool {
	if other == nil {
		return false
	}
	return a.iban == other.iban
}
