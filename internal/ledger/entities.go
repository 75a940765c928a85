package ledger

import (
	"strings"
	"time"

	"github.com/artyom-lobachev/bankledger/internal/errs"
)

// Kind tells whether a transaction moved money into or out of an account.
// Amounts are always positive; direction lives here, not in the sign.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// ParseKind normalizes a textual kind (query params, persisted rows).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindDeposit):
		return KindDeposit, nil
	case string(KindWithdrawal):
		return KindWithdrawal, nil
	}
	return "", errs.ErrInvalid
}

// Transaction is one immutable balance-affecting event in an account's
// ledger. Transactions are created only by Account.Deposit and
// Account.Withdraw and are never mutated or deleted afterwards.
type Transaction struct {
	Timestamp   time.Time
	Amount      Money
	Kind        Kind
	Description string
}
