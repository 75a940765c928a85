package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/artyom-lobachev/bankledger/internal/ledger"
)

type postAccountRequest struct {
	IBAN      string `json:"iban"`
	BIC       string `json:"bic"`
	BankName  string `json:"bank_name"`
	OwnerName string `json:"owner_name"`
}

type postMovementRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type accountResponse struct {
	ID        uuid.UUID `json:"id"`
	IBAN      string    `json:"iban"`
	BIC       string    `json:"bic"`
	BankName  string    `json:"bank_name"`
	OwnerName string    `json:"owner_name"`
	Balance   string    `json:"balance"`
}

type transactionResponse struct {
	Timestamp   time.Time `json:"timestamp"`
	Kind        string    `json:"kind"`
	Amount      string    `json:"amount"`
	Description string    `json:"description,omitempty"`
}

func toAccountResponse(a *ledger.Account) accountResponse {
	return accountResponse{
		ID:        a.ID(),
		IBAN:      a.IBAN(),
		BIC:       a.BIC(),
		BankName:  a.BankName(),
		OwnerName: a.OwnerName(),
		Balance:   a.Balance().String(),
	}
}

func toTransactionResponse(t ledger.Transaction) transactionResponse {
	return transactionResponse{
		Timestamp:   t.Timestamp,
		Kind:        string(t.Kind),
		Amount:      t.Amount.String(),
		Description: t.Description,
	}
}
