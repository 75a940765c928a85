package snapshot

// Package snapshot persists the whole account store as a single JSON file.
// Saves go through a temp file and an atomic rename, so a write that fails
// partway leaves the previous snapshot intact. Loads degrade to an empty
// store on any malformed input instead of failing the caller.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/artyom-lobachev/bankledger/internal/errs"
	"github.com/artyom-lobachev/bankledger/internal/ledger"
	"github.com/artyom-lobachev/bankledger/internal/storage/memory"
)

const formatVersion = 1

// Gateway saves and loads a store at a fixed path.
type Gateway struct {
	path string
}

// New constructs a gateway for the given snapshot path.
func New(path string) *Gateway { return &Gateway{path: path} }

// Path returns the snapshot location.
func (g *Gateway) Path() string { return g.path }

type snapshot struct {
	Version  int             `json:"version"`
	SavedAt  time.Time       `json:"saved_at"`
	Accounts []accountRecord `json:"accounts"`
}

type accountRecord struct {
	ID        uuid.UUID `json:"id"`
	IBAN      string    `json:"iban"`
	BIC       string    `json:"bic"`
	BankName  string    `json:"bank_name"`
	OwnerName string    `json:"owner_name"`
	// BalanceMinor is redundant: load re-derives the balance from the log.
	BalanceMinor int64               `json:"balance_minor"`
	Transactions []transactionRecord `json:"transactions"`
}

type transactionRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Kind        string    `json:"kind"`
	AmountMinor int64     `json:"amount_minor"`
	Description string    `json:"description,omitempty"`
}

// Save serializes every account and its full transaction log, replacing any
// prior snapshot. The write goes to path+".tmp" first and is renamed over
// the target only after a successful close. The context is accepted for
// interface parity; local file I/O is not cancellable midway.
func (g *Gateway) Save(_ context.Context, store *memory.Store) error {
	snap := snapshot{Version: formatVersion, SavedAt: time.Now()}
	for _, a := range store.All() {
		rec := accountRecord{
			ID:           a.ID(),
			IBAN:         a.IBAN(),
			BIC:          a.BIC(),
			BankName:     a.BankName(),
			OwnerName:    a.OwnerName(),
			BalanceMinor: a.Balance().MinorUnits(),
		}
		for _, tx := range a.Transactions() {
			rec.Transactions = append(rec.Transactions, transactionRecord{
				Timestamp:   tx.Timestamp,
				Kind:        string(tx.Kind),
				AmountMinor: tx.Amount.MinorUnits(),
				Description: tx.Description,
			})
		}
		snap.Accounts = append(snap.Accounts, rec)
	}

	tmp := g.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", errs.ErrIO, tmp, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: encode snapshot: %v", errs.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %v", errs.ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, g.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %v", errs.ErrIO, tmp, err)
	}
	return nil
}

// LoadOrCreateEmpty reads the snapshot back into a fresh store. A missing
// file means a fresh start; a corrupt, truncated or format-mismatched file is
// absorbed the same way rather than surfaced as an error.
func (g *Gateway) LoadOrCreateEmpty() *memory.Store {
	f, err := os.Open(g.path)
	if err != nil {
		return memory.New()
	}
	defer f.Close()

	var snap snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return memory.New()
	}
	if snap.Version != formatVersion {
		return memory.New()
	}
	store := memory.New()
	for _, rec := range snap.Accounts {
		log := make([]ledger.Transaction, 0, len(rec.Transactions))
		for _, tr := range rec.Transactions {
			kind, err := ledger.ParseKind(tr.Kind)
			if err != nil {
				return memory.New()
			}
			log = append(log, ledger.Transaction{
				Timestamp:   tr.Timestamp,
				Amount:      ledger.MoneyFromMinorUnits(tr.AmountMinor),
				Kind:        kind,
				Description: tr.Description,
			})
		}
		acc, err := ledger.RestoreAccount(rec.ID, rec.IBAN, rec.BIC, rec.BankName, rec.OwnerName, log)
		if err != nil {
			return memory.New()
		}
		store.Add(acc)
	}
	return store
}
