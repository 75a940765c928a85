package memory

// Package memory holds the in-memory account store: a primary id map plus the
// derived secondary indexes backing multi-criterion search. Account metadata
// is immutable after construction, so indexes built at Add time never need a
// reconciliation pass.

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artyom-lobachev/bankledger/internal/errs"
	"github.com/artyom-lobachev/bankledger/internal/ledger"
)

// Store owns its accounts exclusively; no account is shared between stores.
// It is guarded by an RWMutex for concurrent reads/writes of the index
// structures. Balance mutations lock the individual account.
type Store struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*ledger.Account
	byIBAN map[string]uuid.UUID
	byBIC  map[string]map[uuid.UUID]struct{}
	// owner and bank indexes are keyed lower-cased
	byOwner map[string]map[uuid.UUID]struct{}
	byBank  map[string]map[uuid.UUID]struct{}
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		byID:    make(map[uuid.UUID]*ledger.Account),
		byIBAN:  make(map[string]uuid.UUID),
		byBIC:   make(map[string]map[uuid.UUID]struct{}),
		byOwner: make(map[string]map[uuid.UUID]struct{}),
		byBank:  make(map[string]map[uuid.UUID]struct{}),
	}
}

// Add inserts the account into the primary map and every secondary index.
// A second account with an already-known iban takes over the iban index entry
// (last write wins); the earlier account stays reachable by id and through
// the bic/owner/bank indexes.
func (s *Store) Add(a *ledger.Account) *ledger.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[a.ID()] = a
	s.byIBAN[a.IBAN()] = a.ID()
	index(s.byBIC, a.BIC(), a.ID())
	index(s.byOwner, strings.ToLower(a.OwnerName()), a.ID())
	index(s.byBank, strings.ToLower(a.BankName()), a.ID())
	return a
}

func index(m map[string]map[uuid.UUID]struct{}, key string, id uuid.UUID) {
	set, ok := m[key]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		m[key] = set
	}
	set[id] = struct{}{}
}

// GetByID returns the account with the given id.
func (s *Store) GetByID(id uuid.UUID) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return a, nil
}

// GetByIBAN resolves an account through the iban index.
func (s *Store) GetByIBAN(iban string) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byIBAN[iban]
	if !ok {
		return nil, errs.ErrNotFound
	}
	a, ok := s.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return a, nil
}

// All returns every account in the store. Order is unspecified.
func (s *Store) All() []*ledger.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allLocked()
}

func (s *Store) allLocked() []*ledger.Account {
	out := make([]*ledger.Account, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	return out
}

// Len reports the number of accounts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// AccountQuery carries the optional search criteria. Blank fields do not
// constrain the result; owner and bank match as case-insensitive substrings.
type AccountQuery struct {
	IBAN  string
	BIC   string
	Owner string
	Bank  string
}

// SearchAccounts narrows a candidate id set criterion by criterion in the
// fixed order iban, bic, owner, bank. A nil candidate set means
// "unconstrained yet": the first supplied criterion seeds it, later ones
// intersect with it, so any empty match set empties the result. With no
// criteria at all, every account is returned. Result order is unspecified.
func (s *Store) SearchAccounts(q AccountQuery) []*ledger.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates map[uuid.UUID]struct{}
	if iban := strings.TrimSpace(q.IBAN); iban != "" {
		hits := make(map[uuid.UUID]struct{}, 1)
		if id, ok := s.byIBAN[iban]; ok {
			hits[id] = struct{}{}
		}
		candidates = intersect(candidates, hits)
	}
	if bic := strings.TrimSpace(q.BIC); bic != "" {
		candidates = intersect(candidates, s.byBIC[bic])
	}
	if owner := strings.ToLower(strings.TrimSpace(q.Owner)); owner != "" {
		candidates = intersect(candidates, substringHits(s.byOwner, owner))
	}
	if bank := strings.ToLower(strings.TrimSpace(q.Bank)); bank != "" {
		candidates = intersect(candidates, substringHits(s.byBank, bank))
	}
	if candidates == nil {
		return s.allLocked()
	}
	out := make([]*ledger.Account, 0, len(candidates))
	for id := range candidates {
		if a, ok := s.byID[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// intersect treats a nil running set as unconstrained and copies next.
func intersect(acc, next map[uuid.UUID]struct{}) map[uuid.UUID]struct{} {
	if acc == nil {
		out := make(map[uuid.UUID]struct{}, len(next))
		for id := range next {
			out[id] = struct{}{}
		}
		return out
	}
	out := make(map[uuid.UUID]struct{})
	for id := range acc {
		if _, ok := next[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// substringHits unions the id sets of every index key containing needle.
// needle must already be lower-cased.
func substringHits(idx map[string]map[uuid.UUID]struct{}, needle string) map[uuid.UUID]struct{} {
	hits := make(map[uuid.UUID]struct{})
	for key, ids := range idx {
		if strings.Contains(key, needle) {
			for id := range ids {
				hits[id] = struct{}{}
			}
		}
	}
	return hits
}

// TransactionFilter carries the optional criteria for a ledger scan. Nil
// pointer fields and a blank description leave that dimension unconstrained.
type TransactionFilter struct {
	Kind        *ledger.Kind
	From        *time.Time
	To          *time.Time
	Min         *ledger.Money
	Max         *ledger.Money
	Description string
}

// SearchTransactions scans one account's log in chronological order keeping
// transactions that match every supplied criterion. An unknown account id
// yields an empty result, not an error.
func (s *Store) SearchTransactions(accountID uuid.UUID, f TransactionFilter) []ledger.Transaction {
	s.mu.RLock()
	acc, ok := s.byID[accountID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(f.Description))
	out := make([]ledger.Transaction, 0)
	for _, tx := range acc.Transactions() {
		if f.Kind != nil && tx.Kind != *f.Kind {
			continue
		}
		if f.From != nil && tx.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && tx.Timestamp.After(*f.To) {
			continue
		}
		if f.Min != nil && tx.Amount.Cmp(*f.Min) < 0 {
			continue
		}
		if f.Max != nil && tx.Amount.Cmp(*f.Max) > 0 {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(tx.Description), needle) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
