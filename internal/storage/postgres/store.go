package postgres

// Package postgres provides a pgx-backed persistence gateway with the same
// snapshot contract as the file gateway: Save replaces the entire persisted
// image of the store inside one transaction, LoadOrCreateEmpty rebuilds a
// store from it. The schema lives under db/migrations.

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artyom-lobachev/bankledger/internal/errs"
	"github.com/artyom-lobachev/bankledger/internal/ledger"
	"github.com/artyom-lobachev/bankledger/internal/storage/memory"
	"github.com/artyom-lobachev/bankledger/internal/storage/snapshot"
)

// Gateway holds a pgx connection pool. All methods are safe for concurrent
// use; Save serializes against itself through the database transaction.
type Gateway struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Gateway, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Gateway{pool: pool}, nil
}

// Close releases the underlying pool.
func (g *Gateway) Close() {
	if g.pool != nil {
		g.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (g *Gateway) Ready(ctx context.Context) error { return g.pool.Ping(ctx) }

// Save replaces the persisted image of the store: every account row and the
// full per-account transaction log, with seq preserving chronological order.
// The whole replacement commits atomically, so a failed save leaves the
// previous image intact.
func (g *Gateway) Save(ctx context.Context, store *memory.Store) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", errs.ErrIO, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `truncate table account_transactions, accounts`); err != nil {
		return fmt.Errorf("%w: truncate: %v", errs.ErrIO, err)
	}
	for _, a := range store.All() {
		if _, err := tx.Exec(ctx, `
			insert into accounts (id, iban, bic, bank_name, owner_name, balance_minor)
			values ($1,$2,$3,$4,$5,$6)
		`, a.ID(), a.IBAN(), a.BIC(), a.BankName(), a.OwnerName(), a.Balance().MinorUnits()); err != nil {
			return fmt.Errorf("%w: insert account %s: %v", errs.ErrIO, a.IBAN(), err)
		}
		for seq, t := range a.Transactions() {
			if _, err := tx.Exec(ctx, `
				insert into account_transactions (account_id, seq, ts, kind, amount_minor, description)
				values ($1,$2,$3,$4,$5,$6)
			`, a.ID(), seq, t.Timestamp, string(t.Kind), t.Amount.MinorUnits(), t.Description); err != nil {
				return fmt.Errorf("%w: insert transaction: %v", errs.ErrIO, err)
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", errs.ErrIO, err)
	}
	return nil
}

// LoadOrCreateEmpty rebuilds a store from the persisted image. Connection
// and query errors surface to the caller; rows that cannot be mapped back to
// the domain (unknown kind, blank required field) are absorbed by dropping
// the affected account, keeping the load-never-crashes policy of the file
// gateway as far as a database can.
func (g *Gateway) LoadOrCreateEmpty(ctx context.Context) (*memory.Store, error) {
	logs := make(map[uuid.UUID][]ledger.Transaction)
	txRows, err := g.pool.Query(ctx, `
		select account_id, ts, kind, amount_minor, description
		from account_transactions
		order by account_id, seq
	`)
	if err != nil {
		return nil, err
	}
	defer txRows.Close()
	for txRows.Next() {
		var accountID uuid.UUID
		var rec struct {
			kind        string
			minor       int64
			description string
		}
		var t ledger.Transaction
		if err := txRows.Scan(&accountID, &t.Timestamp, &rec.kind, &rec.minor, &rec.description); err != nil {
			return nil, err
		}
		kind, err := ledger.ParseKind(rec.kind)
		if err != nil {
			continue
		}
		t.Kind = kind
		t.Amount = ledger.MoneyFromMinorUnits(rec.minor)
		t.Description = rec.description
		logs[accountID] = append(logs[accountID], t)
	}
	if err := txRows.Err(); err != nil {
		return nil, err
	}

	store := memory.New()
	rows, err := g.pool.Query(ctx, `
		select id, iban, bic, bank_name, owner_name
		from accounts
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		var iban, bic, bankName, ownerName string
		if err := rows.Scan(&id, &iban, &bic, &bankName, &ownerName); err != nil {
			return nil, err
		}
		acc, err := ledger.RestoreAccount(id, iban, bic, bankName, ownerName, logs[id])
		if err != nil {
			continue
		}
		store.Add(acc)
	}
	return store, rows.Err()
}

// ExportCSV reuses the shared CSV writer; the export always reads the
// in-memory image, not the database.
func (g *Gateway) ExportCSV(_ context.Context, store *memory.Store, accountID uuid.UUID, path string) error {
	return snapshot.ExportAccountCSV(store, accountID, path)
}
