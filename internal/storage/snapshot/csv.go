package snapshot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/artyom-lobachev/bankledger/internal/errs"
	"github.com/artyom-lobachev/bankledger/internal/ledger"
	"github.com/artyom-lobachev/bankledger/internal/storage/memory"
)

const (
	csvHeader     = "timestamp;type;amount;description;iban;owner;bank"
	csvTimeLayout = "2006-01-02 15:04:05"
)

// WriteAccountCSV streams the account's ledger as semicolon-delimited rows,
// one per transaction in chronological order. A literal ';' in a description
// becomes ',' so no field ever contains the record separator; nothing else
// is escaped.
func WriteAccountCSV(w io.Writer, acc *ledger.Account) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(csvHeader + "\n"); err != nil {
		return fmt.Errorf("%w: write header: %v", errs.ErrIO, err)
	}
	for _, tx := range acc.Transactions() {
		_, err := fmt.Fprintf(bw, "%s;%s;%s;%s;%s;%s;%s\n",
			tx.Timestamp.Format(csvTimeLayout),
			strings.ToUpper(string(tx.Kind)),
			tx.Amount,
			strings.ReplaceAll(tx.Description, ";", ","),
			acc.IBAN(),
			acc.OwnerName(),
			acc.BankName(),
		)
		if err != nil {
			return fmt.Errorf("%w: write row: %v", errs.ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %v", errs.ErrIO, err)
	}
	return nil
}

// ExportCSV writes one account's ledger to path. An unknown account id is
// ErrNotFound; write failures surface as ErrIO. The file is closed on every
// exit path.
func (g *Gateway) ExportCSV(_ context.Context, store *memory.Store, accountID uuid.UUID, path string) error {
	return ExportAccountCSV(store, accountID, path)
}

// ExportAccountCSV is the path-based variant of WriteAccountCSV, shared by
// the persistence gateways.
func ExportAccountCSV(store *memory.Store, accountID uuid.UUID, path string) error {
	acc, err := store.GetByID(accountID)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", errs.ErrIO, path, err)
	}
	werr := WriteAccountCSV(f, acc)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	if cerr != nil {
		return fmt.Errorf("%w: close %s: %v", errs.ErrIO, path, cerr)
	}
	return nil
}
