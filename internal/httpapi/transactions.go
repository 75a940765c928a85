package httpapi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/artyom-lobachev/bankledger/internal/ledger"
	"github.com/artyom-lobachev/bankledger/internal/storage/memory"
)

type movementFunc func(accountID uuid.UUID, amount, description string) (ledger.Transaction, error)

// parseTransactionFilter reads the optional query params into a filter.
// Timestamps are RFC 3339, amounts use the same parser as movements.
func parseTransactionFilter(q url.Values) (memory.TransactionFilter, error) {
	var f memory.TransactionFilter
	if v := q.Get("kind"); v != "" {
		kind, err := ledger.ParseKind(v)
		if err != nil {
			return f, err
		}
		f.Kind = &kind
	}
	if v := q.Get("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, err
		}
		f.From = &ts
	}
	if v := q.Get("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, err
		}
		f.To = &ts
	}
	if v := q.Get("min"); v != "" {
		m, err := ledger.ParseMoney(v)
		if err != nil {
			return f, err
		}
		f.Min = &m
	}
	if v := q.Get("max"); v != "" {
		m, err := ledger.ParseMoney(v)
		if err != nil {
			return f, err
		}
		f.Max = &m
	}
	f.Description = q.Get("description")
	return f, nil
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid account id")
		return
	}
	if _, err := s.svc.Account(id); err != nil {
		writeDomainErr(w, err)
		return
	}
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	txs := s.svc.SearchTransactions(id, filter)
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	toJSON(w, http.StatusOK, out)
}
