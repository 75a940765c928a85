package httpapi

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/artyom-lobachev/bankledger/internal/storage/memory"
	"github.com/artyom-lobachev/bankledger/internal/storage/snapshot"
)

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func (s *Server) postAccount(w http.ResponseWriter, r *http.Request) {
	var req postAccountRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	acc, err := s.svc.OpenAccount(req.IBAN, req.BIC, req.BankName, req.OwnerName)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toAccountResponse(acc))
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := memory.AccountQuery{
		IBAN:  q.Get("iban"),
		BIC:   q.Get("bic"),
		Owner: q.Get("owner"),
		Bank:  q.Get("bank"),
	}
	accounts := s.svc.SearchAccounts(query)
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid account id")
		return
	}
	acc, err := s.svc.Account(id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toAccountResponse(acc))
}

func (s *Server) postDeposit(w http.ResponseWriter, r *http.Request) {
	s.postMovement(w, r, s.svc.Deposit)
}

func (s *Server) postWithdraw(w http.ResponseWriter, r *http.Request) {
	s.postMovement(w, r, s.svc.Withdraw)
}

func (s *Server) postMovement(w http.ResponseWriter, r *http.Request, apply movementFunc) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid account id")
		return
	}
	var req postMovementRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	tx, err := apply(id, req.Amount, req.Description)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// exportCSV streams one account's ledger as semicolon-delimited rows.
func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid account id")
		return
	}
	acc, err := s.svc.Account(id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+acc.IBAN()+`.csv"`)
	if err := snapshot.WriteAccountCSV(w, acc); err != nil {
		s.log.Error("csv export", "account", id, "err", err)
	}
}

func (s *Server) postSave(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Save(r.Context()); err != nil {
		s.log.Error("save", "err", err)
		writeErr(w, http.StatusInternalServerError, "could not persist store", "io_failure")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
