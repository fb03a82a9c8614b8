package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/rfarias/partida/internal/chart"
	"github.com/rfarias/partida/internal/ledger"
	"github.com/rfarias/partida/internal/pattern"
	"github.com/rfarias/partida/internal/service/journal"
)

// listEntries returns entries ordered by (date, id), optionally filtered by
// the from/to date range (inclusive, YYYY-MM-DD) and an account code.
func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.List(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	q := r.URL.Query()
	from, to, account := q.Get("from"), q.Get("to"), q.Get("account")

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		if from != "" && e.Date < from {
			continue
		}
		if to != "" && e.Date > to {
			continue
		}
		if account != "" && !postsTo(e, account) {
			continue
		}
		out = append(out, toEntryResponse(e))
	}
	toJSON(w, http.StatusOK, out)
}

func postsTo(e ledger.Entry, code string) bool {
	for _, ln := range e.Lines {
		if ln.AccountCode == code {
			return true
		}
	}
	return false
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid entry id")
		return
	}
	e, err := s.entries.Get(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toEntryResponse(e))
}

func (s *Server) postEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	e, mode, leaves, err := s.buildEntry(r, req)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	created, err := s.entries.Create(r.Context(), e, mode, leaves)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toEntryResponse(created))
}

func (s *Server) putEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid entry id")
		return
	}
	var req entryRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	e, mode, leaves, err := s.buildEntry(r, req)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	updated, err := s.entries.Update(r.Context(), id, e, mode, leaves)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toEntryResponse(updated))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid entry id")
		return
	}
	if err := s.entries.Delete(r.Context(), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getEntryPattern(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid entry id")
		return
	}
	e, err := s.entries.Get(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	tree, err := s.accounts.Tree(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	cfg, err := s.settings.Settings(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	res := pattern.Resolve(e, tree, cfg.AutoPatterns)
	toJSON(w, http.StatusOK, patternResponse{
		Type: res.Type, Name: res.Name, Icon: res.Icon, Configured: res.Configured,
	})
}

// buildEntry resolves the request's free-text accounts against the chart and
// assembles the domain entry. The mode defaults to the one implied by the
// line cardinality.
func (s *Server) buildEntry(r *http.Request, req entryRequest) (ledger.Entry, ledger.EntryMode, []chart.Leaf, error) {
	leaves, err := s.accounts.Leaves(r.Context())
	if err != nil {
		return ledger.Entry{}, "", nil, err
	}
	cfg, err := s.settings.Settings(r.Context())
	if err != nil {
		return ledger.Entry{}, "", nil, err
	}

	e := ledger.Entry{
		Date:      req.Date,
		Narrative: req.Narrative,
		Document:  req.Document,
		Lines:     make([]ledger.Line, 0, len(req.Lines)),
	}
	for _, ln := range req.Lines {
		leaf, err := journal.ResolveAccount(ln.Account, leaves, cfg.AutoPatterns)
		if err != nil {
			return ledger.Entry{}, "", nil, err
		}
		amt, err := money.NewAmountFromMinorUnits(s.currency, ln.AmountMinor)
		if err != nil {
			return ledger.Entry{}, "", nil, err
		}
		e.Lines = append(e.Lines, ledger.Line{
			AccountCode: leaf.Code,
			AccountName: leaf.Name,
			Side:        ln.Side,
			Amount:      amt,
		})
	}

	mode := req.Mode
	if mode == "" {
		mode = journal.ModeOf(e)
	}
	return e, mode, leaves, nil
}
