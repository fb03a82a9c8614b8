package httpapi

import (
	"fmt"
	"net/http"

	"github.com/rfarias/partida/internal/chart"
	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
	"github.com/rfarias/partida/internal/statement"
)

func (s *Server) postImportPreview(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	classified, _, sum, err := s.classifyStatement(r, req)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, importPreviewResponse{Records: classified, Summary: sum})
}

func (s *Server) postImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	classified, profile, sum, err := s.classifyStatement(r, req)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	leaves, err := s.accounts.Leaves(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	def := statement.Defaults{
		BankCode:    profile.LinkedAccountCode,
		BankName:    leafName(leaves, profile.LinkedAccountCode),
		RevenueCode: profile.DefaultRevenueCode,
		RevenueName: leafName(leaves, profile.DefaultRevenueCode),
		ExpenseCode: profile.DefaultExpenseCode,
		ExpenseName: leafName(leaves, profile.DefaultExpenseCode),
	}
	entries, err := statement.Materialize(classified, def, s.currency, s.opts.AutoApplyConfidence, s.clock(), s.newID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	created, skipped := 0, 0
	for _, e := range entries {
		if _, err := s.entries.Create(r.Context(), e, ledger.ModeOneToOne, leaves); err != nil {
			s.log.Warn("import entry rejected", "narrative", e.Narrative, "err", err)
			skipped++
			continue
		}
		created++
	}
	toJSON(w, http.StatusCreated, importResponse{Created: created, Skipped: skipped, Summary: sum})
}

// classifyStatement parses the statement text and runs each record through
// the classifier for the selected bank profile.
func (s *Server) classifyStatement(r *http.Request, req importRequest) ([]statement.Classified, ledger.BankProfile, statement.Summary, error) {
	if req.Text == "" {
		return nil, ledger.BankProfile{}, statement.Summary{}, fmt.Errorf("%w: statement text is required", errs.ErrInvalid)
	}
	cfg, err := s.settings.Settings(r.Context())
	if err != nil {
		return nil, ledger.BankProfile{}, statement.Summary{}, err
	}
	profile, ok := selectProfile(cfg, req.ProfileID)
	if !ok {
		return nil, ledger.BankProfile{}, statement.Summary{}, fmt.Errorf("%w: no bank profile configured", errs.ErrInvalid)
	}
	leaves, err := s.accounts.Leaves(r.Context())
	if err != nil {
		return nil, ledger.BankProfile{}, statement.Summary{}, err
	}
	history, err := s.entries.List(r.Context())
	if err != nil {
		return nil, ledger.BankProfile{}, statement.Summary{}, err
	}

	recs, sum := statement.Parse(req.Text)
	clf := &statement.Classifier{Profile: profile, Leaves: leaves, History: history, Opts: s.opts}
	out := make([]statement.Classified, 0, len(recs))
	for _, rec := range recs {
		c := statement.Classified{Record: rec}
		if sg, ok := clf.Classify(rec); ok {
			c.Suggestion = &sg
		}
		out = append(out, c)
	}
	return out, profile, sum, nil
}

func selectProfile(cfg ledger.Settings, id string) (ledger.BankProfile, bool) {
	if id != "" {
		for _, p := range cfg.BankProfiles {
			if p.ID == id && p.Active {
				return p, true
			}
		}
		return ledger.BankProfile{}, false
	}
	return cfg.DefaultProfile()
}

func leafName(leaves []chart.Leaf, code string) string {
	for _, l := range leaves {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}
