package httpapi

import (
	"fmt"
	"net/http"

	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
	"github.com/rfarias/partida/internal/mask"
)

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.settings.Settings(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, cfg)
}

// putSettings replaces the settings blob. The code mask is revalidated; auto
// patterns with IncludeChildren unset default to matching descendants.
func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var cfg ledger.Settings
	if err := decode(r, &cfg); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if !mask.ValidateMask(cfg.Mask) {
		writeDomainErr(w, fmt.Errorf("%w: %q", errs.ErrInvalidMask, cfg.Mask))
		return
	}
	if cfg.Currency == "" {
		cfg.Currency = s.currency
	}
	for i := range cfg.AutoPatterns {
		if cfg.AutoPatterns[i].ID == "" {
			cfg.AutoPatterns[i].ID = s.newID().String()
		}
	}
	for i := range cfg.BankProfiles {
		if cfg.BankProfiles[i].ID == "" {
			cfg.BankProfiles[i].ID = s.newID().String()
		}
	}
	if err := s.settings.SaveSettings(r.Context(), cfg); err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, cfg)
}
