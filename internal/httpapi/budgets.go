package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/budget"
)

func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	out, err := s.budgets.Budgets(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid budget id")
		return
	}
	b, err := s.budgets.BudgetByID(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, b)
}

// putBudget upserts the budget under the URL id, stamping timestamps.
func (s *Server) putBudget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid budget id")
		return
	}
	var b budget.Budget
	if err := decode(r, &b); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	b.ID = id
	if err := budget.Validate(b); err != nil {
		writeDomainErr(w, err)
		return
	}
	now := s.clock()
	if existing, err := s.budgets.BudgetByID(r.Context(), id); err == nil {
		b.CreatedAt = existing.CreatedAt
	} else {
		b.CreatedAt = now
	}
	b.UpdatedAt = &now
	for i := range b.Items {
		if b.Items[i].ID == uuid.Nil {
			b.Items[i].ID = s.newID()
		}
	}
	saved, err := s.budgets.SaveBudget(r.Context(), b)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, saved)
}

func (s *Server) deleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid budget id")
		return
	}
	if err := s.budgets.DeleteBudget(r.Context(), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deriveBudget creates a monthly budget from the fixed plan under the URL id.
func (s *Server) deriveBudget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid budget id")
		return
	}
	var req deriveBudgetRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	fixed, err := s.budgets.BudgetByID(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	monthly, err := budget.MonthlyFromFixed(fixed, req.Month, req.Year, s.clock(), s.newID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	saved, err := s.budgets.SaveBudget(r.Context(), monthly)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, saved)
}
