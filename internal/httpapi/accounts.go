package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/ledger"
)

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.accounts.Tree(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if tree == nil {
		tree = []ledger.Account{}
	}
	toJSON(w, http.StatusOK, tree)
}

func (s *Server) getLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := s.accounts.Leaves(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, leaves)
}

func (s *Server) getNextCode(w http.ResponseWriter, r *http.Request) {
	code, err := s.accounts.NextCode(r.Context(), r.URL.Query().Get("parent"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, nextCodeResponse{Code: code})
}

func (s *Server) postAccount(w http.ResponseWriter, r *http.Request) {
	var req postAccountRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	acc, err := s.accounts.Create(r.Context(), req.ParentCode, ledger.Account{
		Code:     req.Code,
		Name:     req.Name,
		Kind:     req.Kind,
		Category: req.Category,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, acc)
}

func (s *Server) patchAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid account id")
		return
	}
	var req patchAccountRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	acc, err := s.accounts.Update(r.Context(), id, req.Name, req.Active)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, acc)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid account id")
		return
	}
	cascade := r.URL.Query().Get("cascade") == "true"
	if err := s.accounts.Delete(r.Context(), id, cascade); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
