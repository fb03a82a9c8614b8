// Package account manages the chart of accounts: hierarchical codes generated
// from the configured mask, synthetic/analytic nodes and tree edits.
package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/chart"
	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
	"github.com/rfarias/partida/internal/mask"
)

// Repo defines read operations needed by the service.
type Repo interface {
	Tree(ctx context.Context) ([]ledger.Account, error)
	Settings(ctx context.Context) (ledger.Settings, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	SaveTree(ctx context.Context, tree []ledger.Account) error
}

// Service edits the account tree through immutable chart operations and
// persists the result wholesale.
type Service struct {
	repo   Repo
	writer Writer
	newID  func() uuid.UUID
}

func New(repo Repo, writer Writer) *Service {
	return &Service{repo: repo, writer: writer, newID: uuid.New}
}

// WithIDGen overrides the id generator.
func (s *Service) WithIDGen(gen func() uuid.UUID) *Service {
	s.newID = gen
	return s
}

func (s *Service) Tree(ctx context.Context) ([]ledger.Account, error) {
	return s.repo.Tree(ctx)
}

// Leaves returns the active analytic accounts, the only ones entries may
// post to.
func (s *Service) Leaves(ctx context.Context) ([]chart.Leaf, error) {
	tree, err := s.repo.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return chart.AnalyticLeaves(tree), nil
}

// NextCode suggests the next free child code under parentCode, or the next
// root code when parentCode is empty.
func (s *Service) NextCode(ctx context.Context, parentCode string) (string, error) {
	tree, err := s.repo.Tree(ctx)
	if err != nil {
		return "", err
	}
	cfg, err := s.repo.Settings(ctx)
	if err != nil {
		return "", err
	}
	return mask.NextCode(parentCode, chart.CollectCodes(tree), cfg.Mask)
}

// Create inserts a new account under parentCode. The code must match the
// configured mask and extend the parent by one segment; an empty category is
// derived from the code's class digit.
func (s *Service) Create(ctx context.Context, parentCode string, acc ledger.Account) (ledger.Account, error) {
	tree, err := s.repo.Tree(ctx)
	if err != nil {
		return ledger.Account{}, err
	}
	cfg, err := s.repo.Settings(ctx)
	if err != nil {
		return ledger.Account{}, err
	}
	if parentCode == "" && !cfg.AllowRootAccounts {
		return ledger.Account{}, fmt.Errorf("%w: root accounts are disabled", errs.ErrInvalid)
	}

	acc.ID = s.newID()
	acc.Active = true
	acc.Children = nil
	if acc.Category == "" {
		acc.Category = chart.CategoryByCode(acc.Code)
	}

	out, err := chart.Insert(tree, parentCode, acc, cfg.Mask)
	if err != nil {
		return ledger.Account{}, err
	}
	if err := s.writer.SaveTree(ctx, out); err != nil {
		return ledger.Account{}, err
	}
	return acc, nil
}

// Update changes the descriptive fields (name, active) of an account.
func (s *Service) Update(ctx context.Context, id uuid.UUID, name string, active bool) (ledger.Account, error) {
	tree, err := s.repo.Tree(ctx)
	if err != nil {
		return ledger.Account{}, err
	}
	out, err := chart.Update(tree, ledger.Account{ID: id, Name: name, Active: active})
	if err != nil {
		return ledger.Account{}, err
	}
	if err := s.writer.SaveTree(ctx, out); err != nil {
		return ledger.Account{}, err
	}
	acc, _ := chart.FindByID(out, id)
	return acc, nil
}

// Delete removes an account. Without cascade a node that still owns children
// is rejected.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	tree, err := s.repo.Tree(ctx)
	if err != nil {
		return err
	}
	out, err := chart.Delete(tree, id, cascade)
	if err != nil {
		return err
	}
	return s.writer.SaveTree(ctx, out)
}
