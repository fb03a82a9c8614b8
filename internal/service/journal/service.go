// Package journal validates and persists double-entry journal entries.
package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/chart"
	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
	"github.com/rfarias/partida/internal/pattern"
)

// Reader defines read operations needed by the service.
type Reader interface {
	Entries(ctx context.Context) ([]ledger.Entry, error)
	EntryByID(ctx context.Context, id uuid.UUID) (ledger.Entry, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	SaveEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
}

// Service validates, creates, replaces and deletes journal entries.
type Service struct {
	reader Reader
	writer Writer
	clock  func() time.Time
	newID  func() uuid.UUID
}

func New(reader Reader, writer Writer) *Service {
	return &Service{reader: reader, writer: writer, clock: time.Now, newID: uuid.New}
}

// WithClock overrides the timestamp source.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// WithIDGen overrides the id generator.
func (s *Service) WithIDGen(gen func() uuid.UUID) *Service {
	s.newID = gen
	return s
}

// balanceTolerance is the accepted debit/credit drift in minor units.
const balanceTolerance = 1

// ValidateEntry checks an entry in a fixed order: date, narrative, line
// count, mode cardinality, per-line account and amount, and finally the
// debit/credit balance. leaves is the set of postable analytic accounts.
func (s *Service) ValidateEntry(e ledger.Entry, mode ledger.EntryMode, leaves []chart.Leaf) error {
	if strings.TrimSpace(e.Date) == "" {
		return errs.ErrMissingDate
	}
	if strings.TrimSpace(e.Narrative) == "" {
		return errs.ErrMissingNarrative
	}
	if len(e.Lines) < 2 {
		return errs.ErrTooFewLines
	}

	var debits, credits int
	for _, ln := range e.Lines {
		switch ln.Side {
		case ledger.SideDebit:
			debits++
		case ledger.SideCredit:
			credits++
		default:
			return fmt.Errorf("%w: side must be debit or credit", errs.ErrInvalid)
		}
	}
	if err := checkMode(mode, debits, credits); err != nil {
		return err
	}

	byCode := make(map[string]struct{}, len(leaves))
	for _, l := range leaves {
		byCode[l.Code] = struct{}{}
	}

	var sumDebits, sumCredits int64
	for i, ln := range e.Lines {
		if strings.TrimSpace(ln.AccountCode) == "" || strings.TrimSpace(ln.AccountName) == "" {
			return lineErr(i, errs.ErrMissingAccount)
		}
		if _, ok := byCode[ln.AccountCode]; !ok {
			return fmt.Errorf("line[%d]: %w: %s", i, errs.ErrUnknownAccount, ln.AccountCode)
		}
		units, _ := ln.Amount.MinorUnits()
		if units <= 0 {
			return lineErr(i, errs.ErrInvalidAmount)
		}
		if ln.Side == ledger.SideDebit {
			sumDebits += units
		} else {
			sumCredits += units
		}
	}

	diff := sumDebits - sumCredits
	if diff < 0 {
		diff = -diff
	}
	if diff > balanceTolerance {
		return fmt.Errorf("%w: debits=%s credits=%s", errs.ErrUnbalanced,
			formatMinor(sumDebits), formatMinor(sumCredits))
	}
	return nil
}

func checkMode(mode ledger.EntryMode, debits, credits int) error {
	switch mode {
	case ledger.ModeOneToOne:
		if debits != 1 || credits != 1 {
			return fmt.Errorf("%w: one debit and one credit line required", errs.ErrModeMismatch)
		}
	case ledger.ModeOneDebitManyCredits:
		if debits != 1 || credits < 1 {
			return fmt.Errorf("%w: one debit and at least one credit line required", errs.ErrModeMismatch)
		}
	case ledger.ModeManyDebitsOneCredit:
		if debits < 1 || credits != 1 {
			return fmt.Errorf("%w: at least one debit line and one credit line required", errs.ErrModeMismatch)
		}
	default:
		return fmt.Errorf("%w: unknown entry mode %q", errs.ErrInvalid, mode)
	}
	return nil
}

// ModeOf derives the entry mode from the line cardinality.
func ModeOf(e ledger.Entry) ledger.EntryMode {
	var debits, credits int
	for _, ln := range e.Lines {
		if ln.Side == ledger.SideDebit {
			debits++
		} else {
			credits++
		}
	}
	switch {
	case debits == 1 && credits > 1:
		return ledger.ModeOneDebitManyCredits
	case debits > 1 && credits == 1:
		return ledger.ModeManyDebitsOneCredit
	default:
		return ledger.ModeOneToOne
	}
}

// Create validates the entry, stamps ids and timestamps and persists it.
func (s *Service) Create(ctx context.Context, e ledger.Entry, mode ledger.EntryMode, leaves []chart.Leaf) (ledger.Entry, error) {
	if err := s.ValidateEntry(e, mode, leaves); err != nil {
		return ledger.Entry{}, err
	}
	now := s.clock()
	e.ID = s.newID()
	e.CreatedAt = now
	e.UpdatedAt = &now
	for i := range e.Lines {
		e.Lines[i].ID = s.newID()
	}
	return s.writer.SaveEntry(ctx, e)
}

// Update replaces the stored entry's content with e, keeping the original id
// and creation timestamp. The line set is replaced wholesale with fresh ids.
func (s *Service) Update(ctx context.Context, id uuid.UUID, e ledger.Entry, mode ledger.EntryMode, leaves []chart.Leaf) (ledger.Entry, error) {
	orig, err := s.reader.EntryByID(ctx, id)
	if err != nil {
		return ledger.Entry{}, err
	}
	if err := s.ValidateEntry(e, mode, leaves); err != nil {
		return ledger.Entry{}, err
	}
	now := s.clock()
	e.ID = orig.ID
	e.CreatedAt = orig.CreatedAt
	e.UpdatedAt = &now
	for i := range e.Lines {
		e.Lines[i].ID = s.newID()
	}
	return s.writer.SaveEntry(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.reader.EntryByID(ctx, id); err != nil {
		return err
	}
	return s.writer.DeleteEntry(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]ledger.Entry, error) {
	return s.reader.Entries(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (ledger.Entry, error) {
	return s.reader.EntryByID(ctx, id)
}

// ResolveAccount maps free text to a postable account. Inputs in the
// "code - name" form are split on the first " - " and the left part tried as
// an exact code; failing that the whole text is tried as an exact code, then
// an exact name (case-insensitive), then a fuzzy match against the
// "code - name" label, the name and the code. The first leaf in traversal
// order wins. Accounts reserved by a blocking auto pattern cannot be
// selected.
func ResolveAccount(input string, leaves []chart.Leaf, patterns []ledger.AutoPattern) (chart.Leaf, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return chart.Leaf{}, errs.ErrMissingAccount
	}
	code := text
	if idx := strings.Index(text, " - "); idx >= 0 {
		code = strings.TrimSpace(text[:idx])
	}

	match, ok := findLeaf(leaves, code, text)
	if !ok {
		return chart.Leaf{}, fmt.Errorf("%w: %s", errs.ErrUnknownAccount, input)
	}
	if pattern.Blocked(match.Code, patterns) {
		return chart.Leaf{}, fmt.Errorf("%w: %s", errs.ErrBlockedAccount, match.Code)
	}
	return match, nil
}

func findLeaf(leaves []chart.Leaf, code, text string) (chart.Leaf, bool) {
	for _, l := range leaves {
		if l.Code == code || l.Code == text {
			return l, true
		}
	}
	lower := strings.ToLower(text)
	for _, l := range leaves {
		if strings.ToLower(l.Name) == lower {
			return l, true
		}
	}
	for _, l := range leaves {
		label := strings.ToLower(l.Code + " - " + l.Name)
		if strings.HasPrefix(label, lower) ||
			strings.Contains(strings.ToLower(l.Name), lower) ||
			strings.Contains(l.Code, lower) {
			return l, true
		}
	}
	return chart.Leaf{}, false
}

func lineErr(i int, err error) error {
	return fmt.Errorf("line[%d]: %w", i, err)
}

// formatMinor renders minor units as a two-decimal figure for messages.
func formatMinor(units int64) string {
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	return fmt.Sprintf("%s%d.%02d", sign, units/100, units%100)
}
