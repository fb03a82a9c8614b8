// Package budget models planned amounts per account with recurrence cadences
// and conversions between monthly and annual views.
package budget

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
)

// Kind distinguishes the standing plan from a specific month's copy.
type Kind string

const (
	KindFixed   Kind = "fixed"
	KindMonthly Kind = "monthly"
)

// Cadence is how often a planned item recurs.
type Cadence string

const (
	CadenceWeekly     Cadence = "weekly"
	CadenceBiweekly   Cadence = "biweekly"
	CadenceMonthly    Cadence = "monthly"
	CadenceQuarterly  Cadence = "quarterly"
	CadenceSemiannual Cadence = "semiannual"
	CadenceAnnual     Cadence = "annual"
)

// Item is one planned amount bound to a chart account. PlannedMinor is the
// amount per cadence period, in minor units.
type Item struct {
	ID           uuid.UUID       `json:"id"`
	AccountCode  string          `json:"account_code"`
	AccountName  string          `json:"account_name"`
	Category     ledger.Category `json:"category"`
	PlannedMinor int64           `json:"planned_minor"`
	Cadence      Cadence         `json:"cadence"`
	Active       bool            `json:"active"`
	DueDay       int             `json:"due_day,omitempty"`
	Note         string          `json:"note,omitempty"`
}

// Budget is a named collection of items. A fixed budget has no month/year; a
// monthly budget is pinned to one.
type Budget struct {
	ID        uuid.UUID  `json:"id"`
	Kind      Kind       `json:"kind"`
	Name      string     `json:"name"`
	Month     int        `json:"month,omitempty"`
	Year      int        `json:"year,omitempty"`
	Items     []Item     `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// weeksPerMonth matches the average used when the plan was first built.
const weeksPerMonth = 4.33

// MonthlyAmount converts an item's planned amount to its monthly equivalent
// in minor units.
func MonthlyAmount(it Item) int64 {
	v := float64(it.PlannedMinor)
	switch it.Cadence {
	case CadenceWeekly:
		v *= weeksPerMonth
	case CadenceBiweekly:
		v *= 2
	case CadenceMonthly:
	case CadenceQuarterly:
		v /= 3
	case CadenceSemiannual:
		v /= 6
	case CadenceAnnual:
		v /= 12
	}
	return int64(math.Round(v))
}

// AnnualAmount converts an item's planned amount to its annual equivalent in
// minor units.
func AnnualAmount(it Item) int64 {
	v := it.PlannedMinor
	switch it.Cadence {
	case CadenceWeekly:
		return v * 52
	case CadenceBiweekly:
		return v * 26
	case CadenceMonthly:
		return v * 12
	case CadenceQuarterly:
		return v * 4
	case CadenceSemiannual:
		return v * 2
	case CadenceAnnual:
		return v
	}
	return v
}

// MonthlyTotal sums the monthly equivalents of the active items in the given
// category.
func MonthlyTotal(b Budget, cat ledger.Category) int64 {
	var total int64
	for _, it := range b.Items {
		if !it.Active || it.Category != cat {
			continue
		}
		total += MonthlyAmount(it)
	}
	return total
}

// MonthlyFromFixed derives a month's budget from the standing plan: every
// active item is copied with its monthly-equivalent amount and a monthly
// cadence.
func MonthlyFromFixed(fixed Budget, month, year int, now time.Time, newID func() uuid.UUID) (Budget, error) {
	if fixed.Kind != KindFixed {
		return Budget{}, fmt.Errorf("%w: source budget must be fixed", errs.ErrInvalid)
	}
	if month < 1 || month > 12 || year < 1 {
		return Budget{}, fmt.Errorf("%w: month must be 1-12 and year positive", errs.ErrInvalid)
	}

	out := Budget{
		ID:        newID(),
		Kind:      KindMonthly,
		Name:      fmt.Sprintf("%s %02d/%d", fixed.Name, month, year),
		Month:     month,
		Year:      year,
		Items:     make([]Item, 0, len(fixed.Items)),
		CreatedAt: now,
	}
	for _, it := range fixed.Items {
		if !it.Active {
			continue
		}
		copied := it
		copied.ID = newID()
		copied.PlannedMinor = MonthlyAmount(it)
		copied.Cadence = CadenceMonthly
		out.Items = append(out.Items, copied)
	}
	return out, nil
}

// Validate rejects budgets with missing names, bad kinds or malformed items.
func Validate(b Budget) error {
	if b.Name == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalid)
	}
	switch b.Kind {
	case KindFixed:
		if b.Month != 0 || b.Year != 0 {
			return fmt.Errorf("%w: fixed budgets carry no month/year", errs.ErrInvalid)
		}
	case KindMonthly:
		if b.Month < 1 || b.Month > 12 || b.Year < 1 {
			return fmt.Errorf("%w: monthly budgets need a valid month/year", errs.ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: kind must be fixed or monthly", errs.ErrInvalid)
	}
	for i, it := range b.Items {
		if it.AccountCode == "" {
			return fmt.Errorf("item[%d]: %w", i, errs.ErrMissingAccount)
		}
		if it.PlannedMinor <= 0 {
			return fmt.Errorf("item[%d]: %w", i, errs.ErrInvalidAmount)
		}
		switch it.Cadence {
		case CadenceWeekly, CadenceBiweekly, CadenceMonthly, CadenceQuarterly, CadenceSemiannual, CadenceAnnual:
		default:
			return fmt.Errorf("item[%d]: %w: unknown cadence %q", i, errs.ErrInvalid, it.Cadence)
		}
		if it.Category != ledger.CategoryRevenue && it.Category != ledger.CategoryExpense {
			return fmt.Errorf("item[%d]: %w: category must be revenue or expense", i, errs.ErrInvalid)
		}
		if it.DueDay < 0 || it.DueDay > 31 {
			return fmt.Errorf("item[%d]: %w: due day out of range", i, errs.ErrInvalid)
		}
	}
	return nil
}
