package statement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
)

// Classified pairs a parsed record with its suggestion, if any.
type Classified struct {
	Record     Record      `json:"record"`
	Suggestion *Suggestion `json:"suggestion,omitempty"`
}

// Defaults are the accounts forced onto records whose suggestion is missing
// or below the auto-apply threshold.
type Defaults struct {
	BankCode    string
	BankName    string
	RevenueCode string
	RevenueName string
	ExpenseCode string
	ExpenseName string
}

func (d Defaults) complete() bool {
	return d.BankCode != "" && d.RevenueCode != "" && d.ExpenseCode != ""
}

// Materialize turns classified records into balanced two-line journal
// entries: inflows debit the bank account and credit the classification,
// outflows debit the classification and credit the bank account. A suggestion
// is only honored when its confidence reaches minConfidence.
func Materialize(recs []Classified, def Defaults, currency string, minConfidence int, now time.Time, newID func() uuid.UUID) ([]ledger.Entry, error) {
	if !def.complete() {
		return nil, fmt.Errorf("%w: bank, revenue and expense accounts are required", errs.ErrInvalid)
	}

	out := make([]ledger.Entry, 0, len(recs))
	for _, c := range recs {
		rec := c.Record
		amount, err := money.NewAmountFromMinorUnits(currency, rec.AmountMinor)
		if err != nil {
			return nil, err
		}

		inflow := rec.Type == ledger.FlowInflow
		destCode, destName := def.ExpenseCode, def.ExpenseName
		if inflow {
			destCode, destName = def.RevenueCode, def.RevenueName
		}
		if c.Suggestion != nil && c.Suggestion.Confidence >= minConfidence {
			destCode, destName = c.Suggestion.AccountCode, c.Suggestion.AccountName
		}

		debitCode, debitName := destCode, destName
		creditCode, creditName := def.BankCode, def.BankName
		if inflow {
			debitCode, debitName = def.BankCode, def.BankName
			creditCode, creditName = destCode, destName
		}

		createdAt := now
		out = append(out, ledger.Entry{
			ID:        newID(),
			Date:      rec.Date,
			Narrative: rec.Description,
			Lines: []ledger.Line{
				{ID: newID(), AccountCode: debitCode, AccountName: debitName, Side: ledger.SideDebit, Amount: amount},
				{ID: newID(), AccountCode: creditCode, AccountName: creditName, Side: ledger.SideCredit, Amount: amount},
			},
			CreatedAt: createdAt,
			UpdatedAt: &createdAt,
		})
	}
	return out, nil
}
