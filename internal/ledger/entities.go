package ledger

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
)

// Side represents the accounting position of an entry line.
type Side string

const (
	// SideDebit records a value on the debit side of an account.
	SideDebit Side = "debit"
	// SideCredit records a value on the credit side of an account.
	SideCredit Side = "credit"
)

// Category enumerates the broad classification of an account.
type Category string

const (
	// CategoryAsset increases on the debit side and holds resources owned by the user.
	CategoryAsset Category = "asset"
	// CategoryLiability increases on the credit side and tracks obligations.
	CategoryLiability Category = "liability"
	// CategoryEquity captures the owner's residual interest.
	CategoryEquity Category = "equity"
	// CategoryRevenue represents inflows that increase equity.
	CategoryRevenue Category = "revenue"
	// CategoryExpense represents outflows that decrease equity.
	CategoryExpense Category = "expense"
)

// Kind distinguishes grouping nodes from postable leaves in the chart.
type Kind string

const (
	// KindSynthetic marks a grouping account; it may own children and cannot
	// appear on entry lines.
	KindSynthetic Kind = "synthetic"
	// KindAnalytic marks a leaf account usable in journal entries.
	KindAnalytic Kind = "analytic"
)

// Account is a chart-of-accounts node. The parent exclusively owns Children.
type Account struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Kind     Kind      `json:"kind"`
	Category Category  `json:"category"`
	Active   bool      `json:"active"`
	Children []Account `json:"children,omitempty"`
}

// Line is a single debit or credit within an entry ("partida").
type Line struct {
	ID          uuid.UUID
	AccountCode string
	AccountName string
	Side        Side
	Amount      money.Amount
}

// Entry is a journal entry ("lancamento"): a header plus balanced lines.
// Date is the business date in YYYY-MM-DD form.
type Entry struct {
	ID        uuid.UUID
	Date      string
	Narrative string
	Document  string
	Lines     []Line
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// DebitTotal sums the debit side in minor units.
func (e Entry) DebitTotal() int64 { return e.sideTotal(SideDebit) }

// CreditTotal sums the credit side in minor units.
func (e Entry) CreditTotal() int64 { return e.sideTotal(SideCredit) }

func (e Entry) sideTotal(side Side) int64 {
	var total int64
	for _, ln := range e.Lines {
		if ln.Side != side {
			continue
		}
		units, _ := ln.Amount.MinorUnits()
		total += units
	}
	return total
}

// FirstLine returns the first line on the given side, or false when absent.
func (e Entry) FirstLine(side Side) (Line, bool) {
	for _, ln := range e.Lines {
		if ln.Side == side {
			return ln, true
		}
	}
	return Line{}, false
}

// EntryMode constrains the debit/credit shape of an entry before validation.
type EntryMode string

const (
	// ModeOneToOne requires exactly one debit and one credit line.
	ModeOneToOne EntryMode = "one_to_one"
	// ModeOneDebitManyCredits requires exactly one debit and at least one credit.
	ModeOneDebitManyCredits EntryMode = "one_debit_many_credits"
	// ModeManyDebitsOneCredit requires exactly one credit and at least one debit.
	ModeManyDebitsOneCredit EntryMode = "many_debits_one_credit"
)

// FlowType is the direction of a bank-statement movement.
type FlowType string

const (
	FlowInflow  FlowType = "inflow"
	FlowOutflow FlowType = "outflow"
)

// OperationType names the accounting archetype of a balanced entry.
type OperationType string

const (
	OpCashExpense          OperationType = "cash_expense"
	OpAccruedExpense       OperationType = "accrued_expense"
	OpCashRevenue          OperationType = "cash_revenue"
	OpAccruedRevenue       OperationType = "accrued_revenue"
	OpDebtPayment          OperationType = "debt_payment"
	OpCreditCollection     OperationType = "credit_collection"
	OpInvestment           OperationType = "investment"
	OpInvestmentRedemption OperationType = "investment_redemption"
	OpLoanReceived         OperationType = "loan_received"
	OpTransfer             OperationType = "inter_account_transfer"
	OpCapitalContribution  OperationType = "capital_contribution"
	OpCapitalWithdrawal    OperationType = "capital_withdrawal"
	OpUnknown              OperationType = "unknown"
)

// AutoPattern is a user-configured override mapping a debit/credit code-prefix
// pair to an operation type. Masks are literal prefixes or "prefix*" wildcards
// matched against entry line codes, not chart masks.
type AutoPattern struct {
	ID              string        `json:"id,omitempty"`
	Operation       OperationType `json:"operationType"`
	Name            string        `json:"name,omitempty"`
	Icon            string        `json:"icon,omitempty"`
	DebitMask       string        `json:"debitMask"`
	CreditMask      string        `json:"creditMask"`
	IncludeChildren bool          `json:"includeChildren"`
	BlockSelection  bool          `json:"blockSelection,omitempty"`
	Active          bool          `json:"active"`
}

// UnmarshalJSON defaults IncludeChildren to true when the field is absent, so
// configs that never mention it keep matching descendant accounts.
func (p *AutoPattern) UnmarshalJSON(data []byte) error {
	type alias AutoPattern
	aux := struct {
		IncludeChildren *bool `json:"includeChildren"`
		*alias
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.IncludeChildren == nil {
		p.IncludeChildren = true
	} else {
		p.IncludeChildren = *aux.IncludeChildren
	}
	return nil
}

// ClassificationRule maps statement description keywords to a destination
// account. Lower priority wins; missing priority sorts last.
type ClassificationRule struct {
	ID              string   `json:"id"`
	Keywords        []string `json:"keywords"`
	DestinationCode string   `json:"destinationAccountCode"`
	Type            FlowType `json:"type"`
	Priority        int      `json:"priority"`
	Active          bool     `json:"active"`
}

// BankProfile describes a bank account used for statement imports.
type BankProfile struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	LinkedAccountCode  string               `json:"linkedAccountCode"`
	DefaultRevenueCode string               `json:"defaultRevenueAccountCode,omitempty"`
	DefaultExpenseCode string               `json:"defaultExpenseAccountCode,omitempty"`
	Default            bool                 `json:"isDefault"`
	Active             bool                 `json:"active"`
	Rules              []ClassificationRule `json:"classificationRules"`
}

// Settings is the user configuration consumed by the core.
type Settings struct {
	Mask              string        `json:"mask"`
	Currency          string        `json:"currency"`
	AllowRootAccounts bool          `json:"allowRootAccounts"`
	AutoPatterns      []AutoPattern `json:"autoPatterns"`
	BankProfiles      []BankProfile `json:"bankProfiles"`
}

// DefaultProfile returns the active profile flagged as default, if any.
func (s Settings) DefaultProfile() (BankProfile, bool) {
	for _, p := range s.BankProfiles {
		if p.Default && p.Active {
			return p, true
		}
	}
	return BankProfile{}, false
}

// ProfileByLinkedCode finds the profile linked to a chart account code.
func (s Settings) ProfileByLinkedCode(code string) (BankProfile, bool) {
	for _, p := range s.BankProfiles {
		if p.LinkedAccountCode == code {
			return p, true
		}
	}
	return BankProfile{}, false
}
