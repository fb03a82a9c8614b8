package budget

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
)

func TestMonthlyAmount(t *testing.T) {
	cases := []struct {
		cadence Cadence
		planned int64
		want    int64
	}{
		{CadenceWeekly, 10000, 43300},
		{CadenceBiweekly, 10000, 20000},
		{CadenceMonthly, 10000, 10000},
		{CadenceQuarterly, 30000, 10000},
		{CadenceSemiannual, 60000, 10000},
		{CadenceAnnual, 120000, 10000},
	}
	for _, c := range cases {
		got := MonthlyAmount(Item{PlannedMinor: c.planned, Cadence: c.cadence})
		if got != c.want {
			t.Errorf("MonthlyAmount(%s, %d) = %d, want %d", c.cadence, c.planned, got, c.want)
		}
	}
}

func TestAnnualAmount(t *testing.T) {
	cases := []struct {
		cadence Cadence
		want    int64
	}{
		{CadenceWeekly, 52000},
		{CadenceBiweekly, 26000},
		{CadenceMonthly, 12000},
		{CadenceQuarterly, 4000},
		{CadenceSemiannual, 2000},
		{CadenceAnnual, 1000},
	}
	for _, c := range cases {
		if got := AnnualAmount(Item{PlannedMinor: 1000, Cadence: c.cadence}); got != c.want {
			t.Errorf("AnnualAmount(%s) = %d, want %d", c.cadence, got, c.want)
		}
	}
}

func fixedBudget() Budget {
	return Budget{
		ID:   uuid.New(),
		Kind: KindFixed,
		Name: "Plano",
		Items: []Item{
			{ID: uuid.New(), AccountCode: "5.1.01.001", AccountName: "Aluguel", Category: ledger.CategoryExpense, PlannedMinor: 150000, Cadence: CadenceMonthly, Active: true, DueDay: 5},
			{ID: uuid.New(), AccountCode: "5.3.01.001", AccountName: "Mercado", Category: ledger.CategoryExpense, PlannedMinor: 20000, Cadence: CadenceWeekly, Active: true},
			{ID: uuid.New(), AccountCode: "4.1.01.001", AccountName: "Salário", Category: ledger.CategoryRevenue, PlannedMinor: 800000, Cadence: CadenceMonthly, Active: true},
			{ID: uuid.New(), AccountCode: "5.9.01.001", AccountName: "Desativado", Category: ledger.CategoryExpense, PlannedMinor: 5000, Cadence: CadenceMonthly, Active: false},
		},
	}
}

func TestMonthlyTotal(t *testing.T) {
	b := fixedBudget()
	// 150000 + round(20000*4.33); the inactive item is skipped
	if got := MonthlyTotal(b, ledger.CategoryExpense); got != 236600 {
		t.Errorf("expense total = %d, want 236600", got)
	}
	if got := MonthlyTotal(b, ledger.CategoryRevenue); got != 800000 {
		t.Errorf("revenue total = %d, want 800000", got)
	}
}

func TestMonthlyFromFixed(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	got, err := MonthlyFromFixed(fixedBudget(), 3, 2024, now, uuid.New)
	if err != nil {
		t.Fatalf("MonthlyFromFixed: %v", err)
	}
	if got.Kind != KindMonthly || got.Month != 3 || got.Year != 2024 {
		t.Fatalf("budget = %+v", got)
	}
	if len(got.Items) != 3 {
		t.Fatalf("got %d items, want 3 (inactive dropped)", len(got.Items))
	}
	for _, it := range got.Items {
		if it.Cadence != CadenceMonthly {
			t.Errorf("item %s cadence = %s, want monthly", it.AccountCode, it.Cadence)
		}
		if it.AccountCode == "5.3.01.001" && it.PlannedMinor != 86600 {
			t.Errorf("weekly item converted to %d, want 86600", it.PlannedMinor)
		}
	}

	if _, err := MonthlyFromFixed(got, 4, 2024, now, uuid.New); !errors.Is(err, errs.ErrInvalid) {
		t.Error("deriving from a monthly budget must fail")
	}
	if _, err := MonthlyFromFixed(fixedBudget(), 13, 2024, now, uuid.New); !errors.Is(err, errs.ErrInvalid) {
		t.Error("month 13 must fail")
	}
}

func TestValidate(t *testing.T) {
	ok := fixedBudget()
	if err := Validate(ok); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Budget)
	}{
		{"no name", func(b *Budget) { b.Name = "" }},
		{"fixed with month", func(b *Budget) { b.Month = 3 }},
		{"bad kind", func(b *Budget) { b.Kind = "yearly" }},
		{"item without account", func(b *Budget) { b.Items[0].AccountCode = "" }},
		{"item zero amount", func(b *Budget) { b.Items[0].PlannedMinor = 0 }},
		{"item bad cadence", func(b *Budget) { b.Items[0].Cadence = "daily" }},
		{"item asset category", func(b *Budget) { b.Items[0].Category = ledger.CategoryAsset }},
		{"item due day 32", func(b *Budget) { b.Items[0].DueDay = 32 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := fixedBudget()
			c.mutate(&b)
			if Validate(b) == nil {
				t.Error("expected rejection")
			}
		})
	}

	monthly := Budget{Kind: KindMonthly, Name: "Março", Month: 3, Year: 2024}
	if err := Validate(monthly); err != nil {
		t.Errorf("monthly budget rejected: %v", err)
	}
	monthly.Month = 0
	if Validate(monthly) == nil {
		t.Error("monthly budget without month must fail")
	}
}
