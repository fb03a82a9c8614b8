package ledger

import (
	"encoding/json"
	"testing"

	"github.com/govalues/money"
)

func TestAutoPatternIncludeChildrenDefault(t *testing.T) {
	var p AutoPattern
	if err := json.Unmarshal([]byte(`{"operationType":"cash_expense","debitMask":"5*","creditMask":"1*","active":true}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.IncludeChildren {
		t.Error("absent includeChildren must default to true")
	}

	if err := json.Unmarshal([]byte(`{"operationType":"cash_expense","debitMask":"5*","creditMask":"1*","includeChildren":false,"active":true}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.IncludeChildren {
		t.Error("explicit false must survive")
	}

	// round trip keeps the explicit false
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back AutoPattern
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if back.IncludeChildren {
		t.Error("round trip flipped includeChildren")
	}
}

func TestEntryTotals(t *testing.T) {
	amt := func(units int64) money.Amount {
		a, err := money.NewAmountFromMinorUnits("BRL", units)
		if err != nil {
			t.Fatalf("amount: %v", err)
		}
		return a
	}
	e := Entry{Lines: []Line{
		{Side: SideDebit, Amount: amt(10000)},
		{Side: SideCredit, Amount: amt(4000)},
		{Side: SideCredit, Amount: amt(6000)},
	}}
	if e.DebitTotal() != 10000 || e.CreditTotal() != 10000 {
		t.Fatalf("totals = %d/%d", e.DebitTotal(), e.CreditTotal())
	}
	ln, ok := e.FirstLine(SideCredit)
	if !ok {
		t.Fatal("no credit line found")
	}
	if units, _ := ln.Amount.MinorUnits(); units != 4000 {
		t.Fatalf("first credit = %d minor units", units)
	}
}

func TestSettingsProfiles(t *testing.T) {
	cfg := Settings{BankProfiles: []BankProfile{
		{ID: "a", LinkedAccountCode: "1.1.01.001", Default: true, Active: false},
		{ID: "b", LinkedAccountCode: "1.1.01.002", Default: true, Active: true},
	}}
	p, ok := cfg.DefaultProfile()
	if !ok || p.ID != "b" {
		t.Fatalf("default profile = %+v ok=%v (inactive must be skipped)", p, ok)
	}
	if _, ok := cfg.ProfileByLinkedCode("1.1.01.001"); !ok {
		t.Error("lookup by linked code failed")
	}
	if _, ok := cfg.ProfileByLinkedCode("9.9"); ok {
		t.Error("unknown linked code must miss")
	}
}
