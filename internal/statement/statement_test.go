package statement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/rfarias/partida/internal/chart"
	"github.com/rfarias/partida/internal/ledger"
)

func TestParse(t *testing.T) {
	text := "data;descricao;valor;tipo\n" +
		"01/03/2024;Mercado Central;150,75;saida\n" +
		"2024-03-02;Salario;3.500,00;entrada\n" +
		"\n" +
		"garbage line without columns\n" +
		"03/03/2024;Transferencia;-80,00\n"

	recs, sum := Parse(text)
	if sum.Accepted != 3 || sum.Rejected != 1 {
		t.Fatalf("summary = %+v, want 3 accepted / 1 rejected", sum)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records", len(recs))
	}

	first := recs[0]
	if first.Date != "2024-03-01" || first.Description != "Mercado Central" ||
		first.AmountMinor != 15075 || first.Type != ledger.FlowOutflow {
		t.Fatalf("first record = %+v", first)
	}
	if recs[1].Type != ledger.FlowInflow || recs[1].AmountMinor != 350000 {
		t.Fatalf("second record = %+v", recs[1])
	}
	// no type token: sign decides, amount stored absolute
	if recs[2].Type != ledger.FlowOutflow || recs[2].AmountMinor != 8000 {
		t.Fatalf("third record = %+v", recs[2])
	}
}

func TestParseCommaDelimiter(t *testing.T) {
	recs, sum := Parse("01/03/2024,Padaria,25,+\n")
	if sum.Accepted != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if recs[0].AmountMinor != 2500 || recs[0].Type != ledger.FlowInflow {
		t.Fatalf("record = %+v", recs[0])
	}
}

func TestParseDropsBadDates(t *testing.T) {
	_, sum := Parse("31-12-2024;Loja;10,00;saida\n")
	if sum.Accepted != 0 || sum.Rejected != 1 {
		t.Fatalf("summary = %+v", sum)
	}
}

func amount(t *testing.T, units int64) money.Amount {
	t.Helper()
	a, err := money.NewAmountFromMinorUnits("BRL", units)
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	return a
}

func historyEntry(t *testing.T, narrative, debitCode, debitName, creditCode string, units int64) ledger.Entry {
	t.Helper()
	return ledger.Entry{
		ID:        uuid.New(),
		Date:      "2024-02-10",
		Narrative: narrative,
		Lines: []ledger.Line{
			{ID: uuid.New(), AccountCode: debitCode, AccountName: debitName, Side: ledger.SideDebit, Amount: amount(t, units)},
			{ID: uuid.New(), AccountCode: creditCode, AccountName: "Banco", Side: ledger.SideCredit, Amount: amount(t, units)},
		},
	}
}

func testProfile() ledger.BankProfile {
	return ledger.BankProfile{
		ID:                 "banco-1",
		Name:               "Banco Principal",
		LinkedAccountCode:  "1.1.01.001",
		DefaultRevenueCode: "4.9.01.001",
		DefaultExpenseCode: "5.9.01.001",
		Default:            true,
		Active:             true,
		Rules: []ledger.ClassificationRule{
			{ID: "r1", Keywords: []string{"mercado"}, DestinationCode: "5.3.01.001", Type: ledger.FlowOutflow, Priority: 1, Active: true},
		},
	}
}

func TestClassifyByRule(t *testing.T) {
	c := &Classifier{Profile: testProfile(), Opts: DefaultOptions()}
	rec := Record{Date: "2024-03-01", Description: "Mercado Central", AmountMinor: 15075, Type: ledger.FlowOutflow}

	s, ok := c.Classify(rec)
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if s.AccountCode != "5.3.01.001" || s.Confidence != 95 || s.Reason != "configured rule" {
		t.Fatalf("suggestion = %+v", s)
	}
}

func TestClassifyRulePriority(t *testing.T) {
	p := testProfile()
	// both rules match; the priority-1 rule must win regardless of list order
	p.Rules = []ledger.ClassificationRule{
		{ID: "low", Keywords: []string{"mercado"}, DestinationCode: "5.8.01.001", Type: ledger.FlowOutflow, Priority: 2, Active: true},
		{ID: "high", Keywords: []string{"mercado"}, DestinationCode: "5.3.01.001", Type: ledger.FlowOutflow, Priority: 1, Active: true},
	}
	c := &Classifier{Profile: p, Opts: DefaultOptions()}

	s, ok := c.Classify(Record{Description: "Mercado Central", AmountMinor: 100, Type: ledger.FlowOutflow})
	if !ok || s.AccountCode != "5.3.01.001" {
		t.Fatalf("suggestion = %+v, want priority-1 destination", s)
	}

	// unprioritized rules sort last
	p.Rules = []ledger.ClassificationRule{
		{ID: "none", Keywords: []string{"mercado"}, DestinationCode: "5.8.01.001", Type: ledger.FlowOutflow, Active: true},
		{ID: "p5", Keywords: []string{"mercado"}, DestinationCode: "5.3.01.001", Type: ledger.FlowOutflow, Priority: 5, Active: true},
	}
	c = &Classifier{Profile: p, Opts: DefaultOptions()}
	if s, _ := c.Classify(Record{Description: "mercado", AmountMinor: 100, Type: ledger.FlowOutflow}); s.AccountCode != "5.3.01.001" {
		t.Fatalf("suggestion = %+v, want prioritized destination", s)
	}
}

func TestClassifyRuleFiltersTypeAndActive(t *testing.T) {
	p := testProfile()
	p.Rules[0].Active = false
	p.DefaultExpenseCode = ""
	c := &Classifier{Profile: p, Opts: DefaultOptions()}
	if _, ok := c.Classify(Record{Description: "mercado", AmountMinor: 100, Type: ledger.FlowOutflow}); ok {
		t.Fatal("inactive rule must not classify")
	}

	p = testProfile()
	p.DefaultRevenueCode = ""
	c = &Classifier{Profile: p, Opts: DefaultOptions()}
	if _, ok := c.Classify(Record{Description: "mercado", AmountMinor: 100, Type: ledger.FlowInflow}); ok {
		t.Fatal("outflow rule must not classify inflow records")
	}
}

func TestClassifyBySimilarity(t *testing.T) {
	history := []ledger.Entry{
		historyEntry(t, "Compra farmacia popular", "5.4.01.001", "Farmácia", "1.1.01.001", 5000),
		historyEntry(t, "Farmacia do bairro", "5.4.01.001", "Farmácia", "1.1.01.001", 5500),
		historyEntry(t, "Farmacia central", "5.2.01.001", "Outros", "1.1.01.001", 4800),
		// amount far outside the 30% band
		historyEntry(t, "Farmacia cara", "5.4.01.001", "Farmácia", "1.1.01.001", 50000),
	}
	p := testProfile()
	c := &Classifier{Profile: p, History: history, Opts: DefaultOptions()}

	s, ok := c.Classify(Record{Description: "Farmacia Sao Jose", AmountMinor: 5200, Type: ledger.FlowOutflow})
	if !ok {
		t.Fatal("expected similarity suggestion")
	}
	if s.AccountCode != "5.4.01.001" {
		t.Fatalf("suggestion = %+v, want most frequent account", s)
	}
	// 2 of 3 similar entries -> 67
	if s.Confidence != 67 {
		t.Fatalf("confidence = %d, want 67", s.Confidence)
	}
	if s.Reason != "based on 2 similar entries" {
		t.Fatalf("reason = %q", s.Reason)
	}
}

func TestClassifyDefaultFallback(t *testing.T) {
	c := &Classifier{Profile: testProfile(), Opts: DefaultOptions()}
	s, ok := c.Classify(Record{Description: "sem pista nenhuma", AmountMinor: 1234, Type: ledger.FlowInflow})
	if !ok {
		t.Fatal("expected default suggestion")
	}
	if s.AccountCode != "4.9.01.001" || s.Confidence != 50 || s.Reason != "bank default account" {
		t.Fatalf("suggestion = %+v", s)
	}
}

func TestClassifyLeafNames(t *testing.T) {
	c := &Classifier{
		Profile: testProfile(),
		Leaves:  []chart.Leaf{{Code: "5.3.01.001", Name: "Supermercado", Category: ledger.CategoryExpense}},
		Opts:    DefaultOptions(),
	}
	s, _ := c.Classify(Record{Description: "mercado", AmountMinor: 100, Type: ledger.FlowOutflow})
	if s.AccountName != "Supermercado" {
		t.Fatalf("account name = %q", s.AccountName)
	}
}

func TestMaterialize(t *testing.T) {
	def := Defaults{
		BankCode: "1.1.01.001", BankName: "Banco Corrente",
		RevenueCode: "4.9.01.001", RevenueName: "Outras Receitas",
		ExpenseCode: "5.9.01.001", ExpenseName: "Outras Despesas",
	}
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	recs := []Classified{
		{
			Record:     Record{Date: "2024-03-01", Description: "Mercado Central", AmountMinor: 15075, Type: ledger.FlowOutflow},
			Suggestion: &Suggestion{AccountCode: "5.3.01.001", AccountName: "Supermercado", Confidence: 95},
		},
		{
			// below the auto-apply threshold: defaults win
			Record:     Record{Date: "2024-03-02", Description: "Pix recebido", AmountMinor: 20000, Type: ledger.FlowInflow},
			Suggestion: &Suggestion{AccountCode: "4.1.01.001", AccountName: "Salário", Confidence: 50},
		},
	}

	entries, err := Materialize(recs, def, "BRL", 70, now, uuid.New)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}

	outflow := entries[0]
	if outflow.DebitTotal() != 15075 || outflow.CreditTotal() != 15075 {
		t.Fatalf("outflow not balanced: %+v", outflow)
	}
	d, _ := outflow.FirstLine(ledger.SideDebit)
	cr, _ := outflow.FirstLine(ledger.SideCredit)
	if d.AccountCode != "5.3.01.001" || cr.AccountCode != "1.1.01.001" {
		t.Fatalf("outflow sides wrong: debit %s credit %s", d.AccountCode, cr.AccountCode)
	}

	inflow := entries[1]
	d, _ = inflow.FirstLine(ledger.SideDebit)
	cr, _ = inflow.FirstLine(ledger.SideCredit)
	if d.AccountCode != "1.1.01.001" || cr.AccountCode != "4.9.01.001" {
		t.Fatalf("inflow sides wrong: debit %s credit %s", d.AccountCode, cr.AccountCode)
	}

	if _, err := Materialize(recs, Defaults{}, "BRL", 70, now, uuid.New); err == nil {
		t.Fatal("missing defaults must fail")
	}
}
