package chart

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
)

const testMask = "9.9.99.999"

func node(code, name string, kind ledger.Kind, cat ledger.Category, children ...ledger.Account) ledger.Account {
	return ledger.Account{
		ID:       uuid.New(),
		Code:     code,
		Name:     name,
		Kind:     kind,
		Category: cat,
		Active:   true,
		Children: children,
	}
}

func fixtureTree() []ledger.Account {
	return []ledger.Account{
		node("1", "Ativo", ledger.KindSynthetic, ledger.CategoryAsset,
			node("1.1", "Disponivel", ledger.KindSynthetic, ledger.CategoryAsset,
				node("1.1.01", "Bancos", ledger.KindSynthetic, ledger.CategoryAsset,
					node("1.1.01.001", "Banco Corrente", ledger.KindAnalytic, ledger.CategoryAsset),
					node("1.1.01.002", "Carteira", ledger.KindAnalytic, ledger.CategoryAsset),
				),
			),
		),
		node("4", "Receitas", ledger.KindSynthetic, ledger.CategoryRevenue,
			node("4.1", "Operacionais", ledger.KindSynthetic, ledger.CategoryRevenue,
				node("4.1.01", "Salario", ledger.KindSynthetic, ledger.CategoryRevenue,
					node("4.1.01.001", "Salario Mensal", ledger.KindAnalytic, ledger.CategoryRevenue),
				),
			),
		),
		node("5", "Despesas", ledger.KindSynthetic, ledger.CategoryExpense,
			node("5.1", "Moradia", ledger.KindSynthetic, ledger.CategoryExpense,
				node("5.1.01", "Aluguel", ledger.KindSynthetic, ledger.CategoryExpense,
					node("5.1.01.001", "Aluguel Apartamento", ledger.KindAnalytic, ledger.CategoryExpense),
				),
			),
		),
	}
}

func TestCollectCodes(t *testing.T) {
	codes := CollectCodes(fixtureTree())
	want := []string{
		"1", "1.1", "1.1.01", "1.1.01.001", "1.1.01.002",
		"4", "4.1", "4.1.01", "4.1.01.001",
		"5", "5.1", "5.1.01", "5.1.01.001",
	}
	if len(codes) != len(want) {
		t.Fatalf("got %d codes, want %d: %v", len(codes), len(want), codes)
	}
	for i, c := range want {
		if codes[i] != c {
			t.Fatalf("codes[%d] = %q, want %q", i, codes[i], c)
		}
	}
}

func TestAnalyticLeaves(t *testing.T) {
	tree := fixtureTree()
	leaves := AnalyticLeaves(tree)
	want := []string{"1.1.01.001", "1.1.01.002", "4.1.01.001", "5.1.01.001"}
	if len(leaves) != len(want) {
		t.Fatalf("got %d leaves: %+v", len(leaves), leaves)
	}
	for i, code := range want {
		if leaves[i].Code != code {
			t.Fatalf("leaves[%d] = %q, want %q", i, leaves[i].Code, code)
		}
	}
	if leaves[0].Category != ledger.CategoryAsset {
		t.Errorf("leaf category = %q", leaves[0].Category)
	}

	// inactive leaves are excluded but stay in the tree
	wallet, _ := FindByCode(tree, "1.1.01.002")
	wallet.Active = false
	tree, err := Update(tree, wallet)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := AnalyticLeaves(tree); len(got) != 3 {
		t.Fatalf("expected 3 leaves after deactivation, got %d", len(got))
	}
	if _, ok := FindByCode(tree, "1.1.01.002"); !ok {
		t.Error("deactivated account must remain in the tree")
	}
}

func TestCategoryFallback(t *testing.T) {
	tree := fixtureTree()
	if got := CategoryOf(tree, "5.1.01.001"); got != ledger.CategoryExpense {
		t.Errorf("CategoryOf chart hit = %q", got)
	}
	cases := map[string]ledger.Category{
		"1.9.99.999": ledger.CategoryAsset,
		"2.1":        ledger.CategoryLiability,
		"3":          ledger.CategoryEquity,
		"4.9":        ledger.CategoryRevenue,
		"5.9":        ledger.CategoryExpense,
		"9.9":        "",
	}
	for code, want := range cases {
		if got := CategoryOf(tree, code); got != want {
			t.Errorf("CategoryOf(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestInsert(t *testing.T) {
	tree := fixtureTree()

	acc := node("1.1.01.003", "Poupanca", ledger.KindAnalytic, ledger.CategoryAsset)
	out, err := Insert(tree, "1.1.01", acc, testMask)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, ok := FindByCode(out, "1.1.01.003"); !ok {
		t.Fatal("inserted account not found")
	}
	// original tree untouched
	if _, ok := FindByCode(tree, "1.1.01.003"); ok {
		t.Fatal("Insert mutated the input tree")
	}

	// duplicate code
	if _, err := Insert(out, "1.1.01", acc, testMask); !errors.Is(err, errs.ErrCodeExists) {
		t.Errorf("duplicate: got %v", err)
	}
	// code does not extend parent
	bad := node("1.1.02.001", "Solta", ledger.KindAnalytic, ledger.CategoryAsset)
	if _, err := Insert(tree, "1.1.01", bad, testMask); !errors.Is(err, errs.ErrInvalidCode) {
		t.Errorf("non-child code: got %v", err)
	}
	// analytic parent cannot own children
	child := node("1.1.01.001.1", "Impossivel", ledger.KindAnalytic, ledger.CategoryAsset)
	if _, err := Insert(tree, "1.1.01.001", child, testMask); err == nil {
		t.Error("expected error inserting under analytic account")
	}
	// mask violation
	wide := node("1.1.1", "Errada", ledger.KindAnalytic, ledger.CategoryAsset)
	if _, err := Insert(tree, "1.1", wide, testMask); !errors.Is(err, errs.ErrInvalidCode) {
		t.Errorf("mask violation: got %v", err)
	}
	// root insert
	root := node("2", "Passivo", ledger.KindSynthetic, ledger.CategoryLiability)
	out, err = Insert(tree, "", root, testMask)
	if err != nil {
		t.Fatalf("root insert: %v", err)
	}
	if _, ok := FindByCode(out, "2"); !ok {
		t.Fatal("root account not found")
	}
}

func TestDelete(t *testing.T) {
	tree := fixtureTree()

	banks, _ := FindByCode(tree, "1.1.01")
	if _, err := Delete(tree, banks.ID, false); !errors.Is(err, errs.ErrHasChildren) {
		t.Fatalf("expected ErrHasChildren, got %v", err)
	}

	out, err := Delete(tree, banks.ID, true)
	if err != nil {
		t.Fatalf("cascade delete: %v", err)
	}
	for _, code := range []string{"1.1.01", "1.1.01.001", "1.1.01.002"} {
		if _, ok := FindByCode(out, code); ok {
			t.Errorf("%s should be gone after cascade", code)
		}
	}

	leaf, _ := FindByCode(tree, "1.1.01.002")
	out, err = Delete(tree, leaf.ID, false)
	if err != nil {
		t.Fatalf("leaf delete: %v", err)
	}
	if _, ok := FindByCode(out, "1.1.01.002"); ok {
		t.Error("leaf should be gone")
	}
	if _, ok := FindByCode(out, "1.1.01.001"); !ok {
		t.Error("sibling must survive")
	}

	if _, err := Delete(tree, uuid.New(), false); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
}
