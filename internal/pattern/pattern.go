// Package pattern classifies balanced journal entries into accounting
// operation archetypes from the categories of their debit/credit accounts.
// User-configured AutoPatterns take precedence over the built-in decision
// table.
package pattern

import (
	"strings"

	"github.com/rfarias/partida/internal/chart"
	"github.com/rfarias/partida/internal/ledger"
)

// Info carries the display attributes of an operation type.
type Info struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var infos = map[ledger.OperationType]Info{
	ledger.OpCashExpense:          {Name: "Despesa à Vista", Icon: "💳"},
	ledger.OpAccruedExpense:       {Name: "Despesa a Prazo", Icon: "📅"},
	ledger.OpCashRevenue:          {Name: "Receita à Vista", Icon: "💰"},
	ledger.OpAccruedRevenue:       {Name: "Receita a Prazo", Icon: "📈"},
	ledger.OpDebtPayment:          {Name: "Pagamento de Dívida", Icon: "✅"},
	ledger.OpCreditCollection:     {Name: "Recebimento de Crédito", Icon: "💵"},
	ledger.OpInvestment:           {Name: "Aplicação/Investimento", Icon: "📊"},
	ledger.OpInvestmentRedemption: {Name: "Resgate de Investimento", Icon: "💎"},
	ledger.OpLoanReceived:         {Name: "Empréstimo Recebido", Icon: "🏦"},
	ledger.OpTransfer:             {Name: "Transferência entre Contas", Icon: "🔄"},
	ledger.OpCapitalContribution:  {Name: "Aporte de Capital", Icon: "💼"},
	ledger.OpCapitalWithdrawal:    {Name: "Retirada de Capital", Icon: "📤"},
	ledger.OpUnknown:              {Name: "Padrão Não Identificado", Icon: "❓"},
}

// InfoFor returns the display attributes for an operation type.
func InfoFor(op ledger.OperationType) Info {
	if info, ok := infos[op]; ok {
		return info
	}
	return infos[ledger.OpUnknown]
}

var receivableWords = []string{"receber", "duplicata", "cliente"}
var investmentWords = []string{"investimento", "aplicação", "ações", "fundo"}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Identify maps the categories (and, for asset-to-asset and revenue cases,
// the account names) of the first debit/credit pair to an operation type.
func Identify(debitCat, creditCat ledger.Category, debitName, creditName string) ledger.OperationType {
	debitName = strings.ToLower(debitName)
	creditName = strings.ToLower(creditName)

	switch {
	case debitCat == ledger.CategoryExpense && creditCat == ledger.CategoryAsset:
		return ledger.OpCashExpense
	case debitCat == ledger.CategoryExpense && creditCat == ledger.CategoryLiability:
		return ledger.OpAccruedExpense
	case debitCat == ledger.CategoryAsset && creditCat == ledger.CategoryRevenue:
		if containsAny(debitName, receivableWords) {
			return ledger.OpAccruedRevenue
		}
		return ledger.OpCashRevenue
	case debitCat == ledger.CategoryLiability && creditCat == ledger.CategoryAsset:
		return ledger.OpDebtPayment
	case debitCat == ledger.CategoryAsset && creditCat == ledger.CategoryLiability:
		return ledger.OpLoanReceived
	case debitCat == ledger.CategoryAsset && creditCat == ledger.CategoryEquity:
		return ledger.OpCapitalContribution
	case debitCat == ledger.CategoryEquity && creditCat == ledger.CategoryAsset:
		return ledger.OpCapitalWithdrawal
	case debitCat == ledger.CategoryAsset && creditCat == ledger.CategoryAsset:
		invest := containsAny(debitName, investmentWords)
		redeem := containsAny(creditName, investmentWords)
		switch {
		case invest && !redeem:
			return ledger.OpInvestment
		case redeem && !invest:
			return ledger.OpInvestmentRedemption
		case containsAny(creditName, receivableWords):
			return ledger.OpCreditCollection
		}
		return ledger.OpTransfer
	}
	return ledger.OpUnknown
}

// MatchMask reports whether an account code falls under a pattern mask.
// A trailing '*' makes the mask a raw prefix. A literal mask matches the exact
// code and, when includeChildren, any descendant (code extended with '.').
func MatchMask(maskDef, code string, includeChildren bool) bool {
	if maskDef == "" {
		return false
	}
	if strings.HasSuffix(maskDef, "*") {
		return strings.HasPrefix(code, strings.TrimSuffix(maskDef, "*"))
	}
	if code == maskDef {
		return true
	}
	return includeChildren && strings.HasPrefix(code, maskDef+".")
}

// Blocked reports whether an account code is barred from selection by an
// active pattern with BlockSelection on either side.
func Blocked(code string, patterns []ledger.AutoPattern) bool {
	for _, p := range patterns {
		if !p.Active || !p.BlockSelection {
			continue
		}
		if MatchMask(p.DebitMask, code, p.IncludeChildren) || MatchMask(p.CreditMask, code, p.IncludeChildren) {
			return true
		}
	}
	return false
}

// Result is the resolved archetype of an entry, with display attributes and
// whether a configured pattern produced it.
type Result struct {
	Type       ledger.OperationType `json:"type"`
	Name       string               `json:"name"`
	Icon       string               `json:"icon"`
	Configured bool                 `json:"configured"`
}

// Resolve identifies an entry's operation. Configured patterns are consulted
// first in configuration order; the decision table is the fallback.
func Resolve(entry ledger.Entry, tree []ledger.Account, patterns []ledger.AutoPattern) Result {
	debit, okD := entry.FirstLine(ledger.SideDebit)
	credit, okC := entry.FirstLine(ledger.SideCredit)
	if !okD || !okC {
		return Result{Type: ledger.OpUnknown, Name: infos[ledger.OpUnknown].Name, Icon: infos[ledger.OpUnknown].Icon}
	}

	for _, p := range patterns {
		if !p.Active {
			continue
		}
		if MatchMask(p.DebitMask, debit.AccountCode, p.IncludeChildren) && MatchMask(p.CreditMask, credit.AccountCode, p.IncludeChildren) {
			info := InfoFor(p.Operation)
			if p.Name != "" {
				info.Name = p.Name
			}
			if p.Icon != "" {
				info.Icon = p.Icon
			}
			return Result{Type: p.Operation, Name: info.Name, Icon: info.Icon, Configured: true}
		}
	}

	op := Identify(
		chart.CategoryOf(tree, debit.AccountCode),
		chart.CategoryOf(tree, credit.AccountCode),
		debit.AccountName,
		credit.AccountName,
	)
	info := InfoFor(op)
	return Result{Type: op, Name: info.Name, Icon: info.Icon}
}
