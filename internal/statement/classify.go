package statement

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/chart"
	"github.com/rfarias/partida/internal/ledger"
)

// Options holds the tuning knobs of the historical-similarity heuristic. The
// defaults reproduce the constants the product shipped with; they have no
// documented rationale, so they are kept configurable rather than hard-coded.
type Options struct {
	// AmountTolerance is the relative distance within which a historical
	// entry's amount counts as similar (0.30 = ±30%).
	AmountTolerance float64
	// MinTokenLen drops description tokens of this length or shorter before
	// the similarity scan.
	MinTokenLen int
	// AutoApplyConfidence is the minimum confidence at which a suggestion is
	// applied without user review during import.
	AutoApplyConfidence int
}

// DefaultOptions returns the shipped tuning constants.
func DefaultOptions() Options {
	return Options{AmountTolerance: 0.30, MinTokenLen: 3, AutoApplyConfidence: 70}
}

// Suggestion is a proposed destination account for a statement record.
type Suggestion struct {
	AccountCode string      `json:"account_code"`
	AccountName string      `json:"account_name"`
	Confidence  int         `json:"confidence"`
	Reason      string      `json:"reason"`
	BasedOn     []uuid.UUID `json:"based_on,omitempty"`
}

// Classifier assigns destination accounts to statement records for one bank
// profile. History is the existing ledger consulted by the similarity
// heuristic.
type Classifier struct {
	Profile ledger.BankProfile
	Leaves  []chart.Leaf
	History []ledger.Entry
	Opts    Options
}

// Classify resolves a record through, in order: configured keyword rules,
// the historical-similarity heuristic, and the profile's default account.
// The second return is false when nothing applied.
func (c *Classifier) Classify(rec Record) (Suggestion, bool) {
	if s, ok := c.byRule(rec); ok {
		return s, true
	}
	if s, ok := c.bySimilarity(rec); ok {
		return s, true
	}
	return c.byDefault(rec)
}

// byRule scans the profile's active rules for the record's flow type in
// priority order (missing priority sorts last); the first rule with a keyword
// contained in the description wins.
func (c *Classifier) byRule(rec Record) (Suggestion, bool) {
	desc := strings.ToLower(strings.TrimSpace(rec.Description))

	rules := make([]ledger.ClassificationRule, 0, len(c.Profile.Rules))
	for _, r := range c.Profile.Rules {
		if r.Active && r.Type == rec.Type {
			rules = append(rules, r)
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return effectivePriority(rules[i]) < effectivePriority(rules[j])
	})

	for _, r := range rules {
		for _, kw := range r.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(desc, strings.ToLower(kw)) {
				return Suggestion{
					AccountCode: r.DestinationCode,
					AccountName: c.leafName(r.DestinationCode),
					Confidence:  95,
					Reason:      "configured rule",
				}, true
			}
		}
	}
	return Suggestion{}, false
}

func effectivePriority(r ledger.ClassificationRule) int {
	if r.Priority <= 0 {
		return 99
	}
	return r.Priority
}

// bySimilarity looks for ledger entries sharing a long-enough description
// token with the record and a first-line amount within the tolerance, then
// picks the most frequent destination account among them. Ties keep the first
// account encountered in scan order.
func (c *Classifier) bySimilarity(rec Record) (Suggestion, bool) {
	tokens := make([]string, 0)
	for _, tok := range strings.Fields(strings.ToLower(rec.Description)) {
		if len(tok) > c.Opts.MinTokenLen {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return Suggestion{}, false
	}

	similar := make([]ledger.Entry, 0)
	for _, e := range c.History {
		if len(e.Lines) == 0 {
			continue
		}
		units, _ := e.Lines[0].Amount.MinorUnits()
		if math.Abs(float64(units-rec.AmountMinor)) >= float64(rec.AmountMinor)*c.Opts.AmountTolerance {
			continue
		}
		narrative := strings.ToLower(e.Narrative)
		for _, tok := range tokens {
			if strings.Contains(narrative, tok) {
				similar = append(similar, e)
				break
			}
		}
	}
	if len(similar) == 0 {
		return Suggestion{}, false
	}

	type tally struct {
		count int
		name  string
		ids   []uuid.UUID
	}
	counts := make(map[string]*tally)
	order := make([]string, 0)
	for _, e := range similar {
		line, ok := destinationLine(e, rec.Type)
		if !ok {
			continue
		}
		tl := counts[line.AccountCode]
		if tl == nil {
			tl = &tally{name: line.AccountName}
			counts[line.AccountCode] = tl
			order = append(order, line.AccountCode)
		}
		tl.count++
		tl.ids = append(tl.ids, e.ID)
	}
	if len(order) == 0 {
		return Suggestion{}, false
	}

	best := order[0]
	for _, code := range order[1:] {
		if counts[code].count > counts[best].count {
			best = code
		}
	}
	tl := counts[best]
	confidence := int(math.Round(float64(tl.count) / float64(len(similar)) * 100))
	if confidence > 95 {
		confidence = 95
	}
	refs := tl.ids
	if len(refs) > 3 {
		refs = refs[:3]
	}
	return Suggestion{
		AccountCode: best,
		AccountName: tl.name,
		Confidence:  confidence,
		Reason:      "based on " + strconv.Itoa(tl.count) + " similar entries",
		BasedOn:     refs,
	}, true
}

// destinationLine picks the side the heuristic learns from: the expense debit
// (codes under "5.") for outflows, the revenue credit (codes under "4.") for
// inflows.
func destinationLine(e ledger.Entry, flow ledger.FlowType) (ledger.Line, bool) {
	for _, ln := range e.Lines {
		if flow == ledger.FlowOutflow && ln.Side == ledger.SideDebit && strings.HasPrefix(ln.AccountCode, "5.") {
			return ln, true
		}
		if flow == ledger.FlowInflow && ln.Side == ledger.SideCredit && strings.HasPrefix(ln.AccountCode, "4.") {
			return ln, true
		}
	}
	return ledger.Line{}, false
}

// byDefault falls back to the profile's default revenue/expense account.
func (c *Classifier) byDefault(rec Record) (Suggestion, bool) {
	code := c.Profile.DefaultExpenseCode
	if rec.Type == ledger.FlowInflow {
		code = c.Profile.DefaultRevenueCode
	}
	if code == "" {
		return Suggestion{}, false
	}
	return Suggestion{
		AccountCode: code,
		AccountName: c.leafName(code),
		Confidence:  50,
		Reason:      "bank default account",
	}, true
}

func (c *Classifier) leafName(code string) string {
	for _, l := range c.Leaves {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}
