// Package statement parses delimited bank-statement text and classifies each
// movement into a destination chart account using configured keyword rules, a
// historical-frequency heuristic and per-bank defaults.
package statement

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rfarias/partida/internal/ledger"
)

// Record is one normalized statement movement. AmountMinor is always the
// absolute value; Type carries the direction.
type Record struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	AmountMinor int64           `json:"amount_minor"`
	Type        ledger.FlowType `json:"type"`
}

// Summary counts accepted versus silently dropped rows so callers can
// sanity-check import losses. Bank exports routinely include garbage rows,
// so a dropped row is not an error.
type Summary struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

var (
	reISODate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reBRDate  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	reHeader  = regexp.MustCompile(`(?i)data|date|descri|histor|valor|amount|tipo|type`)
)

// Parse splits text into statement records. Lines are separated by CRLF/LF;
// the column delimiter is ';' when present anywhere in the text, ',' otherwise.
// A first line that loosely looks like a header is skipped. Rows whose date,
// description or amount cannot be parsed are dropped and counted in Summary.
func Parse(text string) ([]Record, Summary) {
	var sum Summary
	lines := make([]string, 0)
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(strings.TrimSuffix(l, "\r"))
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, sum
	}

	delim := ","
	if strings.Contains(text, ";") {
		delim = ";"
	}

	out := make([]Record, 0, len(lines))
	for i, line := range lines {
		cols := strings.Split(line, delim)
		for j := range cols {
			cols[j] = strings.TrimSpace(cols[j])
		}
		if i == 0 && looksLikeHeader(cols) {
			continue
		}

		var date, desc, rawAmount, rawType string
		if len(cols) > 0 {
			date = normalizeDate(cols[0])
		}
		if len(cols) > 1 {
			desc = cols[1]
		}
		if len(cols) > 2 {
			rawAmount = cols[2]
		}
		if len(cols) > 3 {
			rawType = cols[3]
		}

		units, ok := parseAmount(rawAmount)
		if date == "" || desc == "" || !ok {
			sum.Rejected++
			continue
		}

		flow := detectFlow(rawType, units)
		if units < 0 {
			units = -units
		}
		out = append(out, Record{Date: date, Description: desc, AmountMinor: units, Type: flow})
		sum.Accepted++
	}
	return out, sum
}

func looksLikeHeader(cols []string) bool {
	for _, c := range cols {
		if reHeader.MatchString(c) {
			return true
		}
	}
	return false
}

// normalizeDate accepts YYYY-MM-DD as-is and rewrites DD/MM/YYYY; anything
// else yields "".
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if reISODate.MatchString(s) {
		return s
	}
	if reBRDate.MatchString(s) {
		parts := strings.Split(s, "/")
		return parts[2] + "-" + parts[1] + "-" + parts[0]
	}
	return ""
}

// parseAmount reads a pt-BR formatted amount ("1.234,56") into signed minor
// units.
func parseAmount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return int64(math.Round(v * 100)), true
}

// detectFlow sniffs the direction from the optional type token, falling back
// to the amount sign. "saida"/"debito"/"-" style tokens mark outflows,
// "entrada"/"credito"/"+" mark inflows.
func detectFlow(token string, units int64) ledger.FlowType {
	t := strings.ToLower(strings.TrimSpace(token))
	switch {
	case strings.HasPrefix(t, "s"), strings.HasPrefix(t, "d"), t == "-":
		return ledger.FlowOutflow
	case strings.HasPrefix(t, "e"), strings.HasPrefix(t, "c"), t == "+":
		return ledger.FlowInflow
	}
	if units < 0 {
		return ledger.FlowOutflow
	}
	return ledger.FlowInflow
}
