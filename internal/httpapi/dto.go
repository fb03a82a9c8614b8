package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/ledger"
	"github.com/rfarias/partida/internal/statement"
)

type postAccountRequest struct {
	ParentCode string          `json:"parent_code"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Kind       ledger.Kind     `json:"kind"`
	Category   ledger.Category `json:"category,omitempty"`
}

type patchAccountRequest struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type nextCodeResponse struct {
	Code string `json:"code"`
}

type entryLineRequest struct {
	// Account takes a code or free text ("code - name", a name fragment).
	Account     string      `json:"account"`
	Side        ledger.Side `json:"side"`
	AmountMinor int64       `json:"amount_minor"`
}

type entryRequest struct {
	Date      string             `json:"date"`
	Narrative string             `json:"narrative"`
	Document  string             `json:"document,omitempty"`
	Mode      ledger.EntryMode   `json:"mode,omitempty"`
	Lines     []entryLineRequest `json:"lines"`
}

type lineResponse struct {
	ID          uuid.UUID   `json:"id"`
	AccountCode string      `json:"account_code"`
	AccountName string      `json:"account_name"`
	Side        ledger.Side `json:"side"`
	AmountMinor int64       `json:"amount_minor"`
	Currency    string      `json:"currency"`
}

type entryResponse struct {
	ID        uuid.UUID      `json:"id"`
	Date      string         `json:"date"`
	Narrative string         `json:"narrative"`
	Document  string         `json:"document,omitempty"`
	Lines     []lineResponse `json:"lines"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

type patternResponse struct {
	Type       ledger.OperationType `json:"type"`
	Name       string               `json:"name"`
	Icon       string               `json:"icon"`
	Configured bool                 `json:"configured"`
}

type importRequest struct {
	Text      string `json:"text"`
	ProfileID string `json:"profile_id,omitempty"`
}

type importPreviewResponse struct {
	Records []statement.Classified `json:"records"`
	Summary statement.Summary      `json:"summary"`
}

type importResponse struct {
	Created int               `json:"created"`
	Skipped int               `json:"skipped"`
	Summary statement.Summary `json:"summary"`
}

type deriveBudgetRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func toEntryResponse(e ledger.Entry) entryResponse {
	out := entryResponse{
		ID:        e.ID,
		Date:      e.Date,
		Narrative: e.Narrative,
		Document:  e.Document,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		Lines:     make([]lineResponse, 0, len(e.Lines)),
	}
	for _, ln := range e.Lines {
		minor, _ := ln.Amount.MinorUnits()
		out.Lines = append(out.Lines, lineResponse{
			ID:          ln.ID,
			AccountCode: ln.AccountCode,
			AccountName: ln.AccountName,
			Side:        ln.Side,
			AmountMinor: minor,
			Currency:    ln.Amount.Curr().Code(),
		})
	}
	return out
}
