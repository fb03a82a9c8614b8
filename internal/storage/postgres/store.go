// Package postgres provides a pgx-backed store. The account tree is kept as
// an adjacency list keyed by parent_id; settings and budgets are stored as
// JSONB blobs. Schema lives under db/migrations.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rfarias/partida/internal/budget"
	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// --- Account tree ---

type accountRow struct {
	acc      ledger.Account
	parentID uuid.NullUUID
}

// Tree loads all account rows and rebuilds the hierarchy from parent_id.
func (s *Store) Tree(ctx context.Context) ([]ledger.Account, error) {
	rows, err := s.pool.Query(ctx, `
		select id, parent_id, code, name, kind, category, active
		from accounts
		order by code asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make([]accountRow, 0)
	for rows.Next() {
		var r accountRow
		if err := rows.Scan(&r.acc.ID, &r.parentID, &r.acc.Code, &r.acc.Name, &r.acc.Kind, &r.acc.Category, &r.acc.Active); err != nil {
			return nil, err
		}
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buildTree(all), nil
}

// buildTree assembles the hierarchy from the adjacency rows, children sorted
// by code at each level.
func buildTree(all []accountRow) []ledger.Account {
	children := make(map[uuid.UUID][]accountRow)
	roots := make([]accountRow, 0)
	for _, r := range all {
		if r.parentID.Valid {
			children[r.parentID.UUID] = append(children[r.parentID.UUID], r)
		} else {
			roots = append(roots, r)
		}
	}
	var assemble func(r accountRow) ledger.Account
	assemble = func(r accountRow) ledger.Account {
		node := r.acc
		kids := children[node.ID]
		sort.Slice(kids, func(i, j int) bool { return kids[i].acc.Code < kids[j].acc.Code })
		for _, k := range kids {
			node.Children = append(node.Children, assemble(k))
		}
		return node
	}
	out := make([]ledger.Account, 0, len(roots))
	sort.Slice(roots, func(i, j int) bool { return roots[i].acc.Code < roots[j].acc.Code })
	for _, r := range roots {
		out = append(out, assemble(r))
	}
	return out
}

// SaveTree replaces the stored tree wholesale inside a transaction. The tree
// is small (a personal chart of accounts) so a full rewrite keeps the store
// trivially consistent with the immutable in-memory edits.
func (s *Store) SaveTree(ctx context.Context, tree []ledger.Account) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `delete from accounts`); err != nil {
		return err
	}
	var insert func(parentID uuid.NullUUID, nodes []ledger.Account) error
	insert = func(parentID uuid.NullUUID, nodes []ledger.Account) error {
		for _, n := range nodes {
			if _, err := tx.Exec(ctx, `
				insert into accounts (id, parent_id, code, name, kind, category, active)
				values ($1,$2,$3,$4,$5,$6,$7)
			`, n.ID, parentID, n.Code, n.Name, n.Kind, n.Category, n.Active); err != nil {
				return err
			}
			if err := insert(uuid.NullUUID{UUID: n.ID, Valid: true}, n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(uuid.NullUUID{}, tree); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// --- Entries ---

// Entries returns all entries with lines populated, ordered asc by (date, id).
func (s *Store) Entries(ctx context.Context) ([]ledger.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		select id, date, narrative, document, created_at, updated_at
		from entries
		order by date asc, id asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]ledger.Entry, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(&e.ID, &e.Date, &e.Narrative, &e.Document, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	lineRows, err := s.pool.Query(ctx, `
		select id, entry_id, account_code, account_name, side, amount_minor, currency
		from entry_lines
		where entry_id = any($1)
		order by id asc
	`, ids)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	idx := make(map[uuid.UUID]*ledger.Entry, len(entries))
	for i := range entries {
		idx[entries[i].ID] = &entries[i]
	}
	for lineRows.Next() {
		var entryID uuid.UUID
		ln, err := scanLine(lineRows, &entryID)
		if err != nil {
			return nil, err
		}
		if e := idx[entryID]; e != nil {
			e.Lines = append(e.Lines, ln)
		}
	}
	return entries, lineRows.Err()
}

// EntryByID returns one entry with lines populated.
func (s *Store) EntryByID(ctx context.Context, id uuid.UUID) (ledger.Entry, error) {
	var e ledger.Entry
	err := s.pool.QueryRow(ctx, `
		select id, date, narrative, document, created_at, updated_at
		from entries
		where id = $1
	`, id).Scan(&e.ID, &e.Date, &e.Narrative, &e.Document, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Entry{}, errs.ErrNotFound
	}
	if err != nil {
		return ledger.Entry{}, err
	}

	rows, err := s.pool.Query(ctx, `
		select id, entry_id, account_code, account_name, side, amount_minor, currency
		from entry_lines
		where entry_id = $1
		order by id asc
	`, id)
	if err != nil {
		return ledger.Entry{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var entryID uuid.UUID
		ln, err := scanLine(rows, &entryID)
		if err != nil {
			return ledger.Entry{}, err
		}
		e.Lines = append(e.Lines, ln)
	}
	return e, rows.Err()
}

func scanLine(rows pgx.Rows, entryID *uuid.UUID) (ledger.Line, error) {
	var ln ledger.Line
	var minor int64
	var currency string
	if err := rows.Scan(&ln.ID, entryID, &ln.AccountCode, &ln.AccountName, &ln.Side, &minor, &currency); err != nil {
		return ledger.Line{}, err
	}
	amt, err := money.NewAmountFromMinorUnits(currency, minor)
	if err != nil {
		return ledger.Line{}, err
	}
	ln.Amount = amt
	return ln, nil
}

// SaveEntry upserts the entry header and rewrites its line set in one
// transaction.
func (s *Store) SaveEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ledger.Entry{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		insert into entries (id, date, narrative, document, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6)
		on conflict (id) do update
		set date=excluded.date, narrative=excluded.narrative,
		    document=excluded.document, updated_at=excluded.updated_at
	`, e.ID, e.Date, e.Narrative, e.Document, e.CreatedAt, e.UpdatedAt); err != nil {
		return ledger.Entry{}, err
	}
	if _, err := tx.Exec(ctx, `delete from entry_lines where entry_id = $1`, e.ID); err != nil {
		return ledger.Entry{}, err
	}
	for _, ln := range e.Lines {
		minor, _ := ln.Amount.MinorUnits()
		if _, err := tx.Exec(ctx, `
			insert into entry_lines (id, entry_id, account_code, account_name, side, amount_minor, currency)
			values ($1,$2,$3,$4,$5,$6,$7)
		`, ln.ID, e.ID, ln.AccountCode, ln.AccountName, ln.Side, minor, ln.Amount.Curr().Code()); err != nil {
			return ledger.Entry{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return ledger.Entry{}, err
	}
	return e, nil
}

// DeleteEntry removes an entry and its lines.
func (s *Store) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	ct, err := s.pool.Exec(ctx, `delete from entries where id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Settings ---

// Settings loads the single settings blob; an empty store yields the zero
// value.
func (s *Store) Settings(ctx context.Context) (ledger.Settings, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `select data from settings where id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Settings{}, nil
	}
	if err != nil {
		return ledger.Settings{}, err
	}
	var cfg ledger.Settings
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return ledger.Settings{}, err
	}
	return cfg, nil
}

func (s *Store) SaveSettings(ctx context.Context, cfg ledger.Settings) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		insert into settings (id, data) values (1, $1)
		on conflict (id) do update set data = excluded.data
	`, raw)
	return err
}

// --- Budgets ---

func (s *Store) Budgets(ctx context.Context) ([]budget.Budget, error) {
	rows, err := s.pool.Query(ctx, `select data from budgets order by id asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]budget.Budget, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var b budget.Budget
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) BudgetByID(ctx context.Context, id uuid.UUID) (budget.Budget, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `select data from budgets where id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return budget.Budget{}, errs.ErrNotFound
	}
	if err != nil {
		return budget.Budget{}, err
	}
	var b budget.Budget
	if err := json.Unmarshal(raw, &b); err != nil {
		return budget.Budget{}, err
	}
	return b, nil
}

func (s *Store) SaveBudget(ctx context.Context, b budget.Budget) (budget.Budget, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return budget.Budget{}, err
	}
	_, err = s.pool.Exec(ctx, `
		insert into budgets (id, data) values ($1, $2)
		on conflict (id) do update set data = excluded.data
	`, b.ID, raw)
	if err != nil {
		return budget.Budget{}, err
	}
	return b, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	ct, err := s.pool.Exec(ctx, `delete from budgets where id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
