// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rowstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store used in tests and local development.
// It keeps the same loose semantics as the spreadsheet: no uniqueness,
// no transactions, rows in append order.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]Record
}

// NewMemory creates an empty in-memory row store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]Record)}
}

// Seed replaces a table's rows wholesale. Test helper.
func (m *Memory) Seed(table string, rows []Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]Record, len(rows))
	for i, r := range rows {
		copied[i] = cloneRecord(r)
	}
	m.tables[table] = copied
}

// List returns all rows of a table in append order.
func (m *Memory) List(ctx context.Context, table string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = cloneRecord(r)
	}
	return out, nil
}

// Append adds one row at the end of a table.
func (m *Memory) Append(ctx context.Context, table string, rec Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables[table] = append(m.tables[table], cloneRecord(rec))
	return nil
}

// Find returns the first row whose column equals value.
func (m *Memory) Find(ctx context.Context, table, column, value string) (RowRef, Record, error) {
	if err := ctx.Err(); err != nil {
		return RowRef{}, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, r := range m.tables[table] {
		if r[column] == value {
			return RowRef{Table: table, Index: i + 1}, cloneRecord(r), nil
		}
	}
	return RowRef{}, nil, ErrNotFound
}

// UpdateCell overwrites a single cell of an existing row.
func (m *Memory) UpdateCell(ctx context.Context, ref RowRef, column, value string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[ref.Table]
	if ref.Index < 1 || ref.Index > len(rows) {
		return ErrNotFound
	}
	rows[ref.Index-1][column] = value
	return nil
}

func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
