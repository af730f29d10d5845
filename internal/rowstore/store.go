// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package rowstore abstracts a tabbed spreadsheet as named tables of string
// records. Three drivers implement the contract: Google Sheets (matching the
// spreadsheet the bakery actually edits), PostgreSQL, and an in-memory fake
// for tests. No transactionality is provided — callers must tolerate
// read-after-write lag and must not rely on atomic multi-row updates.
package rowstore

import (
	"context"
	"errors"
)

// Table names, matching the spreadsheet tabs.
const (
	TableMenu        = "Menu"
	TableSettings    = "Settings"
	TableOrders      = "Orders"
	TableSubscribers = "Subscribers"
)

// Column names per table. Settings uses SettingName/Value; the rest share
// the common columns below.
const (
	ColName        = "Name"
	ColPrice       = "Price"
	ColStatus      = "Status"
	ColSettingName = "Setting Name"
	ColValue       = "Value"
	ColTimestamp   = "Timestamp"
	ColContact     = "Contact"
	ColSummary     = "OrderSummary"
	ColLogistics   = "Logistics"
	ColDetail      = "LogisticsDetail"
	ColSubIntent   = "SubscriptionIntent"
	ColNotes       = "Notes"
	ColTotal       = "Total"
	ColReference   = "Reference"
)

var (
	// ErrStoreUnavailable means the backing store is unreachable or
	// misconfigured. Menu and settings reads degrade to defaults on it;
	// the order-write path surfaces it.
	ErrStoreUnavailable = errors.New("row store unavailable")

	// ErrNotFound is returned by Find when no row matches.
	ErrNotFound = errors.New("row not found")
)

// Record is one row, keyed by column name. All values are strings, as in
// the spreadsheet.
type Record map[string]string

// RowRef identifies a row for in-place cell updates. Index is the 1-based
// data-row position within the table (the header row is not counted).
type RowRef struct {
	Table string
	Index int
}

// Store is the row-store contract. Every operation is a synchronous
// round-trip to the backing store; implementations honor ctx deadlines.
type Store interface {
	// List returns all data rows of a table in sheet order.
	List(ctx context.Context, table string) ([]Record, error)

	// Append adds one row at the end of a table.
	Append(ctx context.Context, table string, rec Record) error

	// Find returns the first row whose column equals value, with a handle
	// for later updates. Returns ErrNotFound when no row matches.
	Find(ctx context.Context, table, column, value string) (RowRef, Record, error)

	// UpdateCell overwrites a single cell of an existing row.
	UpdateCell(ctx context.Context, ref RowRef, column, value string) error
}
