// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rowstore

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets is the Google Sheets-backed Store. Each table is a tab whose first
// row holds the column headers, exactly as the bakery's spreadsheet is laid
// out. Every operation is an API round-trip; nothing is cached.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheets authenticates with a service-account JSON key and binds to one
// spreadsheet.
func NewSheets(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*Sheets, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("sheets credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Sheets{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// List returns all data rows of a tab, mapped by the header row.
func (s *Sheets) List(ctx context.Context, table string) ([]Record, error) {
	header, rows, err := s.fetch(ctx, table)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, recordFromRow(header, row))
	}
	return out, nil
}

// Append adds one row after the existing data, cells ordered by the tab's
// header. USER_ENTERED keeps the sheet from prefixing values with an
// apostrophe.
func (s *Sheets) Append(ctx context.Context, table string, rec Record) error {
	header, err := s.header(ctx, table)
	if err != nil {
		return err
	}

	row := make([]any, len(header))
	for i, col := range header {
		row[i] = rec[col]
	}

	_, err = s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, table, &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrStoreUnavailable, table, err)
	}
	return nil
}

// Find scans the tab for the first row whose column equals value. Linear,
// which is fine at this data volume.
func (s *Sheets) Find(ctx context.Context, table, column, value string) (RowRef, Record, error) {
	header, rows, err := s.fetch(ctx, table)
	if err != nil {
		return RowRef{}, nil, err
	}

	for i, row := range rows {
		rec := recordFromRow(header, row)
		if rec[column] == value {
			return RowRef{Table: table, Index: i + 1}, rec, nil
		}
	}
	return RowRef{}, nil, ErrNotFound
}

// UpdateCell overwrites one cell, addressed by the tab's header and the
// row handle from Find.
func (s *Sheets) UpdateCell(ctx context.Context, ref RowRef, column, value string) error {
	header, err := s.header(ctx, ref.Table)
	if err != nil {
		return err
	}

	colIdx := -1
	for i, col := range header {
		if col == column {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return fmt.Errorf("%w: column %q not in %s header", ErrNotFound, column, ref.Table)
	}

	// Data row N sits at sheet row N+1 (row 1 is the header).
	cell := fmt.Sprintf("%s!%s%d", ref.Table, columnLetter(colIdx), ref.Index+1)
	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, cell, &sheets.ValueRange{Values: [][]any{{value}}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrStoreUnavailable, cell, err)
	}
	return nil
}

// fetch returns the header and data rows of a tab.
func (s *Sheets) fetch(ctx context.Context, table string) ([]string, [][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, table).
		Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", ErrStoreUnavailable, table, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}
	return headerStrings(resp.Values[0]), resp.Values[1:], nil
}

// header returns just the first row of a tab.
func (s *Sheets) header(ctx context.Context, table string) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, table+"!1:1").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s header: %v", ErrStoreUnavailable, table, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrStoreUnavailable, table)
	}
	return headerStrings(resp.Values[0]), nil
}

func headerStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func recordFromRow(header []string, row []any) Record {
	rec := make(Record, len(header))
	for i, col := range header {
		if col == "" {
			continue
		}
		if i < len(row) {
			rec[col] = fmt.Sprint(row[i])
		} else {
			rec[col] = ""
		}
	}
	return rec
}

// columnLetter converts a zero-based column index to its A1 letter, e.g.
// 0 -> A, 25 -> Z, 26 -> AA.
func columnLetter(idx int) string {
	letters := ""
	for idx >= 0 {
		letters = string(rune('A'+idx%26)) + letters
		idx = idx/26 - 1
	}
	return letters
}
