// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rowstore

import (
	"context"
	"time"
)

// Timeout decorates a Store with a per-operation deadline, so a hung
// backend turns into ErrStoreUnavailable instead of a stuck request.
type Timeout struct {
	inner Store
	limit time.Duration
}

// WithTimeout wraps store so every operation runs under limit.
func WithTimeout(store Store, limit time.Duration) *Timeout {
	return &Timeout{inner: store, limit: limit}
}

func (t *Timeout) List(ctx context.Context, table string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, t.limit)
	defer cancel()
	return t.inner.List(ctx, table)
}

func (t *Timeout) Append(ctx context.Context, table string, rec Record) error {
	ctx, cancel := context.WithTimeout(ctx, t.limit)
	defer cancel()
	return t.inner.Append(ctx, table, rec)
}

func (t *Timeout) Find(ctx context.Context, table, column, value string) (RowRef, Record, error) {
	ctx, cancel := context.WithTimeout(ctx, t.limit)
	defer cancel()
	return t.inner.Find(ctx, table, column, value)
}

func (t *Timeout) UpdateCell(ctx context.Context, ref RowRef, column, value string) error {
	ctx, cancel := context.WithTimeout(ctx, t.limit)
	defer cancel()
	return t.inner.UpdateCell(ctx, ref, column, value)
}
