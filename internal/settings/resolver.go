// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package settings reads the baker-edited Settings tab and derives the
// current bake cycle from it. Settings are read fresh on every call — the
// tab is the baker's control panel and edits must show up immediately.
package settings

import (
	"context"
	"log/slog"
	"time"

	"bakehouse/internal/models"
	"bakehouse/internal/rowstore"
)

// Resolved carries the settings map together with a flag telling the caller
// whether it is real data or the hard-coded fallback. Callers that monitor
// the site can alert on UsedDefault without the request failing.
type Resolved struct {
	Settings    models.Settings
	UsedDefault bool
}

// Resolver loads settings from the row store.
type Resolver struct {
	store rowstore.Store
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store rowstore.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve reads the Settings table, dropping entries with an empty name.
// On any store failure it returns the default mapping instead of an error:
// the menu page must render even when the spreadsheet is unreachable.
func (r *Resolver) Resolve(ctx context.Context) Resolved {
	rows, err := r.store.List(ctx, rowstore.TableSettings)
	if err != nil {
		slog.Warn("settings read failed, serving defaults", "error", err)
		return Resolved{Settings: defaults(), UsedDefault: true}
	}

	s := make(models.Settings, len(rows))
	for _, row := range rows {
		name := row[rowstore.ColSettingName]
		if name == "" {
			continue
		}
		s[name] = row[rowstore.ColValue]
	}
	return Resolved{Settings: s}
}

// defaults is the hard-coded fallback mapping served when the store is
// unreachable or the Settings tab is missing.
func defaults() models.Settings {
	return models.Settings{
		models.SettingBakeDate:    "TBD",
		models.SettingStoreStatus: "Open",
	}
}

// ComputeBakeCycle derives the bake cycle from the bake-date setting.
// The value is parsed against formats in order; first success wins. An
// absent or unparseable date becomes a soft guess of 7 days from now, so
// a deadline always exists. The deadline is bake date minus one day at
// 23:59 in now's location.
func ComputeBakeCycle(s models.Settings, now time.Time, formats []string) models.BakeCycle {
	raw := s.Get(models.SettingBakeDate, "")

	var bakeDate time.Time
	guessed := true
	for _, layout := range formats {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			bakeDate = t
			guessed = false
			break
		}
	}
	if guessed {
		if raw != "" && raw != "TBD" {
			slog.Warn("bake date unparseable, guessing a week out", "value", raw)
		}
		y, m, d := now.AddDate(0, 0, 7).Date()
		bakeDate = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}

	eve := bakeDate.AddDate(0, 0, -1)
	deadline := time.Date(eve.Year(), eve.Month(), eve.Day(), 23, 59, 0, 0, now.Location())

	return models.BakeCycle{
		BakeDate:      bakeDate,
		Deadline:      deadline,
		DeadlineLabel: deadline.Format("Monday, January 2") + " at 11:59 PM",
		Guessed:       guessed,
	}
}
