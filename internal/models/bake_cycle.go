// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// BakeCycle is derived from the bake-date setting on every request that
// needs it. It is never persisted.
type BakeCycle struct {
	BakeDate      time.Time // midnight local on the bake day
	Deadline      time.Time // bake date minus one day, 23:59 local
	DeadlineLabel string    // e.g. "Thursday, November 20 at 11:59 PM"
	Guessed       bool      // true when the setting was absent or unparseable
}

// IsLate reports whether an order submitted at t missed the cutoff.
func (b BakeCycle) IsLate(t time.Time) bool {
	return t.After(b.Deadline)
}
