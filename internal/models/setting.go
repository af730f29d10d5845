// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// Well-known setting names. The Settings tab is free-form key/value, edited
// by the baker, so missing keys are normal and always have a fallback.
const (
	SettingBakeDate      = "Next Bake Date"
	SettingPickupWindows = "Pickup Windows"
	SettingStoreStatus   = "Store Status"
	SettingVenmoHandle   = "Venmo Handle"
)

// Settings is the key/value configuration read from the Settings tab.
type Settings map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (s Settings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}

// PickupWindows splits the comma-separated pickup window list into trimmed
// entries. Returns nil when the setting is absent or blank.
func (s Settings) PickupWindows() []string {
	raw := s.Get(SettingPickupWindows, "")
	if raw == "" {
		return nil
	}
	var windows []string
	for _, part := range strings.Split(raw, ",") {
		if w := strings.TrimSpace(part); w != "" {
			windows = append(windows, w)
		}
	}
	return windows
}

// StoreOpen reports whether the store-status flag allows new orders.
// Absent means open — the baker only sets the flag to pause orders.
func (s Settings) StoreOpen() bool {
	return !strings.EqualFold(s.Get(SettingStoreStatus, "Open"), "Closed")
}
