// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// MenuStatus marks whether a menu item is offered this bake cycle.
type MenuStatus string

const (
	MenuStatusActive   MenuStatus = "Active"
	MenuStatusInactive MenuStatus = "Inactive"
)

// MenuItem is a single product on the bakery menu. Items are maintained
// externally in the row store and are read-only to this application.
type MenuItem struct {
	Name   string     `json:"name"`
	Price  string     `json:"price"`
	Status MenuStatus `json:"status"`
}

// IsActive returns true if the item should appear on the public menu.
func (m MenuItem) IsActive() bool {
	return m.Status == MenuStatusActive
}

// ActiveOnly filters a menu down to the items marked Active.
func ActiveOnly(items []MenuItem) []MenuItem {
	var out []MenuItem
	for _, it := range items {
		if it.IsActive() {
			out = append(out, it)
		}
	}
	return out
}
