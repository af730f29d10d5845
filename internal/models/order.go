// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"
)

// OrderTimestampLayout is how submission times are written to the row store.
const OrderTimestampLayout = "01/02/2006 15:04:05"

// OrderStatus is the manual fulfilment state of an order row. The app only
// ever writes Pending; later transitions happen by hand in the spreadsheet.
type OrderStatus string

const OrderStatusPending OrderStatus = "Pending"

// Order is one customer order, created once per form submission and appended
// to the row store as an immutable row.
type Order struct {
	Reference       string      `json:"reference"`
	Name            string      `json:"name"`
	Contact         string      `json:"contact"` // normalized: trimmed, lowercased
	Summary         string      `json:"summary"`
	Logistics       string      `json:"logistics"`
	LogisticsDetail string      `json:"logistics_detail"`
	SubscribeIntent bool        `json:"subscribe_intent"`
	Notes           string      `json:"notes"`
	Total           *float64    `json:"total,omitempty"`
	SubmittedAt     time.Time   `json:"submitted_at"` // assigned server-side, never client-supplied
	Late            bool        `json:"late"`
	Status          OrderStatus `json:"status"`
}

// FormattedTotal returns the order total as "$12.50", or "" when no total
// was supplied.
func (o Order) FormattedTotal() string {
	if o.Total == nil {
		return ""
	}
	return fmt.Sprintf("$%.2f", *o.Total)
}

// FormattedTimestamp returns the submission time in the row-store layout.
func (o Order) FormattedTimestamp() string {
	return o.SubmittedAt.Format(OrderTimestampLayout)
}

// JoinLogisticsDetail builds the composite logistics-detail cell from the
// pickup window and alternate location, dropping blanks.
func JoinLogisticsDetail(pickupWindow, otherLocation string) string {
	var parts []string
	for _, p := range []string{pickupWindow, otherLocation} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}
