// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package payments builds Venmo payment links and QR codes for order
// pickups. Payments themselves happen entirely on Venmo's side.
package payments

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrNoHandle means no Venmo handle is configured, so no payment link
// can be built. Callers hide the payment block in that case.
var ErrNoHandle = errors.New("no venmo handle configured")

// VenmoLink returns a venmo.com payment URL for the given handle,
// pre-filled with the amount (when known) and a note. A leading "@" on
// the handle is accepted and stripped.
func VenmoLink(handle string, amount *float64, note string) (string, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return "", ErrNoHandle
	}

	q := url.Values{}
	q.Set("txn", "pay")
	if amount != nil && *amount > 0 {
		q.Set("amount", fmt.Sprintf("%.2f", *amount))
	}
	if note != "" {
		q.Set("note", note)
	}

	u := url.URL{
		Scheme:   "https",
		Host:     "venmo.com",
		Path:     "/" + handle,
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// VenmoQR returns a PNG QR code encoding the payment link.
func VenmoQR(handle string, amount *float64, note string) ([]byte, error) {
	link, err := VenmoLink(handle, amount, note)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(link, qrcode.Medium, 256)
}
