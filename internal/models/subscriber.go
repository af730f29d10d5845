package models

import (
	"strings"
	"time"
)

// SubscriberStatus tracks mailing-list membership state. Rows are never
// deleted; unsubscribing flips the status in place.
type SubscriberStatus string

const (
	SubscriberStatusActive       SubscriberStatus = "Active"
	SubscriberStatusUnsubscribed SubscriberStatus = "Unsubscribed"
)

// Subscriber is one mailing-list member, keyed by normalized contact address.
type Subscriber struct {
	Contact    string           `json:"contact"`
	SignedUpAt time.Time        `json:"signed_up_at"`
	Status     SubscriberStatus `json:"status"`
}

// NormalizeContact canonicalizes a contact address: trims surrounding
// whitespace and lowercases. " Bob@Example.com " and "bob@example.com"
// resolve to the same registry entry.
func NormalizeContact(contact string) string {
	return strings.ToLower(strings.TrimSpace(contact))
}
