package handlers

import (
	"strings"
	"time"
	"unicode/utf8"

	"bakehouse/internal/order"
)

// timeNow is swapped out in tests to pin the bake-cycle clock.
var timeNow = time.Now

// Validation limits for order form fields. Generous — the point is to stop
// pasted novels and bots, not to police real orders.
const (
	maxNameLen    = 200
	maxContactLen = 200
	maxSummaryLen = 2_000
	maxDetailLen  = 500
	maxNotesLen   = 2_000
)

// validateSubmission checks order form inputs and returns the first error
// found, or "" when the submission is acceptable. Contact presence is
// enforced downstream by the workflow; this only covers field lengths and
// the order body.
func validateSubmission(sub order.Submission) string {
	if strings.TrimSpace(sub.Summary) == "" {
		return "Tell us what you'd like to order."
	}
	if utf8.RuneCountInString(sub.Name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(sub.Contact) > maxContactLen {
		return "Contact is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(sub.Summary) > maxSummaryLen {
		return "Order is too long (max 2,000 characters)."
	}
	if utf8.RuneCountInString(sub.PickupWindow) > maxDetailLen ||
		utf8.RuneCountInString(sub.OtherLocation) > maxDetailLen {
		return "Pickup details are too long (max 500 characters)."
	}
	if utf8.RuneCountInString(sub.Notes) > maxNotesLen {
		return "Notes are too long (max 2,000 characters)."
	}
	return ""
}
