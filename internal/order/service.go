// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package order implements the order-intake workflow: validate and normalize
// the submitted form, timestamp it server-side, classify it against the bake
// cutoff, persist it, then acknowledge. The append happens before any email
// so an order is never acknowledged without being durably recorded; once the
// row is written, nothing downstream may fail the request.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bakehouse/internal/models"
	"bakehouse/internal/notify"
	"bakehouse/internal/rowstore"
	"bakehouse/internal/settings"
	"bakehouse/internal/subscribers"
)

var (
	// ErrMissingContact rejects submissions without a contact address.
	// A blank contact would rot the orders tab and the mailing list.
	ErrMissingContact = errors.New("missing contact")

	// ErrPersistenceFailed means the order row could not be appended.
	// The one unacceptable outcome is silently dropping an order, so this
	// is the only failure that surfaces to the customer.
	ErrPersistenceFailed = errors.New("order could not be saved")
)

// Submission is the raw order form input.
type Submission struct {
	Name          string
	Contact       string
	Summary       string
	Logistics     string
	PickupWindow  string
	OtherLocation string
	Notes         string
	TotalRaw      string
	Subscribe     bool
}

// Acknowledgment is the workflow outcome handed back to the rendering layer.
type Acknowledgment struct {
	Order models.Order
	Cycle models.BakeCycle
}

// Service wires the workflow's collaborators.
type Service struct {
	store      rowstore.Store
	resolver   *settings.Resolver
	registry   *subscribers.Registry
	dispatcher *notify.Dispatcher
	formats    []string

	// Now is the workflow clock. Tests pin it to exercise the cutoff.
	Now func() time.Time
}

// NewService creates the order workflow.
func NewService(store rowstore.Store, resolver *settings.Resolver, registry *subscribers.Registry, dispatcher *notify.Dispatcher, formats []string) *Service {
	return &Service{
		store:      store,
		resolver:   resolver,
		registry:   registry,
		dispatcher: dispatcher,
		formats:    formats,
		Now:        time.Now,
	}
}

// Submit runs the intake workflow for one form submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Acknowledgment, error) {
	contact := models.NormalizeContact(sub.Contact)
	if contact == "" {
		return nil, ErrMissingContact
	}

	// One captured instant: the persisted timestamp and the lateness check
	// must agree even if the wall clock crosses the deadline mid-request.
	submittedAt := s.Now()

	resolved := s.resolver.Resolve(ctx)
	cycle := settings.ComputeBakeCycle(resolved.Settings, submittedAt, s.formats)

	ord := models.Order{
		Reference:       newReference(),
		Name:            strings.TrimSpace(sub.Name),
		Contact:         contact,
		Summary:         strings.TrimSpace(sub.Summary),
		Logistics:       strings.TrimSpace(sub.Logistics),
		LogisticsDetail: models.JoinLogisticsDetail(sub.PickupWindow, sub.OtherLocation),
		SubscribeIntent: sub.Subscribe,
		Notes:           strings.TrimSpace(sub.Notes),
		Total:           parseTotal(sub.TotalRaw),
		SubmittedAt:     submittedAt,
		Late:            cycle.IsLate(submittedAt),
		Status:          models.OrderStatusPending,
	}

	if err := s.store.Append(ctx, rowstore.TableOrders, orderRow(ord)); err != nil {
		slog.Error("order append failed", "reference", ord.Reference, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	// From here on the order is durable; everything below is best-effort.

	if ord.SubscribeIntent {
		if _, err := s.registry.Subscribe(ctx, contact); err != nil {
			slog.Warn("opt-in during order failed", "contact", contact, "error", err)
		}
	}

	err := s.dispatcher.Send(ctx, notify.KindOrderAck, contact, notify.Context{
		Name:          ord.Name,
		Late:          ord.Late,
		DeadlineLabel: cycle.DeadlineLabel,
		Reference:     ord.Reference,
		Total:         ord.FormattedTotal(),
	})
	if err != nil {
		slog.Warn("order acknowledgment mail failed", "reference", ord.Reference, "error", err)
	}

	slog.Info("order received",
		"reference", ord.Reference,
		"late", ord.Late,
		"subscribe", ord.SubscribeIntent,
	)

	return &Acknowledgment{Order: ord, Cycle: cycle}, nil
}

// FindByReference looks an order up by its reference code. Used by the
// payment QR endpoint.
func (s *Service) FindByReference(ctx context.Context, reference string) (models.Order, error) {
	_, rec, err := s.store.Find(ctx, rowstore.TableOrders, rowstore.ColReference, reference)
	if err != nil {
		return models.Order{}, err
	}
	return orderFromRow(rec), nil
}

// orderRow flattens an order into its persisted record.
func orderRow(o models.Order) rowstore.Record {
	intent := "No"
	if o.SubscribeIntent {
		intent = "Yes"
	}
	return rowstore.Record{
		rowstore.ColTimestamp: o.FormattedTimestamp(),
		rowstore.ColName:      o.Name,
		rowstore.ColContact:   o.Contact,
		rowstore.ColSummary:   o.Summary,
		rowstore.ColLogistics: o.Logistics,
		rowstore.ColDetail:    o.LogisticsDetail,
		rowstore.ColSubIntent: intent,
		rowstore.ColNotes:     o.Notes,
		rowstore.ColTotal:     o.FormattedTotal(),
		rowstore.ColStatus:    string(o.Status),
		rowstore.ColReference: o.Reference,
	}
}

// orderFromRow rebuilds the fields the QR endpoint needs from a record.
func orderFromRow(rec rowstore.Record) models.Order {
	o := models.Order{
		Reference: rec[rowstore.ColReference],
		Name:      rec[rowstore.ColName],
		Contact:   rec[rowstore.ColContact],
		Summary:   rec[rowstore.ColSummary],
	}
	o.Total = parseTotal(rec[rowstore.ColTotal])
	return o
}

// parseTotal reads an optional dollar amount; anything unparseable is
// treated as absent rather than an error.
func parseTotal(raw string) *float64 {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// newReference returns a short order reference like "3FA85F64".
func newReference() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
