// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package subscribers maintains the mailing list: one row per normalized
// contact, never deleted, status flipped in place on unsubscribe. The
// dedup check and the append are not atomic in the row store, so Subscribe
// serializes per contact through a Locker before checking membership.
package subscribers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"bakehouse/internal/models"
	"bakehouse/internal/notify"
	"bakehouse/internal/rowstore"
)

// ErrEmptyContact is returned when a blank contact reaches the registry.
var ErrEmptyContact = errors.New("empty contact")

// SubscribeResult reports what Subscribe did.
type SubscribeResult string

const (
	Added          SubscribeResult = "added"
	AlreadyPresent SubscribeResult = "already_present"
)

// UnsubscribeResult reports what Unsubscribe did.
type UnsubscribeResult string

const (
	Updated  UnsubscribeResult = "updated"
	NotFound UnsubscribeResult = "not_found"
)

// Registry manages mailing-list membership.
type Registry struct {
	store      rowstore.Store
	locker     Locker
	dispatcher *notify.Dispatcher
	signer     *TokenSigner
	baseURL    string
	now        func() time.Time
}

// NewRegistry creates a Registry. dispatcher may be nil in tests that don't
// care about welcome mail.
func NewRegistry(store rowstore.Store, locker Locker, dispatcher *notify.Dispatcher, signer *TokenSigner, baseURL string) *Registry {
	return &Registry{
		store:      store,
		locker:     locker,
		dispatcher: dispatcher,
		signer:     signer,
		baseURL:    baseURL,
		now:        time.Now,
	}
}

// Subscribe opts a contact into the mailing list. Idempotent: a second call
// for the same normalized contact returns AlreadyPresent with no side
// effects. On a first signup the welcome message is sent best-effort — a
// mail failure never unwinds the new row.
func (r *Registry) Subscribe(ctx context.Context, contact string) (SubscribeResult, error) {
	contact = models.NormalizeContact(contact)
	if contact == "" {
		return "", ErrEmptyContact
	}

	release, err := r.locker.Acquire(ctx, contact)
	if err != nil {
		// Degraded mode: proceed unserialized rather than refuse signups.
		slog.Warn("subscribe lock unavailable, proceeding without it", "error", err)
	} else {
		defer release()
	}

	_, _, err = r.store.Find(ctx, rowstore.TableSubscribers, rowstore.ColContact, contact)
	switch {
	case err == nil:
		return AlreadyPresent, nil
	case !errors.Is(err, rowstore.ErrNotFound):
		return "", fmt.Errorf("subscriber lookup: %w", err)
	}

	row := rowstore.Record{
		rowstore.ColTimestamp: r.now().Format(models.OrderTimestampLayout),
		rowstore.ColContact:   contact,
		rowstore.ColStatus:    string(models.SubscriberStatusActive),
	}
	if err := r.store.Append(ctx, rowstore.TableSubscribers, row); err != nil {
		return "", fmt.Errorf("subscriber append: %w", err)
	}

	if r.dispatcher != nil {
		err := r.dispatcher.Send(ctx, notify.KindWelcome, contact, notify.Context{
			UnsubscribeURL: r.UnsubscribeURL(contact),
		})
		if err != nil {
			slog.Warn("welcome message failed", "contact", contact, "error", err)
		}
	}

	return Added, nil
}

// Unsubscribe flips a contact's status to Unsubscribed in place. The row is
// retained. An unknown contact is reported as NotFound, not an error.
func (r *Registry) Unsubscribe(ctx context.Context, contact string) (UnsubscribeResult, error) {
	contact = models.NormalizeContact(contact)
	if contact == "" {
		return "", ErrEmptyContact
	}

	ref, _, err := r.store.Find(ctx, rowstore.TableSubscribers, rowstore.ColContact, contact)
	if errors.Is(err, rowstore.ErrNotFound) {
		return NotFound, nil
	}
	if err != nil {
		return "", fmt.Errorf("subscriber lookup: %w", err)
	}

	if err := r.store.UpdateCell(ctx, ref, rowstore.ColStatus, string(models.SubscriberStatusUnsubscribed)); err != nil {
		return "", fmt.Errorf("subscriber update: %w", err)
	}
	return Updated, nil
}

// UnsubscribeURL builds the signed opt-out link embedded in outbound mail.
func (r *Registry) UnsubscribeURL(contact string) string {
	contact = models.NormalizeContact(contact)
	q := url.Values{}
	q.Set("contact", contact)
	q.Set("token", r.signer.Token(contact))
	return r.baseURL + "/unsubscribe?" + q.Encode()
}

// VerifyToken checks an unsubscribe token against a contact.
func (r *Registry) VerifyToken(contact, token string) bool {
	return r.signer.Verify(models.NormalizeContact(contact), token)
}
