// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify renders and sends outbound email through a pluggable
// channel. Delivery failure is reported to callers but is never allowed to
// affect the business outcome — by the time a notification goes out, the
// order or subscriber row is already durable.
package notify

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var emailFS embed.FS

// ErrDeliveryFailed means the channel could not deliver the message.
// Callers log it and move on.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Kind selects which message template to render.
type Kind string

const (
	KindOrderAck Kind = "order_ack"
	KindWelcome  Kind = "welcome"
)

// Context carries the values embedded in a message body.
type Context struct {
	Name           string
	Late           bool
	DeadlineLabel  string
	Reference      string
	Total          string
	UnsubscribeURL string
}

// Message is one outbound email, ready for a channel.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Channel delivers a rendered message to its recipient.
type Channel interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher renders message bodies and hands them to the channel.
type Dispatcher struct {
	channel   Channel
	from      string
	templates *template.Template
}

// NewDispatcher parses the embedded email templates and binds a channel.
func NewDispatcher(channel Channel, from string) (*Dispatcher, error) {
	tmpl, err := template.ParseFS(emailFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Dispatcher{channel: channel, from: from, templates: tmpl}, nil
}

// From returns the configured sender address.
func (d *Dispatcher) From() string {
	return d.from
}

// Send renders the message for kind and delivers it to recipient. Exactly
// one message is sent per call.
func (d *Dispatcher) Send(ctx context.Context, kind Kind, recipient string, tctx Context) error {
	var buf bytes.Buffer
	if err := d.templates.ExecuteTemplate(&buf, string(kind)+".html", tctx); err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}

	msg := Message{
		To:      recipient,
		Subject: subjectFor(kind, tctx),
		HTML:    buf.String(),
	}

	if err := d.channel.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func subjectFor(kind Kind, tctx Context) string {
	switch kind {
	case KindOrderAck:
		if tctx.Late {
			return "We got your order — one thing to note"
		}
		return "Your bread order is in!"
	case KindWelcome:
		return "Welcome to the bake list"
	}
	return "Bakehouse update"
}
