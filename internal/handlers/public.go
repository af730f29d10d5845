// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"bakehouse/internal/models"
	"bakehouse/internal/order"
	"bakehouse/internal/payments"
	"bakehouse/internal/render"
	"bakehouse/internal/rowstore"
	"bakehouse/internal/settings"
	"bakehouse/internal/subscribers"
)

// Public groups the storefront handlers. Settings are resolved fresh on
// every request — the Settings tab is the baker's control panel and edits
// must take effect immediately.
type Public struct {
	store    rowstore.Store
	resolver *settings.Resolver
	orders   *order.Service
	registry *subscribers.Registry
	renderer *render.Renderer
	formats  []string
}

// NewPublic creates the public handler group.
func NewPublic(store rowstore.Store, resolver *settings.Resolver, orders *order.Service, registry *subscribers.Registry, renderer *render.Renderer, formats []string) *Public {
	return &Public{
		store:    store,
		resolver: resolver,
		orders:   orders,
		registry: registry,
		renderer: renderer,
		formats:  formats,
	}
}

// Home renders the menu and order page. A store outage degrades to an empty
// menu and default settings rather than an error page — the bakery would
// rather show a bare page than turn customers away.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resolved := p.resolver.Resolve(ctx)
	cycle := settings.ComputeBakeCycle(resolved.Settings, timeNow(), p.formats)

	var menu []models.MenuItem
	rows, err := p.store.List(ctx, rowstore.TableMenu)
	if err != nil {
		slog.Warn("menu read failed, rendering empty menu", "error", err)
	} else {
		for _, row := range rows {
			menu = append(menu, models.MenuItem{
				Name:   row[rowstore.ColName],
				Price:  row[rowstore.ColPrice],
				Status: models.MenuStatus(row[rowstore.ColStatus]),
			})
		}
		menu = models.ActiveOnly(menu)
	}

	p.renderer.Page(w, "home", &render.PageData{
		Title: "Order",
		Data: map[string]any{
			"Menu":          menu,
			"StoreOpen":     resolved.Settings.StoreOpen(),
			"BakeDate":      resolved.Settings.Get(models.SettingBakeDate, "TBD"),
			"DeadlineLabel": cycle.DeadlineLabel,
			"PickupWindows": resolved.Settings.PickupWindows(),
		},
	})
}

// Submit handles the order form POST.
func (p *Public) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sub := order.Submission{
		Name:          r.PostFormValue("name"),
		Contact:       r.PostFormValue("contact"),
		Summary:       r.PostFormValue("order_summary"),
		Logistics:     r.PostFormValue("logistics"),
		PickupWindow:  r.PostFormValue("pickup_window"),
		OtherLocation: r.PostFormValue("other_location"),
		Notes:         r.PostFormValue("notes"),
		TotalRaw:      r.PostFormValue("total"),
		Subscribe:     r.PostFormValue("subscribe") != "",
	}

	if msg := validateSubmission(sub); msg != "" {
		w.WriteHeader(http.StatusBadRequest)
		p.renderer.Page(w, "message", &render.PageData{
			Title: "Something's missing",
			Data:  map[string]any{"Heading": "Something's missing", "Body": msg},
		})
		return
	}

	ack, err := p.orders.Submit(ctx, sub)
	switch {
	case errors.Is(err, order.ErrMissingContact):
		w.WriteHeader(http.StatusBadRequest)
		p.renderer.Page(w, "message", &render.PageData{
			Title: "Something's missing",
			Data:  map[string]any{"Heading": "Something's missing", "Body": "We need an email or phone number to confirm your order."},
		})
		return
	case err != nil:
		slog.Error("order submission failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		p.renderer.Page(w, "message", &render.PageData{
			Title: "Order not saved",
			Data: map[string]any{
				"Heading": "We couldn't save your order",
				"Body":    "There was an issue processing your reservation. Please try again in a minute, or reach out to us directly.",
			},
		})
		return
	}

	data := map[string]any{
		"Late":          ack.Order.Late,
		"BakeDate":      ack.Cycle.BakeDate.Format("01/02/2006"),
		"DeadlineLabel": ack.Cycle.DeadlineLabel,
		"Reference":     ack.Order.Reference,
		"Summary":       ack.Order.Summary,
		"Logistics":     ack.Order.LogisticsDetail,
		"Total":         ack.Order.FormattedTotal(),
	}

	// The payment block only shows when the baker configured a handle.
	resolved := p.resolver.Resolve(ctx)
	if handle := resolved.Settings.Get(models.SettingVenmoHandle, ""); handle != "" {
		note := "Bread order " + ack.Order.Reference
		if link, err := payments.VenmoLink(handle, ack.Order.Total, note); err == nil {
			data["VenmoLink"] = link
		}
	}

	p.renderer.Page(w, "success", &render.PageData{Title: "Order received", Data: data})
}

// Subscribe handles the mailing-list signup form.
func (p *Public) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := p.registry.Subscribe(r.Context(), r.PostFormValue("contact"))
	switch {
	case errors.Is(err, subscribers.ErrEmptyContact):
		w.WriteHeader(http.StatusBadRequest)
		p.renderer.Page(w, "message", &render.PageData{
			Title: "Something's missing",
			Data:  map[string]any{"Heading": "Something's missing", "Body": "We need an email or phone number to add you to the bake list."},
		})
		return
	case err != nil:
		slog.Error("subscribe failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		p.renderer.Page(w, "message", &render.PageData{
			Title: "Signup failed",
			Data:  map[string]any{"Heading": "That didn't work", "Body": "We couldn't add you to the list just now. Please try again in a minute."},
		})
		return
	}

	body := "You're on the bake list. Watch for the next menu!"
	if result == subscribers.AlreadyPresent {
		body = "You're already on the bake list. See you at the next bake!"
	}
	p.renderer.Page(w, "message", &render.PageData{
		Title: "You're on the list",
		Data:  map[string]any{"Heading": "You're on the list", "Body": body},
	})
}

// Unsubscribe handles the signed opt-out link from outbound mail. A missing
// or forged token is treated the same as an unknown contact.
func (p *Public) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	contact := r.URL.Query().Get("contact")
	token := r.URL.Query().Get("token")

	if !p.registry.VerifyToken(contact, token) {
		w.WriteHeader(http.StatusBadRequest)
		p.renderer.Page(w, "message", &render.PageData{
			Title: "Link expired",
			Data:  map[string]any{"Heading": "That link didn't work", "Body": "This unsubscribe link is invalid. Reply to any of our emails and we'll take you off by hand."},
		})
		return
	}

	result, err := p.registry.Unsubscribe(r.Context(), contact)
	if err != nil {
		slog.Error("unsubscribe failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		p.renderer.Page(w, "message", &render.PageData{
			Title: "Something went wrong",
			Data:  map[string]any{"Heading": "Something went wrong", "Body": "We couldn't update the list just now. Please try the link again in a minute."},
		})
		return
	}

	body := "You're off the bake list. No more emails from us."
	if result == subscribers.NotFound {
		body = "That address isn't on the bake list."
	}
	p.renderer.Page(w, "message", &render.PageData{
		Title: "Unsubscribed",
		Data:  map[string]any{"Heading": "Unsubscribed", "Body": body},
	})
}

// VenmoQR serves the payment QR code PNG for a recorded order.
func (p *Public) VenmoQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ref := r.URL.Query().Get("ref")
	if ref == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ord, err := p.orders.FindByReference(ctx, ref)
	if errors.Is(err, rowstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("order lookup for qr failed", "reference", ref, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resolved := p.resolver.Resolve(ctx)
	handle := resolved.Settings.Get(models.SettingVenmoHandle, "")
	png, err := payments.VenmoQR(handle, ord.Total, "Bread order "+ord.Reference)
	if errors.Is(err, payments.ErrNoHandle) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("qr code generation failed", "reference", ref, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Health is the liveness probe.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
