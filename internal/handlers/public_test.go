package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bakehouse/internal/config"
	"bakehouse/internal/models"
	"bakehouse/internal/notify"
	"bakehouse/internal/order"
	"bakehouse/internal/render"
	"bakehouse/internal/rowstore"
	"bakehouse/internal/settings"
	"bakehouse/internal/subscribers"
)

type captureChannel struct {
	sent []notify.Message
}

func (c *captureChannel) Send(_ context.Context, msg notify.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

// brokenStore fails every operation, simulating an unreachable spreadsheet.
type brokenStore struct{}

func (brokenStore) List(context.Context, string) ([]rowstore.Record, error) {
	return nil, rowstore.ErrStoreUnavailable
}
func (brokenStore) Append(context.Context, string, rowstore.Record) error {
	return rowstore.ErrStoreUnavailable
}
func (brokenStore) Find(context.Context, string, string, string) (rowstore.RowRef, rowstore.Record, error) {
	return rowstore.RowRef{}, nil, rowstore.ErrStoreUnavailable
}
func (brokenStore) UpdateCell(context.Context, rowstore.RowRef, string, string) error {
	return rowstore.ErrStoreUnavailable
}

// newTestPublic wires the full handler group over the given store with the
// clock pinned two days before the seeded bake date.
func newTestPublic(t *testing.T, store rowstore.Store) (*Public, *captureChannel) {
	t.Helper()

	ch := &captureChannel{}
	d, err := notify.NewDispatcher(ch, "orders@bakehouse.local")
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	resolver := settings.NewResolver(store)
	signer := subscribers.NewTokenSigner("test-secret")
	registry := subscribers.NewRegistry(store, subscribers.NewLocalLocker(), d, signer, "http://localhost:8080")
	svc := order.NewService(store, resolver, registry, d, config.DefaultBakeDateFormats)
	svc.Now = func() time.Time {
		return time.Date(2025, time.November, 19, 10, 0, 0, 0, time.UTC)
	}

	rn, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	orig := timeNow
	timeNow = svc.Now
	t.Cleanup(func() { timeNow = orig })

	return NewPublic(store, resolver, svc, registry, rn, config.DefaultBakeDateFormats), ch
}

func seededStore() *rowstore.Memory {
	m := rowstore.NewMemory()
	m.Seed(rowstore.TableSettings, []rowstore.Record{
		{rowstore.ColSettingName: models.SettingBakeDate, rowstore.ColValue: "11/21/2025"},
		{rowstore.ColSettingName: models.SettingPickupWindows, rowstore.ColValue: "Sat 9-11, Sat 3-5"},
	})
	m.Seed(rowstore.TableMenu, []rowstore.Record{
		{rowstore.ColName: "Country Sourdough", rowstore.ColPrice: "$9", rowstore.ColStatus: "Active"},
		{rowstore.ColName: "Seeded Rye", rowstore.ColPrice: "$10", rowstore.ColStatus: "Inactive"},
	})
	return m
}

func orderForm() url.Values {
	return url.Values{
		"name":          {"Ada"},
		"contact":       {"ada@example.com"},
		"order_summary": {"2x Sourdough"},
		"logistics":     {"Pickup"},
		"pickup_window": {"Sat 9-11"},
		"total":         {"$18"},
	}
}

func postForm(h http.HandlerFunc, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestHome(t *testing.T) {
	p, _ := newTestPublic(t, seededStore())

	w := httptest.NewRecorder()
	p.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Country Sourdough") {
		t.Error("home should list active menu items")
	}
	if strings.Contains(body, "Seeded Rye") {
		t.Error("home should hide inactive menu items")
	}
	if !strings.Contains(body, "Thursday, November 20 at 11:59 PM") {
		t.Error("home should show the order deadline")
	}
	if !strings.Contains(body, "Sat 3-5") {
		t.Error("home should list pickup windows")
	}
}

func TestHomeDegradesOnStoreOutage(t *testing.T) {
	p, _ := newTestPublic(t, brokenStore{})

	w := httptest.NewRecorder()
	p.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

	// An unreachable spreadsheet must not take the page down.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "TBD") {
		t.Error("degraded home should show the default bake date")
	}
	if !strings.Contains(body, "Menu is being updated") {
		t.Error("degraded home should show the empty-menu notice")
	}
	// Defaults say the store is open, so the form still renders.
	if !strings.Contains(body, `action="/submit"`) {
		t.Error("degraded home should still render the order form")
	}
}

func TestHomeClosedStore(t *testing.T) {
	m := seededStore()
	m.Seed(rowstore.TableSettings, []rowstore.Record{
		{rowstore.ColSettingName: models.SettingBakeDate, rowstore.ColValue: "11/21/2025"},
		{rowstore.ColSettingName: models.SettingStoreStatus, rowstore.ColValue: "Closed"},
	})
	p, _ := newTestPublic(t, m)

	w := httptest.NewRecorder()
	p.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Contains(w.Body.String(), `action="/submit"`) {
		t.Error("closed store should not render the order form")
	}
}

func TestSubmit(t *testing.T) {
	m := seededStore()
	p, ch := newTestPublic(t, m)

	w := postForm(p.Submit, "/submit", orderForm())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, "reserved") {
		t.Error("on-time submission should render the reserved confirmation")
	}

	rows, _ := m.List(context.Background(), rowstore.TableOrders)
	if len(rows) != 1 {
		t.Fatalf("orders table has %d rows, want 1", len(rows))
	}
	if !strings.Contains(body, rows[0][rowstore.ColReference]) {
		t.Error("confirmation should show the order reference")
	}
	if len(ch.sent) != 1 {
		t.Errorf("sent %d messages, want 1 acknowledgment", len(ch.sent))
	}
}

func TestSubmitMissingContact(t *testing.T) {
	m := seededStore()
	p, _ := newTestPublic(t, m)

	form := orderForm()
	form.Set("contact", "  ")
	w := postForm(p.Submit, "/submit", form)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	rows, _ := m.List(context.Background(), rowstore.TableOrders)
	if len(rows) != 0 {
		t.Errorf("rejected submission appended %d rows", len(rows))
	}
}

func TestSubmitMissingSummary(t *testing.T) {
	p, _ := newTestPublic(t, seededStore())

	form := orderForm()
	form.Set("order_summary", "")
	w := postForm(p.Submit, "/submit", form)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "what you'd like to order") {
		t.Error("response should explain the missing order body")
	}
}

func TestSubmitStoreFailure(t *testing.T) {
	p, ch := newTestPublic(t, brokenStore{})

	w := postForm(p.Submit, "/submit", orderForm())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "issue processing your reservation") {
		t.Error("failure page should carry the friendly message")
	}
	if len(ch.sent) != 0 {
		t.Errorf("unpersisted order sent %d messages", len(ch.sent))
	}
}

func TestSubmitShowsVenmoBlock(t *testing.T) {
	m := seededStore()
	m.Seed(rowstore.TableSettings, []rowstore.Record{
		{rowstore.ColSettingName: models.SettingBakeDate, rowstore.ColValue: "11/21/2025"},
		{rowstore.ColSettingName: models.SettingVenmoHandle, rowstore.ColValue: "@bakehouse-breads"},
	})
	p, _ := newTestPublic(t, m)

	w := postForm(p.Submit, "/submit", orderForm())
	body := w.Body.String()
	if !strings.Contains(body, "venmo.com/bakehouse-breads") {
		t.Error("confirmation should link to Venmo when a handle is set")
	}
	if !strings.Contains(body, "/qr/venmo?ref=") {
		t.Error("confirmation should embed the QR image when a handle is set")
	}
}

func TestSubscribe(t *testing.T) {
	m := seededStore()
	p, ch := newTestPublic(t, m)

	form := url.Values{"contact": {"Ada@Example.com"}}
	w := postForm(p.Subscribe, "/subscribe", form)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "on the bake list") {
		t.Error("signup should confirm list membership")
	}
	if len(ch.sent) != 1 {
		t.Errorf("sent %d messages, want 1 welcome", len(ch.sent))
	}

	// Second signup for the same contact is acknowledged, not duplicated.
	w = postForm(p.Subscribe, "/subscribe", form)
	if w.Code != http.StatusOK {
		t.Fatalf("repeat signup: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already on the bake list") {
		t.Error("repeat signup should say the contact is already subscribed")
	}
	rows, _ := m.List(context.Background(), rowstore.TableSubscribers)
	if len(rows) != 1 {
		t.Errorf("subscribers table has %d rows, want 1", len(rows))
	}
}

func TestSubscribeEmptyContact(t *testing.T) {
	p, _ := newTestPublic(t, seededStore())

	w := postForm(p.Subscribe, "/subscribe", url.Values{"contact": {"   "}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUnsubscribe(t *testing.T) {
	m := seededStore()
	p, _ := newTestPublic(t, m)

	postForm(p.Subscribe, "/subscribe", url.Values{"contact": {"ada@example.com"}})

	// Follow the signed link the registry would have emailed.
	link := p.registry.UnsubscribeURL("ada@example.com")
	target := link[strings.Index(link, "/unsubscribe"):]

	w := httptest.NewRecorder()
	p.Unsubscribe(w, httptest.NewRequest(http.MethodGet, target, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "off the bake list") {
		t.Error("unsubscribe should confirm removal")
	}

	// Row retained, status flipped.
	rows, _ := m.List(context.Background(), rowstore.TableSubscribers)
	if len(rows) != 1 {
		t.Fatalf("subscribers table has %d rows, want 1", len(rows))
	}
	if rows[0][rowstore.ColStatus] != string(models.SubscriberStatusUnsubscribed) {
		t.Errorf("status = %q, want Unsubscribed", rows[0][rowstore.ColStatus])
	}
}

func TestUnsubscribeBadToken(t *testing.T) {
	m := seededStore()
	p, _ := newTestPublic(t, m)
	postForm(p.Subscribe, "/subscribe", url.Values{"contact": {"ada@example.com"}})

	w := httptest.NewRecorder()
	p.Unsubscribe(w, httptest.NewRequest(http.MethodGet, "/unsubscribe?contact=ada%40example.com&token=forged", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	rows, _ := m.List(context.Background(), rowstore.TableSubscribers)
	if rows[0][rowstore.ColStatus] != string(models.SubscriberStatusActive) {
		t.Error("forged token must not flip the subscription status")
	}
}

func TestUnsubscribeUnknownContact(t *testing.T) {
	p, _ := newTestPublic(t, seededStore())

	link := p.registry.UnsubscribeURL("ghost@example.com")
	target := link[strings.Index(link, "/unsubscribe"):]

	w := httptest.NewRecorder()
	p.Unsubscribe(w, httptest.NewRequest(http.MethodGet, target, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "isn't on the bake list") {
		t.Error("unknown contact should get the not-on-list message")
	}
}

func TestVenmoQR(t *testing.T) {
	m := seededStore()
	m.Seed(rowstore.TableSettings, []rowstore.Record{
		{rowstore.ColSettingName: models.SettingBakeDate, rowstore.ColValue: "11/21/2025"},
		{rowstore.ColSettingName: models.SettingVenmoHandle, rowstore.ColValue: "bakehouse-breads"},
	})
	p, _ := newTestPublic(t, m)

	postForm(p.Submit, "/submit", orderForm())
	rows, _ := m.List(context.Background(), rowstore.TableOrders)
	ref := rows[0][rowstore.ColReference]

	w := httptest.NewRecorder()
	p.VenmoQR(w, httptest.NewRequest(http.MethodGet, "/qr/venmo?ref="+ref, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "\x89PNG") {
		t.Error("response is not a PNG")
	}
}

func TestVenmoQRUnknownReference(t *testing.T) {
	p, _ := newTestPublic(t, seededStore())

	w := httptest.NewRecorder()
	p.VenmoQR(w, httptest.NewRequest(http.MethodGet, "/qr/venmo?ref=NOPE1234", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestVenmoQRNoHandle(t *testing.T) {
	m := seededStore()
	p, _ := newTestPublic(t, m)

	postForm(p.Submit, "/submit", orderForm())
	rows, _ := m.List(context.Background(), rowstore.TableOrders)

	w := httptest.NewRecorder()
	p.VenmoQR(w, httptest.NewRequest(http.MethodGet, "/qr/venmo?ref="+rows[0][rowstore.ColReference], nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a configured handle, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	p, _ := newTestPublic(t, seededStore())

	w := httptest.NewRecorder()
	p.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Errorf("health = %d %q", w.Code, w.Body.String())
	}
}
