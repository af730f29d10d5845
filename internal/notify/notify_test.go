package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// captureChannel records the messages handed to it.
type captureChannel struct {
	sent []Message
	err  error
}

func (c *captureChannel) Send(_ context.Context, msg Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func TestDispatcherOrderAckOnTime(t *testing.T) {
	ch := &captureChannel{}
	d, err := NewDispatcher(ch, "orders@bakehouse.local")
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	err = d.Send(context.Background(), KindOrderAck, "ada@example.com", Context{
		Name:      "Ada",
		Reference: "A1B2C3D4",
		Total:     "$18.00",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(ch.sent) != 1 {
		t.Fatalf("channel received %d messages, want 1", len(ch.sent))
	}
	msg := ch.sent[0]
	if msg.To != "ada@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if msg.Subject != "Your bread order is in!" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	for _, want := range []string{"Ada", "confirmed for our next bake day", "A1B2C3D4", "$18.00"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestDispatcherOrderAckLate(t *testing.T) {
	ch := &captureChannel{}
	d, err := NewDispatcher(ch, "orders@bakehouse.local")
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	err = d.Send(context.Background(), KindOrderAck, "ada@example.com", Context{
		Name:          "Ada",
		Late:          true,
		DeadlineLabel: "Thursday, November 20 at 11:59 PM",
		Reference:     "A1B2C3D4",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	msg := ch.sent[0]
	if !strings.Contains(msg.HTML, "Thursday, November 20 at 11:59 PM") {
		t.Error("late body missing the deadline label")
	}
	if strings.Contains(msg.HTML, "confirmed for our next bake day") {
		t.Error("late body contains the on-time confirmation")
	}
}

func TestDispatcherWelcome(t *testing.T) {
	ch := &captureChannel{}
	d, err := NewDispatcher(ch, "orders@bakehouse.local")
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	unsub := "http://localhost:8080/unsubscribe?contact=ada%40example.com&token=abc"
	err = d.Send(context.Background(), KindWelcome, "ada@example.com", Context{
		UnsubscribeURL: unsub,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if !strings.Contains(ch.sent[0].HTML, unsub) {
		t.Error("welcome body missing the unsubscribe link")
	}
}

func TestDispatcherChannelFailure(t *testing.T) {
	ch := &captureChannel{err: errors.New("relay down")}
	d, err := NewDispatcher(ch, "orders@bakehouse.local")
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	err = d.Send(context.Background(), KindWelcome, "ada@example.com", Context{})
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Errorf("Send returned %v, want ErrDeliveryFailed", err)
	}
}

func TestAPIChannelSend(t *testing.T) {
	var got apiEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/emails" {
			t.Errorf("path = %q, want /emails", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ch := NewAPIChannel(srv.URL, "test-key", "orders@bakehouse.local")
	err := ch.Send(context.Background(), Message{
		To:      "ada@example.com",
		Subject: "Your bread order is in!",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if auth != "Bearer test-key" {
		t.Errorf("Authorization = %q", auth)
	}
	if len(got.To) != 1 || got.To[0] != "ada@example.com" {
		t.Errorf("To = %v", got.To)
	}
	if got.From != "orders@bakehouse.local" {
		t.Errorf("From = %q", got.From)
	}
}

func TestAPIChannelNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	ch := NewAPIChannel(srv.URL, "bad-key", "orders@bakehouse.local")
	err := ch.Send(context.Background(), Message{To: "ada@example.com"})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q does not mention the status", err)
	}
}
