package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SMTPChannel delivers mail by speaking SMTP directly to a relay.
type SMTPChannel struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPChannel creates a direct-SMTP mail channel.
func NewSMTPChannel(host, port, username, password, from string) *SMTPChannel {
	return &SMTPChannel{host: host, port: port, username: username, password: password, from: from}
}

// Send dials the relay and submits the message. The dial respects the ctx
// deadline; the SMTP conversation itself is bounded by the relay.
func (c *SMTPChannel) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(c.host, c.port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, c.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if c.username != "" {
		auth := smtp.PlainAuth("", c.username, c.password, c.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(c.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := wc.Write([]byte(c.encode(msg))); err != nil {
		wc.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	return client.Quit()
}

// encode builds the RFC 5322 message with an HTML body.
func (c *SMTPChannel) encode(msg Message) string {
	return strings.Join([]string{
		"From: " + c.from,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		msg.HTML,
	}, "\r\n")
}
