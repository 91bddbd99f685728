package notifier

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"StockSentry/internal/config"
	"StockSentry/internal/model"
)

// ErrDelivery marks a notification send failure. Logged, never fatal; the
// stored notification record does not depend on delivery succeeding.
var ErrDelivery = errors.New("notification delivery failed")

// defaultSendRetries is the per-message retry budget during a delivery pass.
const defaultSendRetries = 2

// EmailNotifier sends trigger notifications over SMTP with STARTTLS.
type EmailNotifier struct {
	Host     string
	Port     int
	Sender   string
	Password string

	// MaxRetries bounds retry attempts per message in SendTriggers.
	MaxRetries int
}

// NewEmailNotifier builds a notifier from the email configuration.
func NewEmailNotifier(cfg config.EmailConfig) *EmailNotifier {
	return &EmailNotifier{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Sender:     cfg.Sender,
		Password:   cfg.Password,
		MaxRetries: defaultSendRetries,
	}
}

// Configured reports whether credentials are present.
func (n *EmailNotifier) Configured() bool {
	return n.Sender != "" && n.Password != ""
}

func (n *EmailNotifier) addr() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

// Send delivers one message to the recipient.
func (n *EmailNotifier) Send(to, subject, body string) error {
	if !n.Configured() {
		return fmt.Errorf("%w: email service not configured", ErrDelivery)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		n.Sender, to, subject, body)

	auth := smtp.PlainAuth("", n.Sender, n.Password, n.Host)
	if err := smtp.SendMail(n.addr(), auth, n.Sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// SendWithRetry delivers a message with exponential backoff.
func (n *EmailNotifier) SendWithRetry(ctx context.Context, to, subject, body string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := n.Send(to, subject, body); err != nil {
			lastErr = err
			if i == maxRetries {
				break
			}
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] email send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}

// SendTriggers emails one message per trigger event, retrying each with the
// configured budget, and returns the number of successful sends. Failures are
// logged and do not stop the remaining events.
func (n *EmailNotifier) SendTriggers(to string, events []model.TriggerEvent) int {
	if !n.Configured() {
		return 0
	}
	sent := 0
	for _, ev := range events {
		if err := n.SendWithRetry(context.Background(), to, FormatSubject(ev), FormatBody(ev), n.MaxRetries); err != nil {
			log.Printf("[ERROR] send notification for %q: %v", ev.Strategy.Name, err)
			continue
		}
		sent++
	}
	return sent
}

// TestConnection verifies SMTP reachability and credentials without sending.
func (n *EmailNotifier) TestConnection() error {
	if !n.Configured() {
		return fmt.Errorf("%w: email service not configured", ErrDelivery)
	}

	client, err := smtp.Dial(n.addr())
	if err != nil {
		return fmt.Errorf("%w: dial: %v", ErrDelivery, err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: n.Host}); err != nil {
			return fmt.Errorf("%w: starttls: %v", ErrDelivery, err)
		}
	}
	auth := smtp.PlainAuth("", n.Sender, n.Password, n.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("%w: auth: %v", ErrDelivery, err)
	}
	return client.Quit()
}

// SendTestEmail delivers a short verification message to the recipient.
func (n *EmailNotifier) SendTestEmail(to string) error {
	body := fmt.Sprintf("This is a test message confirming the notification setup works.\n\nSender: %s\nSMTP server: %s\nSent at: %s\n",
		n.Sender, n.Host, time.Now().Format("2006-01-02 15:04:05"))
	return n.Send(to, "StockSentry test email", body)
}
