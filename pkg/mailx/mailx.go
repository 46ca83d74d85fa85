// Package mailx dispatches the out-of-band messages the password-reset flow
// depends on. Dispatch is fire-and-forget with respect to request latency,
// but delivery errors are always surfaced to the caller.
package mailx

import (
	"fmt"
	"net/smtp"
	"strings"
	"sync"
)

// Dispatcher sends a single message to a recipient address.
type Dispatcher interface {
	Send(to, subject, body string) error
}

// SMTPConfig describes the upstream relay for the SMTP dispatcher.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPDispatcher delivers mail through a plain SMTP relay.
type SMTPDispatcher struct {
	cfg SMTPConfig
}

func NewSMTPDispatcher(cfg SMTPConfig) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg}
}

func (d *SMTPDispatcher) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)

	var auth smtp.Auth
	if d.cfg.Username != "" {
		auth = smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	}

	msg := strings.Join([]string{
		"From: " + d.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, d.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("mailx: delivery to %s failed: %w", to, err)
	}
	return nil
}

// Recorder is an in-memory Dispatcher for tests. It records every sent
// message and can be primed to fail.
type Recorder struct {
	mu   sync.Mutex
	sent []Message

	// FailWith, when non-nil, is returned from Send without recording.
	FailWith error
}

// Message is a captured outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

func (r *Recorder) Send(to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}
	r.sent = append(r.sent, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}
