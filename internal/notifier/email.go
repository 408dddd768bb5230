package notifier

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
)

// SendMailFunc delivers a composed message. It matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier delivers alert bodies over SMTP.
type EmailNotifier struct {
	Host     string
	Port     int
	From     string
	Password string
	To       string

	send SendMailFunc
}

// NewEmailNotifier creates an SMTP sink. Port 465 uses implicit TLS,
// any other port goes through smtp.SendMail (STARTTLS when offered).
func NewEmailNotifier(host string, port int, from, password, to string) *EmailNotifier {
	e := &EmailNotifier{Host: host, Port: port, From: from, Password: password, To: to}
	e.send = e.deliver
	return e
}

// WithSender replaces the delivery function.
func (e *EmailNotifier) WithSender(fn SendMailFunc) *EmailNotifier {
	e.send = fn
	return e
}

func (e *EmailNotifier) addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Compose renders an RFC 5322 message with a plain-text body.
func (e *EmailNotifier) Compose(subject, body string, now time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetSubject(subject)
	h.SetAddressList("From", []*mail.Address{{Address: e.From}})
	h.SetAddressList("To", []*mail.Address{{Address: e.To}})
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create writer: %w", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}
	return buf.Bytes(), nil
}

// SendWithRetry composes and delivers one message, retrying with backoff.
func (e *EmailNotifier) SendWithRetry(ctx context.Context, subject, body string, maxRetries int) error {
	msg, err := e.Compose(subject, body, time.Now())
	if err != nil {
		return err
	}
	auth := smtp.PlainAuth("", e.From, e.Password, e.Host)
	return retry(ctx, "email", maxRetries, 2*time.Second, func() error {
		return e.send(e.addr(), auth, e.From, []string{e.To}, msg)
	})
}

func (e *EmailNotifier) deliver(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	if e.Port != 465 {
		return smtp.SendMail(addr, auth, from, to, msg)
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: e.Host})
	if err != nil {
		return fmt.Errorf("tls dial: %w", err)
	}
	client, err := smtp.NewClient(conn, e.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt: %w", err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}
