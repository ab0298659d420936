// Package smtp delivers mail through an SMTP relay using STARTTLS.
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tablebell/restaurant-api/internal/mail"
)

const boundaryPrefix = "restaurant-api-"

// Config holds SMTP sender configuration.
type Config struct {
	Enabled     bool
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
	// DialTimeout bounds connection setup; zero means 10s.
	DialTimeout time.Duration
}

// Sender implements mail.Sender over SMTP.
type Sender struct {
	config Config
	auth   smtp.Auth
	now    func() time.Time
}

var _ mail.Sender = (*Sender)(nil)

// NewSender creates a new SMTP sender.
// Returns error if enabled but required config is missing.
func NewSender(config Config) (*Sender, error) {
	if config.Enabled {
		if config.Host == "" {
			return nil, errors.New("smtp sender: host is required when enabled")
		}
		if config.FromAddress == "" {
			return nil, errors.New("smtp sender: from address is required when enabled")
		}
	}

	if config.Port == 0 {
		config.Port = 587
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 10 * time.Second
	}

	var auth smtp.Auth
	if config.User != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}

	slog.Info("smtp sender configured",
		"enabled", config.Enabled,
		"smtp_host", config.Host,
		"smtp_port", config.Port,
		"from_address", config.FromAddress,
	)

	return &Sender{config: config, auth: auth, now: time.Now}, nil
}

// Send delivers msg to its single recipient. A disabled sender drops the
// message with a warning.
func (s *Sender) Send(ctx context.Context, msg mail.Message) error {
	if !s.config.Enabled {
		slog.Warn("smtp sender disabled, skipping send", "subject", msg.Subject)
		return nil
	}
	if msg.To == "" {
		return errors.New("no recipient")
	}

	body := s.buildMessage(msg, uuid.NewString())
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	tlsConfig := &tls.Config{
		ServerName: s.config.Host,
		MinVersion: tls.VersionTLS12,
	}

	return s.sendWithSTARTTLS(ctx, addr, tlsConfig, msg.To, body)
}

// buildMessage renders headers and a multipart/alternative body. The HTML
// part is omitted when empty.
func (s *Sender) buildMessage(msg mail.Message, id string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", s.config.FromAddress)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", id, domainOf(extractEmail(s.config.FromAddress)))
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTML == "" {
		b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		b.WriteString(msg.Text)
		return []byte(b.String())
	}

	boundary := boundaryPrefix + id
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s\r\n", boundary, msg.Text)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=\"utf-8\"\r\n\r\n%s\r\n", boundary, msg.HTML)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

func (s *Sender) sendWithSTARTTLS(ctx context.Context, addr string, tlsConfig *tls.Config, rcpt string, msg []byte) error {
	dialer := &net.Dialer{Timeout: s.config.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.auth != nil {
		if err := client.Auth(s.auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := client.Mail(extractEmail(s.config.FromAddress)); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(rcpt); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return client.Quit()
}

// extractEmail extracts the email address from formats like "Name <email@example.com>".
func extractEmail(address string) string {
	if idx := strings.Index(address, "<"); idx != -1 {
		end := strings.Index(address, ">")
		if end > idx {
			return address[idx+1 : end]
		}
	}
	return address
}

func domainOf(address string) string {
	if at := strings.LastIndex(address, "@"); at != -1 && at < len(address)-1 {
		return address[at+1:]
	}
	return "localhost"
}
