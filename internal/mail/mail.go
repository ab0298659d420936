// Package mail delivers transactional email outside the request path.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tablebell/restaurant-api/internal/pkg/ctxlog"
	"github.com/tablebell/restaurant-api/internal/pkg/metrics"
)

// ErrClosed is returned by Dispatch after Close has been called.
var ErrClosed = errors.New("mail dispatcher closed")

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher sends mail in background goroutines. Failures are logged and
// counted; callers never see them.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher. timeout bounds each delivery.
func NewDispatcher(sender Sender, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sender: sender, timeout: timeout, logger: logger}
}

// Dispatch queues msg for delivery and returns immediately. kind labels the
// message in logs and metrics.
func (d *Dispatcher) Dispatch(kind string, msg Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	d.wg.Add(1)
	metrics.MailInFlight.Inc()
	go func() {
		defer d.wg.Done()
		defer metrics.MailInFlight.Dec()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			metrics.MailSent.WithLabelValues(kind, "failed").Inc()
			d.logger.Error("failed to send mail", "kind", kind, "error", err)
			return
		}
		metrics.MailSent.WithLabelValues(kind, "sent").Inc()
		d.logger.Debug("mail sent", "kind", kind)
	}()
	return nil
}

// SendVerificationCode mails a confirmation code to address.
func (d *Dispatcher) SendVerificationCode(ctx context.Context, address, code string) {
	err := d.Dispatch("verification", Message{
		To:      address,
		Subject: "Verify your email",
		Text:    fmt.Sprintf("Your verification code is %s", code),
		HTML:    fmt.Sprintf("<h1>Verification</h1><br><b>Your verification code is %s</b>", code),
	})
	if err != nil {
		ctxlog.FromContext(ctx).Warn("verification code not queued", "error", err)
	}
}

// Close stops accepting messages and waits for in-flight deliveries or ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for mail deliveries: %w", ctx.Err())
	}
}
