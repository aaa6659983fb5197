package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds mail server settings.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	MaxElapsed time.Duration // total retry budget per message
}

// mailClient is the part of *mail.Client the notifier uses.
type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPNotifier sends messages through an SMTP server, retrying transient
// failures with exponential backoff.
type SMTPNotifier struct {
	client     mailClient
	from       string
	maxElapsed time.Duration
	newBackOff func() backoff.BackOff
}

// NewSMTPNotifier connects lazily: the server is dialled on every Send.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("smtp from address is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return newSMTPNotifier(client, cfg.From, cfg.MaxElapsed), nil
}

func newSMTPNotifier(client mailClient, from string, maxElapsed time.Duration) *SMTPNotifier {
	if maxElapsed <= 0 {
		maxElapsed = 30 * time.Second
	}
	return &SMTPNotifier{
		client:     client,
		from:       from,
		maxElapsed: maxElapsed,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
}

func (n *SMTPNotifier) Name() string { return "smtp" }

// Send builds the MIME message and hands it to the server.
// Address and encoding errors are permanent; network errors are retried.
func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	m, err := n.build(msg)
	if err != nil {
		return err
	}

	attempt := 0
	_, err = backoff.Retry(ctx,
		func() (struct{}, error) {
			attempt++
			if err := n.client.DialAndSendWithContext(ctx, m); err != nil {
				return struct{}{}, err
			}
			return struct{}{}, nil
		},
		backoff.WithBackOff(n.newBackOff()),
		backoff.WithMaxElapsedTime(n.maxElapsed),
		backoff.WithNotify(func(err error, wait time.Duration) {
			slog.WarnContext(ctx, "SMTP send failed, retrying",
				"to", msg.To,
				"attempt", attempt,
				"retry_in", wait,
				"error", err,
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to send email after %d attempts: %w", attempt, err)
	}

	return nil
}

func (n *SMTPNotifier) build(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(n.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	for _, a := range msg.Attachments {
		var opts []mail.FileOption
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if err := m.AttachReader(a.Name, bytes.NewReader(a.Data), opts...); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", a.Name, err)
		}
	}

	return m, nil
}
