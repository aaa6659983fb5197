// Package notify delivers rendered reports to people.
package notify

import (
	"context"
	"log/slog"
)

const (
	DefaultSubject = "Equity Dilution Calculation Results"
	DefaultMessage = "Please find attached the equity dilution calculation results you requested."
)

// Attachment is a file sent along with a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is one email-shaped notification.
type Message struct {
	To          string
	Subject     string
	Body        string // plain text
	HTML        string // optional alternative body
	Attachments []Attachment
}

// Notifier sends messages. Implementations must be safe for concurrent use.
type Notifier interface {
	// Name identifies the backend in logs and delivery records.
	Name() string

	// Send delivers msg, or returns why it could not.
	Send(ctx context.Context, msg Message) error
}

// LogNotifier records messages in the log and reports success.
// It stands in for a mail server in development and demos.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a LogNotifier writing to logger (slog.Default when nil).
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Name() string { return "log" }

// Send logs the message envelope. It only fails if ctx is already done.
func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	attachments := make([]string, 0, len(msg.Attachments))
	var size int
	for _, a := range msg.Attachments {
		attachments = append(attachments, a.Name)
		size += len(a.Data)
	}

	n.logger.InfoContext(ctx, "Report email (not sent, log notifier)",
		"to", msg.To,
		"subject", msg.Subject,
		"body_bytes", len(msg.Body),
		"html_bytes", len(msg.HTML),
		"attachments", attachments,
		"attachment_bytes", size,
	)
	return nil
}
