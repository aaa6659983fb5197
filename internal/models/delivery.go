package models

// DeliveryStatus is the outcome of one attempt to send a report.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Delivery records that a report was (or failed to be) sent to someone.
// It deliberately carries no figures from the calculation itself.
type Delivery struct {
	// ID is the unique identifier for the delivery (UUID format).
	ID string

	// Recipient is the email address the report was addressed to.
	Recipient string

	// Subject is the email subject line.
	Subject string

	// Status is sent or failed.
	Status DeliveryStatus

	// Error holds the notifier's error message when Status is failed.
	Error string

	// Notifier names the backend that handled the send (e.g. "log", "smtp").
	Notifier string

	// CreatedAt is the Unix timestamp of the attempt.
	CreatedAt int64
}
