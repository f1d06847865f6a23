package messages

import (
	"time"
)

// ParcelPaid is published after a payment has been recorded for a parcel.
type ParcelPaid struct {
	EventID       string    `json:"event_id"`
	ParcelID      string    `json:"parcel_id"`
	PaymentID     string    `json:"payment_id"`
	UserEmail     string    `json:"user_email"`
	TransactionID string    `json:"transaction_id"`
	ParcelUpdated bool      `json:"parcel_updated"`
	PaidAt        time.Time `json:"paid_at"`
}

// TrackingAppended is published after an event is added to a shipment's history.
type TrackingAppended struct {
	EventID    string    `json:"event_id"`
	TrackingID string    `json:"tracking_id"`
	ParcelID   string    `json:"parcel_id"`
	Status     string    `json:"status"`
	Location   string    `json:"location"`
	Timestamp  time.Time `json:"timestamp"`
}

// TrackingIngest is what carriers push onto the ingest topic. Field names
// match the POST /trackings body.
type TrackingIngest struct {
	TrackingID string     `json:"trackingId"`
	ParcelID   string     `json:"parcelId"`
	UserEmail  string     `json:"userEmail"`
	Status     string     `json:"status"`
	Location   string     `json:"location"`
	Message    string     `json:"message,omitempty"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}
