package notify

import (
	"context"
	"encoding/json"
	"log"

	"stayhub/rdx"
)

// Channel carrying notification events from request handlers to the worker.
const eventsChannel = "notification-events"

// Event types.
const (
	PaymentSuccessful    = "payment_successful"
	ReservationConfirmed = "reservation_confirmed"
	RoommateReserved     = "roommate_reserved"
	PorterApplication    = "porter_application_pending"
	PorterApproved       = "porter_approved"
	ReservationExpired   = "reservation_expired"
)

// Event is the payload published for every notification. Only the fields
// relevant to the event type are set.
type Event struct {
	Type       string `json:"type"`
	StudentID  string `json:"studentid,omitempty"`
	ReservedBy string `json:"reserved_by,omitempty"`
	PorterID   string `json:"porterid,omitempty"`
	PaymentID  string `json:"paymentid,omitempty"`
	HostelID   string `json:"hostelid,omitempty"`
	RoomID     string `json:"roomid,omitempty"`
	BunkID     string `json:"bunkid,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Emit publishes an event to Redis. Fire-and-forget: failures are logged
// and never surface to the caller.
func Emit(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[notify] marshal %s failed: %v", event.Type, err)
		return
	}
	if err := rdx.Conn.Publish(ctx, eventsChannel, data).Err(); err != nil {
		log.Printf("[notify] publish %s failed: %v", event.Type, err)
	}
}
