// Package queue defines message payloads exchanged over the message broker.
package queue

// NotificationCreatedEvent is published after a booking lifecycle
// transition commits, once per inserted notification.  It carries
// enough information for the push-delivery consumer to mirror the
// notification to an out-of-band channel without querying the
// primary database.
type NotificationCreatedEvent struct {
    NotificationID uint64 `json:"notification_id"`
    UserID         uint64 `json:"user_id"`
    Message        string `json:"message"`
    RedirectTo     string `json:"redirect_to"`
    RoomID         uint64 `json:"room_id"`
    BookingID      uint64 `json:"booking_id"`
    Kind           string `json:"kind"` // requested | accepted | rejected
    CreatedAt      string `json:"created_at"`
}
