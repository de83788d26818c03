package model

import "time"

// Booking request status values.  PENDING is the only non-terminal
// state: once a request is ACCEPTED or REJECTED it never changes
// again.  At most one request per room may ever be ACCEPTED.
const (
    BookingPending  = "PENDING"
    BookingAccepted = "ACCEPTED"
    BookingRejected = "REJECTED"
)

// BookingRequest records a seeker's intent to rent a specific room,
// mirroring the `booking_requests` table.  OwnerID is denormalized
// from the room at creation time so owner-facing queries avoid a
// join against rooms.
//
// Fields:
//  ID        – primary key identifier.
//  RoomID    – room being requested.
//  OwnerID   – owner of the room (equals rooms.owner_id).
//  SeekerID  – user asking to rent the room.
//  Status    – PENDING, ACCEPTED or REJECTED.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last status change.
type BookingRequest struct {
    ID        uint64    // booking_requests.id
    RoomID    uint64    // booking_requests.room_id
    OwnerID   uint64    // booking_requests.owner_id
    SeekerID  uint64    // booking_requests.seeker_id
    Status    string    // booking_requests.status
    CreatedAt time.Time // booking_requests.created_at
    UpdatedAt time.Time // booking_requests.updated_at
}

// Terminal reports whether the request has left the PENDING state.
func (b BookingRequest) Terminal() bool {
    return b.Status == BookingAccepted || b.Status == BookingRejected
}
