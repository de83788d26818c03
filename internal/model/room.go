package model

import "time"

// Room status values.  A room moves from AVAILABLE to BOOKED only
// through an accepted booking request; it never moves back on its
// own (re-listing is a manual owner action outside this service).
const (
    RoomAvailable = "AVAILABLE"
    RoomBooked    = "BOOKED"
)

// Room represents a rentable room listed by an owner, mirroring the
// `rooms` table.
//
// Fields:
//  ID            – primary key identifier.
//  OwnerID       – user who listed the room.
//  Title         – short listing title.
//  Location      – free-text location used for search.
//  RentCents     – monthly rent in cents; always positive.
//  Image         – URL of the listing photo (empty when unset).
//  Status        – AVAILABLE or BOOKED.
//  AvailableFrom – date the room becomes available; nil means now.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type Room struct {
    ID            uint64     // rooms.id
    OwnerID       uint64     // rooms.owner_id
    Title         string     // rooms.title
    Location      string     // rooms.location
    RentCents     uint64     // rooms.rent_cents
    Image         string     // rooms.image
    Status        string     // rooms.status
    AvailableFrom *time.Time // rooms.available_from (nullable)
    CreatedAt     time.Time  // rooms.created_at
    UpdatedAt     time.Time  // rooms.updated_at
}
