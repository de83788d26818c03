package model

import "time"

// Message is a chat message exchanged inside a room's conversation.
// Messages may only be created while an accepted booking request
// links the sender and receiver through the room; the handler layer
// enforces that gate.
//
// Fields:
//  ID         – primary key identifier.
//  RoomID     – room whose chat the message belongs to.
//  SenderID   – user who wrote the message.
//  ReceiverID – the other party of the accepted booking.
//  Text       – message body.
//  Seen       – whether the receiver has opened the conversation.
//  CreatedAt  – insertion timestamp used for ascending display order.
type Message struct {
    ID         uint64    // messages.id
    RoomID     uint64    // messages.room_id
    SenderID   uint64    // messages.sender_id
    ReceiverID uint64    // messages.receiver_id
    Text       string    // messages.text
    Seen       bool      // messages.seen
    CreatedAt  time.Time // messages.created_at
}
