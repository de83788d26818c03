package model

import "time"

// Notification is a per-user, append-only record created as a side
// effect of a booking request transition.  Recipients mark it read;
// nothing deletes it.  CreatedAt is assigned by the database so the
// newest-first ordering is not affected by client clock skew.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – recipient of the notification.
//  Message    – human readable text shown in the notification list.
//  RedirectTo – navigation target for the client (e.g. "/room/42").
//  Read       – whether the recipient has seen the notification.
//  CreatedAt  – insertion timestamp, strictly increasing per user.
type Notification struct {
    ID         uint64    // notifications.id
    UserID     uint64    // notifications.user_id
    Message    string    // notifications.message
    RedirectTo string    // notifications.redirect_to
    Read       bool      // notifications.is_read
    CreatedAt  time.Time // notifications.created_at
}
