// Package lifecycle implements the booking-request state machine:
// creation, the exclusivity-enforcing accept transition, rejection,
// and the notification fan-out each transition produces.  Every
// operation applies all of its writes in a single database
// transaction so a reader never observes a partially applied
// transition, and every operation is safe to re-invoke (a double
// click or a second tab ends up a no-op).
package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/staysafe/room-rental-marketplace/internal/model"
	"github.com/staysafe/room-rental-marketplace/internal/queue"
	"github.com/staysafe/room-rental-marketplace/internal/repository"
)

// Sentinel outcomes of Create.  Both wrap repository.ErrConflict so
// handlers can map them to HTTP 409 while still rendering a specific
// message.
var (
	ErrRoomBooked = fmt.Errorf("room already booked: %w", repository.ErrConflict)
	ErrOwnRoom    = fmt.Errorf("cannot request own room: %w", repository.ErrConflict)
)

// PublishFunc delivers a notification event to the out-of-band push
// channel.  Publishing happens after commit and must never fail the
// owning transition; errors are logged and dropped.
type PublishFunc func(ctx context.Context, ev queue.NotificationCreatedEvent) error

// Engine coordinates rooms, booking requests and notifications
// through shared database transactions.  It owns every status write
// in the system: nothing else moves a request out of PENDING or a
// room out of AVAILABLE.
type Engine struct {
	db       *sql.DB
	rooms    *repository.RoomRepo
	bookings *repository.BookingRepo
	notifs   *repository.NotificationRepo
	publish  PublishFunc
}

// NewEngine constructs the lifecycle engine.  publish may be nil when
// no push channel is configured; all repositories must be non-nil.
func NewEngine(db *sql.DB, rooms *repository.RoomRepo, bookings *repository.BookingRepo, notifs *repository.NotificationRepo, publish PublishFunc) *Engine {
	if db == nil || rooms == nil || bookings == nil || notifs == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{db: db, rooms: rooms, bookings: bookings, notifs: notifs, publish: publish}
}

// Create records a seeker's booking request for a room.
//
// Preconditions checked inside the transaction: the room exists
// (repository.ErrNotFound otherwise), is not booked (ErrRoomBooked,
// no writes) and does not belong to the seeker (ErrOwnRoom).  When
// the seeker already has a PENDING request for the room, that request
// is returned unchanged with created=false instead of inserting a
// duplicate.  On success the new request plus one notification to the
// owner are committed together.
func (e *Engine) Create(ctx context.Context, roomID, seekerID uint64) (model.BookingRequest, bool, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return model.BookingRequest{}, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the room row so a concurrent accept cannot flip it to
	// BOOKED between the check and the insert.
	room, err := e.rooms.GetForUpdateTx(ctx, tx, roomID)
	if err != nil {
		return model.BookingRequest{}, false, err
	}
	if room.Status == model.RoomBooked {
		return model.BookingRequest{}, false, ErrRoomBooked
	}
	if room.OwnerID == seekerID {
		return model.BookingRequest{}, false, ErrOwnRoom
	}

	existing, err := e.bookings.FindPendingByRoomAndSeekerTx(ctx, tx, roomID, seekerID)
	if err == nil {
		// Idempotent creation: hand back the open request, no writes.
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.BookingRequest{}, false, err
	}

	req := model.BookingRequest{RoomID: roomID, OwnerID: room.OwnerID, SeekerID: seekerID}
	if err := e.bookings.CreateTx(ctx, tx, &req); err != nil {
		return model.BookingRequest{}, false, err
	}
	notif := model.Notification{
		UserID:     room.OwnerID,
		Message:    fmt.Sprintf("You got a booking request for %q", room.Title),
		RedirectTo: "/booking-requests",
	}
	if err := e.notifs.InsertTx(ctx, tx, &notif); err != nil {
		return model.BookingRequest{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return model.BookingRequest{}, false, err
	}
	committed = true

	e.publishAll(ctx, []queue.NotificationCreatedEvent{
		eventFor(notif, req, "requested"),
	})
	return req, true, nil
}

// Accept performs the exclusivity transition for one pending request:
// the request becomes ACCEPTED, the room becomes BOOKED, every other
// PENDING request for the room becomes REJECTED, and notifications
// fan out to the accepted seeker and each rejected seeker — all in
// one transaction.
//
// The request is re-read under a row lock inside the transaction; if
// it no longer exists or already left PENDING, the call is a no-op
// (the common double-click case) and only logged.  A caller that is
// not the room's owner gets repository.ErrForbidden.
//
// Lock order is room first, then request: concurrent accepts for the
// same room queue up on the room row instead of deadlocking on each
// other's request locks.  An unlocked pre-read learns the room and
// handles the cheap no-op cases; terminal states are monotonic, so a
// terminal status seen without a lock is already final.
func (e *Engine) Accept(ctx context.Context, requestID, ownerID uint64) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	req, err := e.bookings.GetTx(ctx, tx, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("lifecycle: accept on missing request %d; no-op", requestID)
		return nil
	}
	if err != nil {
		return err
	}
	if req.OwnerID != ownerID {
		return repository.ErrForbidden
	}
	if req.Terminal() {
		log.Printf("lifecycle: accept on %s request %d; no-op", req.Status, req.ID)
		return nil
	}

	room, err := e.rooms.GetForUpdateTx(ctx, tx, req.RoomID)
	if err != nil {
		return err
	}

	// Authoritative re-read under the lock; the pre-read may have
	// raced a concurrent transition that just committed.
	req, err = e.bookings.GetForUpdateTx(ctx, tx, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("lifecycle: accept on missing request %d; no-op", requestID)
		return nil
	}
	if err != nil {
		return err
	}
	if req.Terminal() {
		log.Printf("lifecycle: accept on %s request %d; no-op", req.Status, req.ID)
		return nil
	}

	if room.Status == model.RoomBooked {
		// A pending request on a booked room means a prior accept
		// skipped the cascade; refuse rather than double-book.
		log.Printf("lifecycle: room %d already booked with pending request %d", room.ID, req.ID)
		return repository.ErrConflict
	}

	siblings, err := e.bookings.ListPendingSiblingsTx(ctx, tx, req.RoomID, req.ID)
	if err != nil {
		return err
	}
	if err := e.bookings.UpdateStatusTx(ctx, tx, req.ID, model.BookingAccepted); err != nil {
		return err
	}
	if err := e.rooms.SetStatusTx(ctx, tx, req.RoomID, model.RoomBooked); err != nil {
		return err
	}
	if _, err := e.bookings.RejectPendingSiblingsTx(ctx, tx, req.RoomID, req.ID); err != nil {
		return err
	}

	events := make([]queue.NotificationCreatedEvent, 0, len(siblings)+1)
	accepted := model.Notification{
		UserID:     req.SeekerID,
		Message:    fmt.Sprintf("Booking accepted for %q", room.Title),
		RedirectTo: fmt.Sprintf("/chat/%d", room.ID),
	}
	if err := e.notifs.InsertTx(ctx, tx, &accepted); err != nil {
		return err
	}
	events = append(events, eventFor(accepted, req, "accepted"))

	// Rejected-by-cascade seekers are notified individually rather
	// than silently dropped.
	for _, sib := range siblings {
		n := model.Notification{
			UserID:     sib.SeekerID,
			Message:    fmt.Sprintf("%q is no longer available", room.Title),
			RedirectTo: fmt.Sprintf("/room/%d", room.ID),
		}
		if err := e.notifs.InsertTx(ctx, tx, &n); err != nil {
			return err
		}
		events = append(events, eventFor(n, sib, "rejected"))
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	e.publishAll(ctx, events)
	return nil
}

// Reject moves one pending request to REJECTED and notifies its
// seeker.  The room stays AVAILABLE for the remaining requests.
// Re-invocation on a terminal request is a no-op, and a caller that
// is not the room's owner gets repository.ErrForbidden.
func (e *Engine) Reject(ctx context.Context, requestID, ownerID uint64) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	req, err := e.bookings.GetForUpdateTx(ctx, tx, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("lifecycle: reject on missing request %d; no-op", requestID)
		return nil
	}
	if err != nil {
		return err
	}
	if req.OwnerID != ownerID {
		return repository.ErrForbidden
	}
	if req.Terminal() {
		log.Printf("lifecycle: reject on %s request %d; no-op", req.Status, req.ID)
		return nil
	}

	if err := e.bookings.UpdateStatusTx(ctx, tx, req.ID, model.BookingRejected); err != nil {
		return err
	}
	notif := model.Notification{
		UserID:     req.SeekerID,
		Message:    "Your booking request was rejected",
		RedirectTo: fmt.Sprintf("/room/%d", req.RoomID),
	}
	if err := e.notifs.InsertTx(ctx, tx, &notif); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	e.publishAll(ctx, []queue.NotificationCreatedEvent{
		eventFor(notif, req, "rejected"),
	})
	return nil
}

func eventFor(n model.Notification, req model.BookingRequest, kind string) queue.NotificationCreatedEvent {
	return queue.NotificationCreatedEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Message:        n.Message,
		RedirectTo:     n.RedirectTo,
		RoomID:         req.RoomID,
		BookingID:      req.ID,
		Kind:           kind,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
}

// publishAll mirrors committed notifications to the push channel.
// Failures are logged only: delivery being unavailable must not fail
// the transition that already committed.
func (e *Engine) publishAll(ctx context.Context, events []queue.NotificationCreatedEvent) {
	if e.publish == nil {
		return
	}
	for _, ev := range events {
		if err := e.publish(ctx, ev); err != nil {
			log.Printf("lifecycle: publish notification %d failed: %v", ev.NotificationID, err)
		}
	}
}
