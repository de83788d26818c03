package repository

import (
	"context"
	"database/sql"

	"github.com/staysafe/room-rental-marketplace/internal/model"
)

// BookingRepo provides CRUD operations for booking requests.  Writes
// that belong to a lifecycle transition (create, accept, reject) are
// exposed as ...Tx methods taking an explicit *sql.Tx so the engine
// can apply them as one atomic unit; the caller must commit or
// rollback.  Read-model projections for list views live here as
// well.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = "id, room_id, owner_id, seeker_id, status, created_at, updated_at"

func scanBooking(row interface{ Scan(...interface{}) error }) (model.BookingRequest, error) {
	var b model.BookingRequest
	err := row.Scan(&b.ID, &b.RoomID, &b.OwnerID, &b.SeekerID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// CreateTx inserts a new PENDING request within the scope of an
// existing transaction and populates the generated ID and timestamps
// on the provided record.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.BookingRequest) error {
	const q = `INSERT INTO booking_requests (room_id, owner_id, seeker_id, status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.RoomID, b.OwnerID, b.SeekerID, model.BookingPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	const sel = `SELECT ` + bookingColumns + ` FROM booking_requests WHERE id = ?`
	got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	*b = got
	return nil
}

// GetTx loads a request inside a transaction without locking the
// row.  The lifecycle engine uses it to learn the room before taking
// any row locks; the authoritative state is re-read with
// GetForUpdateTx afterwards.  Returns sql.ErrNoRows when the request
// does not exist.
func (r *BookingRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.BookingRequest, error) {
	const q = `SELECT ` + bookingColumns + ` FROM booking_requests WHERE id = ?`
	return scanBooking(tx.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx loads a request inside a transaction and locks the
// row until the transaction ends.  It returns sql.ErrNoRows when the
// request does not exist; the lifecycle engine treats that as an
// idempotent no-op rather than an error.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.BookingRequest, error) {
	const q = `SELECT ` + bookingColumns + ` FROM booking_requests WHERE id = ? FOR UPDATE`
	return scanBooking(tx.QueryRowContext(ctx, q, id))
}

// FindPendingByRoomAndSeekerTx returns the seeker's open request for
// a room, if any.  Used by create() to make request creation
// idempotent.  Returns sql.ErrNoRows when no open request exists.
func (r *BookingRepo) FindPendingByRoomAndSeekerTx(ctx context.Context, tx *sql.Tx, roomID, seekerID uint64) (model.BookingRequest, error) {
	const q = `SELECT ` + bookingColumns + ` FROM booking_requests
	           WHERE room_id = ? AND seeker_id = ? AND status = ? LIMIT 1`
	return scanBooking(tx.QueryRowContext(ctx, q, roomID, seekerID, model.BookingPending))
}

// UpdateStatusTx moves a request to a new status within a transaction.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	const q = `UPDATE booking_requests SET status = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, id)
	return err
}

// ListPendingSiblingsTx returns every other PENDING request for the
// same room, locked for the remainder of the transaction.  The accept
// transition uses the result to fan out rejection notifications.
func (r *BookingRepo) ListPendingSiblingsTx(ctx context.Context, tx *sql.Tx, roomID, excludeID uint64) ([]model.BookingRequest, error) {
	const q = `SELECT ` + bookingColumns + ` FROM booking_requests
	           WHERE room_id = ? AND status = ? AND id <> ? FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, roomID, model.BookingPending, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BookingRequest, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// RejectPendingSiblingsTx rejects all remaining PENDING requests for
// a room in a single statement.  Terminal requests are untouched.
func (r *BookingRepo) RejectPendingSiblingsTx(ctx context.Context, tx *sql.Tx, roomID, excludeID uint64) (int64, error) {
	const q = `UPDATE booking_requests SET status = ? WHERE room_id = ? AND status = ? AND id <> ?`
	res, err := tx.ExecContext(ctx, q, model.BookingRejected, roomID, model.BookingPending, excludeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AcceptedPairForRoom resolves the chat counterpart for a user in a
// room.  It returns the other party of the room's accepted booking,
// or ErrForbidden when no accepted booking links the caller to the
// room.  This is the access rule gating the messaging store.
func (r *BookingRepo) AcceptedPairForRoom(ctx context.Context, roomID, userID uint64) (uint64, error) {
	const q = `SELECT owner_id, seeker_id FROM booking_requests
	           WHERE room_id = ? AND status = ? LIMIT 1`
	var ownerID, seekerID uint64
	err := r.db.QueryRowContext(ctx, q, roomID, model.BookingAccepted).Scan(&ownerID, &seekerID)
	if err == sql.ErrNoRows {
		return 0, ErrForbidden
	}
	if err != nil {
		return 0, err
	}
	switch userID {
	case ownerID:
		return seekerID, nil
	case seekerID:
		return ownerID, nil
	}
	return 0, ErrForbidden
}

// AcceptedPair describes one accepted booking for the inbox view:
// the room plus the other party of the conversation.
type AcceptedPair struct {
	BookingID   uint64 `json:"booking_id"`
	RoomID      uint64 `json:"room_id"`
	RoomTitle   string `json:"room_title"`
	OtherUserID uint64 `json:"other_user_id"`
	OtherName   string `json:"other_user_name"`
	OtherPhoto  string `json:"other_user_photo"`
}

// ListAcceptedForUser returns the accepted bookings the user takes
// part in, as either owner or seeker, joined with room title and the
// other party's profile.  Missing joined rows degrade to placeholder
// display values so the inbox stays renderable.
func (r *BookingRepo) ListAcceptedForUser(ctx context.Context, userID uint64) ([]AcceptedPair, error) {
	const q = `SELECT b.id, b.room_id, rm.title,
	                  CASE WHEN b.owner_id = ? THEN b.seeker_id ELSE b.owner_id END,
	                  u.name, u.profile_image
	           FROM booking_requests b
	           LEFT JOIN rooms rm ON rm.id = b.room_id
	           LEFT JOIN users u ON u.id = CASE WHEN b.owner_id = ? THEN b.seeker_id ELSE b.owner_id END
	           WHERE b.status = ? AND (b.owner_id = ? OR b.seeker_id = ?)
	           ORDER BY b.updated_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, userID, model.BookingAccepted, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AcceptedPair, 0)
	for rows.Next() {
		var p AcceptedPair
		var title, name, photo sql.NullString
		if err := rows.Scan(&p.BookingID, &p.RoomID, &title, &p.OtherUserID, &name, &photo); err != nil {
			return nil, err
		}
		p.RoomTitle = placeholderString(title, "Room Chat")
		p.OtherName = placeholderString(name, "User")
		p.OtherPhoto = placeholderString(photo, defaultAvatar)
		out = append(out, p)
	}
	return out, rows.Err()
}

// defaultAvatar is shown when a joined user row is missing or has no
// profile image, matching the client's fallback.
const defaultAvatar = "https://www.w3schools.com/howto/img_avatar.png"

func placeholderString(v sql.NullString, def string) string {
	if v.Valid && v.String != "" {
		return v.String
	}
	return def
}

// OwnerRequestDetail is the owner-facing read model: a request joined
// with room display fields and the seeker's profile.  It never feeds
// back into lifecycle decisions.
type OwnerRequestDetail struct {
	ID           uint64 `json:"id"`
	RoomID       uint64 `json:"room_id"`
	SeekerID     uint64 `json:"seeker_id"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	RoomTitle    string `json:"room_title"`
	RoomImage    string `json:"room_image,omitempty"`
	RoomLocation string `json:"room_location,omitempty"`
	RoomRent     uint64 `json:"room_rent_cents"`
	SeekerName   string `json:"seeker_name"`
	SeekerPhoto  string `json:"seeker_photo"`
}

// ListByOwner projects all requests addressed to an owner, newest
// first.  Room and user joins are part of the single query; a deleted
// room or seeker yields placeholder display values instead of
// failing the whole list.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]OwnerRequestDetail, error) {
	const q = `SELECT b.id, b.room_id, b.seeker_id, b.status, b.created_at,
	                  rm.title, rm.image, rm.location, rm.rent_cents,
	                  u.name, u.profile_image
	           FROM booking_requests b
	           LEFT JOIN rooms rm ON rm.id = b.room_id
	           LEFT JOIN users u ON u.id = b.seeker_id
	           WHERE b.owner_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OwnerRequestDetail, 0)
	for rows.Next() {
		var d OwnerRequestDetail
		var createdAt sql.NullTime
		var title, image, location, name, photo sql.NullString
		var rent sql.NullInt64
		if err := rows.Scan(&d.ID, &d.RoomID, &d.SeekerID, &d.Status, &createdAt,
			&title, &image, &location, &rent, &name, &photo); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			d.CreatedAt = createdAt.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		d.RoomTitle = placeholderString(title, "Room")
		d.RoomImage = placeholderString(image, "")
		d.RoomLocation = placeholderString(location, "")
		if rent.Valid {
			d.RoomRent = uint64(rent.Int64)
		}
		d.SeekerName = placeholderString(name, "Seeker")
		d.SeekerPhoto = placeholderString(photo, defaultAvatar)
		out = append(out, d)
	}
	return out, rows.Err()
}

// SeekerRequestDetail is the seeker-facing read model: the seeker's
// own requests joined with room display fields.
type SeekerRequestDetail struct {
	ID           uint64 `json:"id"`
	RoomID       uint64 `json:"room_id"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	RoomTitle    string `json:"room_title"`
	RoomImage    string `json:"room_image,omitempty"`
	RoomLocation string `json:"room_location,omitempty"`
	RoomRent     uint64 `json:"room_rent_cents"`
}

// ListBySeeker projects all requests a seeker has sent, newest first,
// with the same placeholder tolerance as ListByOwner.
func (r *BookingRepo) ListBySeeker(ctx context.Context, seekerID uint64) ([]SeekerRequestDetail, error) {
	const q = `SELECT b.id, b.room_id, b.status, b.created_at,
	                  rm.title, rm.image, rm.location, rm.rent_cents
	           FROM booking_requests b
	           LEFT JOIN rooms rm ON rm.id = b.room_id
	           WHERE b.seeker_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, seekerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SeekerRequestDetail, 0)
	for rows.Next() {
		var d SeekerRequestDetail
		var createdAt sql.NullTime
		var title, image, location sql.NullString
		var rent sql.NullInt64
		if err := rows.Scan(&d.ID, &d.RoomID, &d.Status, &createdAt,
			&title, &image, &location, &rent); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			d.CreatedAt = createdAt.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		d.RoomTitle = placeholderString(title, "Room")
		d.RoomImage = placeholderString(image, "")
		d.RoomLocation = placeholderString(location, "")
		if rent.Valid {
			d.RoomRent = uint64(rent.Int64)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
