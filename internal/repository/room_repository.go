package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/staysafe/room-rental-marketplace/internal/model"
)

// RoomRepo provides persistence for room listings.  Rooms are created
// and edited by their owner; the only writer of the status column is
// the booking lifecycle engine, which flips AVAILABLE to BOOKED inside
// the accept transaction.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = "id, owner_id, title, location, rent_cents, image, status, available_from, created_at, updated_at"

func scanRoom(row interface{ Scan(...interface{}) error }) (model.Room, error) {
	var rm model.Room
	var image sql.NullString
	var availableFrom sql.NullTime
	err := row.Scan(&rm.ID, &rm.OwnerID, &rm.Title, &rm.Location, &rm.RentCents,
		&image, &rm.Status, &availableFrom, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return model.Room{}, err
	}
	if image.Valid {
		rm.Image = image.String
	}
	if availableFrom.Valid {
		t := availableFrom.Time
		rm.AvailableFrom = &t
	}
	return rm, nil
}

// Create inserts a new room listing with status AVAILABLE and
// populates the generated ID on the provided record.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (owner_id, title, location, rent_cents, image, status, available_from)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	var image interface{}
	if rm.Image != "" {
		image = rm.Image
	}
	var availableFrom interface{}
	if rm.AvailableFrom != nil {
		availableFrom = rm.AvailableFrom.UTC()
	}
	res, err := r.db.ExecContext(ctx, q, rm.OwnerID, rm.Title, rm.Location, rm.RentCents, image, model.RoomAvailable, availableFrom)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	rm.Status = model.RoomAvailable
	return nil
}

// GetByID returns a single room or ErrNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	rm, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return model.Room{}, ErrNotFound
	}
	return rm, err
}

// GetForUpdateTx loads a room inside a transaction and locks the row
// until the transaction ends.  The lifecycle engine uses this to
// serialize concurrent accepts against the same room.
func (r *RoomRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ? FOR UPDATE`
	rm, err := scanRoom(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return model.Room{}, ErrNotFound
	}
	return rm, err
}

// SetStatusTx updates a room's status within a transaction.
func (r *RoomRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	const q = `UPDATE rooms SET status = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, id)
	return err
}

// ListByOwner returns all rooms listed by the given owner, newest first.
func (r *RoomRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE owner_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// BrowseFilter narrows and orders the public room catalog.  Location
// is matched as a case-insensitive substring.  Availability accepts
// "now" (available_from unset or in the past) or "later".  PriceSort
// accepts "low" or "high"; anything else orders newest first.
type BrowseFilter struct {
	Location     string
	Availability string
	PriceSort    string
}

// ListAvailable returns rooms with status AVAILABLE matching the
// filter.  Booked rooms never appear in the public catalog.
func (r *RoomRepo) ListAvailable(ctx context.Context, f BrowseFilter) ([]model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE status = ?`
	args := []interface{}{model.RoomAvailable}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q += ` AND LOWER(location) LIKE ?`
		args = append(args, "%"+strings.ToLower(loc)+"%")
	}
	switch f.Availability {
	case "now":
		q += ` AND (available_from IS NULL OR available_from <= ?)`
		args = append(args, time.Now().UTC())
	case "later":
		q += ` AND available_from > ?`
		args = append(args, time.Now().UTC())
	}
	switch f.PriceSort {
	case "low":
		q += ` ORDER BY rent_cents ASC`
	case "high":
		q += ` ORDER BY rent_cents DESC`
	default:
		q += ` ORDER BY created_at DESC`
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Update edits the owner-editable fields of a room.  Status is
// deliberately not part of the update: only the accept transition
// changes it.  Returns ErrNotFound when the room does not exist and
// ErrForbidden when it belongs to another owner.
func (r *RoomRepo) Update(ctx context.Context, roomID, ownerID uint64, title, location string, rentCents uint64, image string, availableFrom *time.Time) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM rooms WHERE id = ?`, roomID).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	var img interface{}
	if image != "" {
		img = image
	}
	var avail interface{}
	if availableFrom != nil {
		avail = availableFrom.UTC()
	}
	const q = `UPDATE rooms SET title = ?, location = ?, rent_cents = ?, image = ?, available_from = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, title, location, rentCents, img, avail, roomID)
	return err
}
