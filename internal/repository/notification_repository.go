package repository

import (
	"context"
	"database/sql"

	"github.com/staysafe/room-rental-marketplace/internal/model"
)

// NotificationRepo persists the per-user notification log.  Rows are
// inserted by the booking lifecycle engine as part of its transaction
// and only ever mutated by the recipient marking them read.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// InsertTx appends a notification within an existing transaction.
// created_at is assigned by the database so ordering follows
// insertion order rather than client clocks.
func (r *NotificationRepo) InsertTx(ctx context.Context, tx *sql.Tx, n *model.Notification) error {
	const q = `INSERT INTO notifications (user_id, message, redirect_to, is_read) VALUES (?, ?, ?, 0)`
	res, err := tx.ExecContext(ctx, q, n.UserID, n.Message, n.RedirectTo)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
	const q = `SELECT id, user_id, message, redirect_to, is_read, created_at
	           FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.RedirectTo, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UnreadCount returns the number of unread notifications for the
// badge counter.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID uint64) (uint64, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`
	var n uint64
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&n)
	return n, err
}

// MarkRead flags a single notification as read.  Only the recipient
// may do so; ErrForbidden is returned otherwise and ErrNotFound when
// the notification does not exist.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	var recipient uint64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM notifications WHERE id = ?`, id).Scan(&recipient)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if recipient != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	return err
}

// MarkAllRead flags every unread notification of the user as read
// and returns how many rows changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
