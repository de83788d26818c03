package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/staysafe/room-rental-marketplace/internal/model"
)

// MessageRepo persists per-room chat messages.  Access control (only
// the accepted owner/seeker pair of a room may exchange messages) is
// decided by the handler via BookingRepo.AcceptedPairForRoom before
// any write lands here.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo returns a new MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// Insert appends a chat message and populates the generated ID and
// timestamp on the provided record.
func (r *MessageRepo) Insert(ctx context.Context, m *model.Message) error {
	const q = `INSERT INTO messages (room_id, sender_id, receiver_id, text, seen) VALUES (?, ?, ?, ?, 0)`
	res, err := r.db.ExecContext(ctx, q, m.RoomID, m.SenderID, m.ReceiverID, m.Text)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT created_at FROM messages WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt)
}

// ListByRoom returns the room's conversation in ascending order.
func (r *MessageRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Message, error) {
	const q = `SELECT id, room_id, sender_id, receiver_id, text, seen, created_at
	           FROM messages WHERE room_id = ? ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Seen, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkSeen flags every message addressed to the user in a room as
// seen.  Called when the user opens the conversation.
func (r *MessageRepo) MarkSeen(ctx context.Context, roomID, receiverID uint64) (int64, error) {
	const q = `UPDATE messages SET seen = 1 WHERE room_id = ? AND receiver_id = ? AND seen = 0`
	res, err := r.db.ExecContext(ctx, q, roomID, receiverID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UnreadCounts returns per-room counts of unseen messages addressed
// to the user, for the given rooms, in a single query.
func (r *MessageRepo) UnreadCounts(ctx context.Context, receiverID uint64, roomIDs []uint64) (map[uint64]uint64, error) {
	out := make(map[uint64]uint64, len(roomIDs))
	if len(roomIDs) == 0 {
		return out, nil
	}
	placeholders := make([]string, 0, len(roomIDs))
	args := []interface{}{receiverID}
	for _, id := range roomIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT room_id, COUNT(*) FROM messages
	      WHERE receiver_id = ? AND seen = 0 AND room_id IN (` + strings.Join(placeholders, ",") + `)
	      GROUP BY room_id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var roomID, n uint64
		if err := rows.Scan(&roomID, &n); err != nil {
			return nil, err
		}
		out[roomID] = n
	}
	return out, rows.Err()
}

// LastMessages returns the newest message text per room for the
// given rooms in a single query.  Rooms without messages are absent
// from the result map.
func (r *MessageRepo) LastMessages(ctx context.Context, roomIDs []uint64) (map[uint64]string, error) {
	out := make(map[uint64]string, len(roomIDs))
	if len(roomIDs) == 0 {
		return out, nil
	}
	placeholders := make([]string, 0, len(roomIDs))
	args := make([]interface{}, 0, len(roomIDs))
	for _, id := range roomIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	in := strings.Join(placeholders, ",")
	q := `SELECT m.room_id, m.text
	      FROM messages m
	      JOIN (SELECT room_id, MAX(id) AS max_id FROM messages
	            WHERE room_id IN (` + in + `) GROUP BY room_id) latest
	        ON latest.max_id = m.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var roomID uint64
		var text string
		if err := rows.Scan(&roomID, &text); err != nil {
			return nil, err
		}
		out[roomID] = text
	}
	return out, rows.Err()
}
