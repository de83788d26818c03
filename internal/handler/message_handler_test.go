package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staysafe/room-rental-marketplace/internal/model"
	"github.com/staysafe/room-rental-marketplace/internal/repository"
)

func newMessageHandler(t *testing.T) (*MessageHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMessageHandler(repository.NewMessageRepo(db), repository.NewBookingRepo(db)), mock
}

func TestListMarksSeenBeforeLoading(t *testing.T) {
	h, mock := newMessageHandler(t)

	now := time.Now()
	// The ordered expectations pin the sequence: access check, then
	// the seen update, then the load, so the returned rows already
	// reflect the flip.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id, seeker_id FROM booking_requests")).
		WithArgs(uint64(10), model.BookingAccepted).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "seeker_id"}).AddRow(1, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE messages SET seen = 1 WHERE room_id = ? AND receiver_id = ? AND seen = 0")).
		WithArgs(uint64(10), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM messages WHERE room_id = ? ORDER BY created_at ASC, id ASC")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "sender_id", "receiver_id", "text", "seen", "created_at"}).
			AddRow(1, 10, 1, 2, "hi", true, now))

	c, rec := newContext(t, http.MethodGet, "/v1/rooms/10/messages", 2, "10")
	require.NoError(t, h.List(c))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []struct {
			Seen bool `json:"seen"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.True(t, body.Items[0].Seen)
}

func TestListForbiddenWithoutAcceptedBooking(t *testing.T) {
	h, mock := newMessageHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id, seeker_id FROM booking_requests")).
		WithArgs(uint64(10), model.BookingAccepted).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "seeker_id"}))

	c, rec := newContext(t, http.MethodGet, "/v1/rooms/10/messages", 3, "10")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}


