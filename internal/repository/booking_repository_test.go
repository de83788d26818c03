package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staysafe/room-rental-marketplace/internal/model"
)

func newMockDB(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

func TestListByOwnerFallsBackToPlaceholders(t *testing.T) {
	repo, mock := newMockDB(t)

	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "room_id", "seeker_id", "status", "created_at",
		"title", "image", "location", "rent_cents", "name", "profile_image",
	}).
		AddRow(1, 10, 2, model.BookingPending, created,
			"Sunny Loft", "loft.jpg", "Downtown", 85000, "Ada", "ada.png").
		// Room and seeker rows deleted after the request was made.
		AddRow(2, 11, 3, model.BookingRejected, created,
			nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(`FROM booking_requests b\s+LEFT JOIN rooms`).WithArgs(uint64(1)).
		WillReturnRows(rows)

	out, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Sunny Loft", out[0].RoomTitle)
	assert.Equal(t, "Ada", out[0].SeekerName)
	assert.Equal(t, uint64(85000), out[0].RoomRent)
	assert.Equal(t, "2026-03-14T09:30:00Z", out[0].CreatedAt)

	assert.Equal(t, "Room", out[1].RoomTitle)
	assert.Equal(t, "Seeker", out[1].SeekerName)
	assert.Equal(t, defaultAvatar, out[1].SeekerPhoto)
	assert.Zero(t, out[1].RoomRent)
}

func TestListBySeekerFallsBackToPlaceholders(t *testing.T) {
	repo, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{
		"id", "room_id", "status", "created_at",
		"title", "image", "location", "rent_cents",
	}).AddRow(5, 12, model.BookingAccepted, time.Now(), nil, nil, nil, nil)
	mock.ExpectQuery(`FROM booking_requests b\s+LEFT JOIN rooms`).WithArgs(uint64(2)).
		WillReturnRows(rows)

	out, err := repo.ListBySeeker(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Room", out[0].RoomTitle)
	assert.Empty(t, out[0].RoomImage)
}

func TestAcceptedPairForRoom(t *testing.T) {
	query := regexp.QuoteMeta("SELECT owner_id, seeker_id FROM booking_requests")

	t.Run("owner gets seeker", func(t *testing.T) {
		repo, mock := newMockDB(t)
		mock.ExpectQuery(query).WithArgs(uint64(10), model.BookingAccepted).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id", "seeker_id"}).AddRow(1, 2))
		other, err := repo.AcceptedPairForRoom(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), other)
	})

	t.Run("seeker gets owner", func(t *testing.T) {
		repo, mock := newMockDB(t)
		mock.ExpectQuery(query).WithArgs(uint64(10), model.BookingAccepted).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id", "seeker_id"}).AddRow(1, 2))
		other, err := repo.AcceptedPairForRoom(context.Background(), 10, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), other)
	})

	t.Run("third party forbidden", func(t *testing.T) {
		repo, mock := newMockDB(t)
		mock.ExpectQuery(query).WithArgs(uint64(10), model.BookingAccepted).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id", "seeker_id"}).AddRow(1, 2))
		_, err := repo.AcceptedPairForRoom(context.Background(), 10, 3)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("no accepted booking forbidden", func(t *testing.T) {
		repo, mock := newMockDB(t)
		mock.ExpectQuery(query).WithArgs(uint64(10), model.BookingAccepted).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id", "seeker_id"}))
		_, err := repo.AcceptedPairForRoom(context.Background(), 10, 1)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestListAcceptedForUserPlaceholders(t *testing.T) {
	repo, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "room_id", "title", "other", "name", "profile_image"}).
		AddRow(1, 10, "Sunny Loft", 2, "Ada", nil).
		AddRow(2, 11, nil, 3, nil, nil)
	mock.ExpectQuery(`FROM booking_requests b\s+LEFT JOIN rooms rm`).
		WithArgs(uint64(1), uint64(1), model.BookingAccepted, uint64(1), uint64(1)).
		WillReturnRows(rows)

	out, err := repo.ListAcceptedForUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, defaultAvatar, out[0].OtherPhoto)
	assert.Equal(t, "Room Chat", out[1].RoomTitle)
	assert.Equal(t, "User", out[1].OtherName)
}
