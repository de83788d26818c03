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

func newRoomRepo(t *testing.T) (*RoomRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRoomRepo(db), mock
}

func availableRoomRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_id", "title", "location", "rent_cents", "image", "status", "available_from", "created_at", "updated_at"})
}

func TestListAvailableDefaultsToNewestFirst(t *testing.T) {
	repo, mock := newRoomRepo(t)

	now := time.Now()
	// No filters, no recognized sort: only the status predicate with
	// the newest-first fallback ordering.
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE status = ? ORDER BY created_at DESC")).
		WithArgs(model.RoomAvailable).
		WillReturnRows(availableRoomRows().
			AddRow(1, 2, "Sunny Loft", "Downtown", 85000, nil, model.RoomAvailable, nil, now, now))

	out, err := repo.ListAvailable(context.Background(), BrowseFilter{PriceSort: "weird"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Sunny Loft", out[0].Title)
	// A listing without a start date has no AvailableFrom.
	assert.Nil(t, out[0].AvailableFrom)
}

func TestListAvailableLocationFilter(t *testing.T) {
	repo, mock := newRoomRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = ? AND LOWER(location) LIKE ? ORDER BY created_at DESC")).
		WithArgs(model.RoomAvailable, "%downtown%").
		WillReturnRows(availableRoomRows())

	_, err := repo.ListAvailable(context.Background(), BrowseFilter{Location: "  DownTown "})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAvailableAvailabilityNow(t *testing.T) {
	repo, mock := newRoomRepo(t)

	now := time.Now()
	// "now" must include rooms with no start date at all.
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = ? AND (available_from IS NULL OR available_from <= ?) ORDER BY created_at DESC")).
		WithArgs(model.RoomAvailable, sqlmock.AnyArg()).
		WillReturnRows(availableRoomRows().
			AddRow(1, 2, "Sunny Loft", "Downtown", 85000, nil, model.RoomAvailable, nil, now, now).
			AddRow(2, 2, "City Studio", "Midtown", 60000, "studio.jpg", model.RoomAvailable, now.Add(-24*time.Hour), now, now))

	out, err := repo.ListAvailable(context.Background(), BrowseFilter{Availability: "now"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Nil(t, out[0].AvailableFrom)
	require.NotNil(t, out[1].AvailableFrom)
}

func TestListAvailableAvailabilityLater(t *testing.T) {
	repo, mock := newRoomRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = ? AND available_from > ? ORDER BY created_at DESC")).
		WithArgs(model.RoomAvailable, sqlmock.AnyArg()).
		WillReturnRows(availableRoomRows())

	_, err := repo.ListAvailable(context.Background(), BrowseFilter{Availability: "later"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAvailablePriceSort(t *testing.T) {
	t.Run("low", func(t *testing.T) {
		repo, mock := newRoomRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE status = ? ORDER BY rent_cents ASC")).
			WithArgs(model.RoomAvailable).
			WillReturnRows(availableRoomRows())
		_, err := repo.ListAvailable(context.Background(), BrowseFilter{PriceSort: "low"})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("high", func(t *testing.T) {
		repo, mock := newRoomRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE status = ? ORDER BY rent_cents DESC")).
			WithArgs(model.RoomAvailable).
			WillReturnRows(availableRoomRows())
		_, err := repo.ListAvailable(context.Background(), BrowseFilter{PriceSort: "high"})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListAvailableCombinedFilters(t *testing.T) {
	repo, mock := newRoomRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = ? AND LOWER(location) LIKE ? AND (available_from IS NULL OR available_from <= ?) ORDER BY rent_cents ASC")).
		WithArgs(model.RoomAvailable, "%midtown%", sqlmock.AnyArg()).
		WillReturnRows(availableRoomRows())

	_, err := repo.ListAvailable(context.Background(), BrowseFilter{
		Location:     "Midtown",
		Availability: "now",
		PriceSort:    "low",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
