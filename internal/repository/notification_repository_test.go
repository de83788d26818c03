package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotifRepo(t *testing.T) (*NotificationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewNotificationRepo(db), mock
}

func TestUnreadCount(t *testing.T) {
	repo, mock := newNotifRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.UnreadCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)
}

func TestMarkReadOnlyByRecipient(t *testing.T) {
	sel := regexp.QuoteMeta("SELECT user_id FROM notifications WHERE id = ?")

	t.Run("recipient", func(t *testing.T) {
		repo, mock := newNotifRepo(t)
		mock.ExpectQuery(sel).WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = 1 WHERE id = ?")).
			WithArgs(uint64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.MarkRead(context.Background(), 5, 1))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other user", func(t *testing.T) {
		repo, mock := newNotifRepo(t)
		mock.ExpectQuery(sel).WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1))
		assert.ErrorIs(t, repo.MarkRead(context.Background(), 5, 2), ErrForbidden)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newNotifRepo(t)
		mock.ExpectQuery(sel).WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
		assert.ErrorIs(t, repo.MarkRead(context.Background(), 5, 1), ErrNotFound)
	})
}

func TestMarkAllReadReturnsRowCount(t *testing.T) {
	repo, mock := newNotifRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkAllRead(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
