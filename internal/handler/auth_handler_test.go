package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staysafe/room-rental-marketplace/internal/repository"
)

func TestUpdateMe(t *testing.T) {
	newHandler := func(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
		t.Helper()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return &AuthHandler{Users: repository.NewUserRepo(db)}, mock
	}
	profileCtx := func(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
		t.Helper()
		e := echo.New()
		req := httptest.NewRequest(http.MethodPatch, "/v1/me", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_id", uint64(1))
		return c, rec
	}

	t.Run("updates name and avatar", func(t *testing.T) {
		h, mock := newHandler(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET name=?, profile_image=? WHERE id=?")).
			WithArgs("Ada", "ada.png", uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=?")).
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "profile_image", "role", "is_active", "created_at", "updated_at"}).
				AddRow(1, "ada@example.com", "x", "Ada", "ada.png", "SEEKER", true, time.Now(), time.Now()))

		c, rec := profileCtx(t, `{"name":" Ada ","profile_image":"ada.png"}`)
		require.NoError(t, h.UpdateMe(c))
		require.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Ada", body["name"])
		assert.Equal(t, "ada.png", body["profile_image"])
	})

	t.Run("rejects empty name", func(t *testing.T) {
		h, _ := newHandler(t)
		c, rec := profileCtx(t, `{"name":"  "}`)
		require.NoError(t, h.UpdateMe(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
