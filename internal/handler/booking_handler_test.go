package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staysafe/room-rental-marketplace/internal/lifecycle"
	"github.com/staysafe/room-rental-marketplace/internal/model"
	"github.com/staysafe/room-rental-marketplace/internal/repository"
)

// fakeLifecycle records calls and returns canned results so handler
// tests exercise only the HTTP mapping.
type fakeLifecycle struct {
	createReq     model.BookingRequest
	createBool    bool
	createErr     error
	acceptErr     error
	rejectErr     error
	lastRequestID uint64
	lastUserID    uint64
}

func (f *fakeLifecycle) Create(_ context.Context, roomID, seekerID uint64) (model.BookingRequest, bool, error) {
	f.lastRequestID, f.lastUserID = roomID, seekerID
	return f.createReq, f.createBool, f.createErr
}

func (f *fakeLifecycle) Accept(_ context.Context, requestID, ownerID uint64) error {
	f.lastRequestID, f.lastUserID = requestID, ownerID
	return f.acceptErr
}

func (f *fakeLifecycle) Reject(_ context.Context, requestID, ownerID uint64) error {
	f.lastRequestID, f.lastUserID = requestID, ownerID
	return f.rejectErr
}

func newContext(t *testing.T, method, target string, userID uint64, paramID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}
	return c, rec
}

func TestAcceptRequestStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"conflict", repository.ErrConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lc := &fakeLifecycle{acceptErr: tc.err}
			h := &OwnerBookingHandler{Lifecycle: lc}
			c, rec := newContext(t, http.MethodPost, "/v1/booking-requests/100/accept", 1, "100")

			require.NoError(t, h.AcceptRequest(c))
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, uint64(100), lc.lastRequestID)
			assert.Equal(t, uint64(1), lc.lastUserID)
		})
	}
}

func TestAcceptRequestBadID(t *testing.T) {
	h := &OwnerBookingHandler{Lifecycle: &fakeLifecycle{}}
	c, rec := newContext(t, http.MethodPost, "/v1/booking-requests/nope/accept", 1, "nope")

	require.NoError(t, h.AcceptRequest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRejectRequestForbidden(t *testing.T) {
	h := &OwnerBookingHandler{Lifecycle: &fakeLifecycle{rejectErr: repository.ErrForbidden}}
	c, rec := newContext(t, http.MethodPost, "/v1/booking-requests/100/reject", 1, "100")

	require.NoError(t, h.RejectRequest(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateRequestNewReturns201(t *testing.T) {
	lc := &fakeLifecycle{
		createReq:  model.BookingRequest{ID: 42, Status: model.BookingPending},
		createBool: true,
	}
	h := &SeekerBookingHandler{Lifecycle: lc}
	c, rec := newContext(t, http.MethodPost, "/v1/rooms/10/request", 2, "10")

	require.NoError(t, h.CreateRequest(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 42, body["id"])
	assert.Equal(t, model.BookingPending, body["status"])
}

func TestCreateRequestExistingReturns200(t *testing.T) {
	lc := &fakeLifecycle{
		createReq:  model.BookingRequest{ID: 42, Status: model.BookingPending},
		createBool: false,
	}
	h := &SeekerBookingHandler{Lifecycle: lc}
	c, rec := newContext(t, http.MethodPost, "/v1/rooms/10/request", 2, "10")

	require.NoError(t, h.CreateRequest(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRequestErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"room gone", repository.ErrNotFound, http.StatusNotFound},
		{"room booked", lifecycle.ErrRoomBooked, http.StatusConflict},
		{"own room", lifecycle.ErrOwnRoom, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &SeekerBookingHandler{Lifecycle: &fakeLifecycle{createErr: tc.err}}
			c, rec := newContext(t, http.MethodPost, "/v1/rooms/10/request", 2, "10")

			require.NoError(t, h.CreateRequest(c))
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestCreateRequestUnauthorizedWithoutIdentity(t *testing.T) {
	h := &SeekerBookingHandler{Lifecycle: &fakeLifecycle{}}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/rooms/10/request", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("10")

	require.NoError(t, h.CreateRequest(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
