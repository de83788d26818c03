package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/model"
	"github.com/staysafe/room-rental-marketplace/internal/repository"
)

// MessageHandler serves the per-room chat that an accepted booking
// unlocks.  Every endpoint first resolves the caller's accepted
// counterpart for the room; anyone outside that pair gets a 403.
type MessageHandler struct {
	MessageRepo *repository.MessageRepo
	BookingRepo *repository.BookingRepo
}

// NewMessageHandler constructs a new MessageHandler.
func NewMessageHandler(messageRepo *repository.MessageRepo, bookingRepo *repository.BookingRepo) *MessageHandler {
	if messageRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewMessageHandler")
	}
	return &MessageHandler{MessageRepo: messageRepo, BookingRepo: bookingRepo}
}

type messageView struct {
	ID        uint64 `json:"id"`
	SenderID  uint64 `json:"sender_id"`
	Text      string `json:"text"`
	Seen      bool   `json:"seen"`
	CreatedAt string `json:"created_at"`
}

// Send handles POST /v1/rooms/:id/messages.
func (h *MessageHandler) Send(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}
	ctx := c.Request().Context()
	otherID, err := h.BookingRepo.AcceptedPairForRoom(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "chat requires an accepted booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify chat access"})
	}
	msg := model.Message{RoomID: roomID, SenderID: userID, ReceiverID: otherID, Text: text}
	if err := h.MessageRepo.Insert(ctx, &msg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}
	return c.JSON(http.StatusCreated, messageView{
		ID:        msg.ID,
		SenderID:  msg.SenderID,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// List handles GET /v1/rooms/:id/messages, oldest first.  Opening the
// conversation marks messages addressed to the caller as seen.
func (h *MessageHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	if _, err := h.BookingRepo.AcceptedPairForRoom(ctx, roomID, userID); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "chat requires an accepted booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify chat access"})
	}
	// Mark before loading so the returned rows already carry the
	// seen flag this open just set.
	if _, err := h.MessageRepo.MarkSeen(ctx, roomID, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark messages seen"})
	}
	msgs, err := h.MessageRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load messages"})
	}
	views := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, messageView{
			ID:        m.ID,
			SenderID:  m.SenderID,
			Text:      m.Text,
			Seen:      m.Seen,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// inboxEntry combines an accepted pair with chat preview data.
type inboxEntry struct {
	repository.AcceptedPair
	LastMessage    string `json:"last_message"`
	UnreadMessages uint64 `json:"unread_messages"`
}

// Inbox handles GET /v1/inbox: one entry per accepted booking the
// caller takes part in, with the other party, the latest message and
// the unread count.  Preview data is fetched in two batched queries,
// not per conversation.
func (h *MessageHandler) Inbox(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	pairs, err := h.BookingRepo.ListAcceptedForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load inbox"})
	}
	roomIDs := make([]uint64, 0, len(pairs))
	for _, p := range pairs {
		roomIDs = append(roomIDs, p.RoomID)
	}
	lastMsgs, err := h.MessageRepo.LastMessages(ctx, roomIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load messages"})
	}
	unread, err := h.MessageRepo.UnreadCounts(ctx, userID, roomIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count messages"})
	}
	entries := make([]inboxEntry, 0, len(pairs))
	for _, p := range pairs {
		e := inboxEntry{AcceptedPair: p, LastMessage: "No messages yet"}
		if text, ok := lastMsgs[p.RoomID]; ok {
			e.LastMessage = text
		}
		e.UnreadMessages = unread[p.RoomID]
		entries = append(entries, e)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}
