package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomReqValidate(t *testing.T) {
	base := roomReq{Title: "Sunny Loft", Location: "Downtown", RentCents: 85000}

	t.Run("valid without date", func(t *testing.T) {
		r := base
		from, msg := r.validate()
		assert.Empty(t, msg)
		assert.Nil(t, from)
	})

	t.Run("valid with date only", func(t *testing.T) {
		r := base
		r.AvailableFrom = "2026-10-01"
		from, msg := r.validate()
		require.Empty(t, msg)
		require.NotNil(t, from)
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *from)
	})

	t.Run("valid with rfc3339", func(t *testing.T) {
		r := base
		r.AvailableFrom = "2026-10-01T12:00:00Z"
		from, msg := r.validate()
		require.Empty(t, msg)
		require.NotNil(t, from)
		assert.Equal(t, 12, from.Hour())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		r := roomReq{Title: "  Sunny Loft  ", Location: " Downtown ", RentCents: 1}
		_, msg := r.validate()
		assert.Empty(t, msg)
		assert.Equal(t, "Sunny Loft", r.Title)
		assert.Equal(t, "Downtown", r.Location)
	})

	t.Run("rejections", func(t *testing.T) {
		cases := []struct {
			name string
			req  roomReq
			want string
		}{
			{"missing title", roomReq{Location: "x", RentCents: 1}, "title is required"},
			{"missing location", roomReq{Title: "x", RentCents: 1}, "location is required"},
			{"zero rent", roomReq{Title: "x", Location: "y"}, "rent_cents must be positive"},
			{"bad date", roomReq{Title: "x", Location: "y", RentCents: 1, AvailableFrom: "next week"}, "available_from must be a date (YYYY-MM-DD)"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, msg := tc.req.validate()
				assert.Equal(t, tc.want, msg)
			})
		}
	})
}
