package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/staysafe/room-rental-marketplace/internal/config"
)

func TestUserIDFromContext(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  string
	}{
		// JWT numeric claims decode as float64.
		{"float64 claim", float64(42), "42"},
		{"string claim", "42", "42"},
		{"uint64", uint64(7), "7"},
		{"int", 7, "7"},
		{"unauthenticated", nil, "guest"},
		{"empty string", "", "guest"},
		{"unexpected type", struct{}{}, "guest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			assert.Equal(t, tc.want, userID(c))
		})
	}
}

func TestBuildRateKeyUsesAuthenticatedUser(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/rooms", nil), httptest.NewRecorder())
	c.Set("user_id", float64(42))

	key := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c)
	assert.Equal(t, "rl:user:42", key)
}
