package middleware

// identity.go defines helper functions shared across middleware files. Currently
// it provides a userID extraction function reading the "user_id" value that
// JWTAuth stores in the Echo context. Depending on the token codec the claim
// arrives as a float64, string or integer. When no user is authenticated,
// "guest" is returned so rate-limit keys still group anonymous traffic.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// userID extracts a user identifier from the Echo context as a string.
// It returns "guest" when no user is authenticated or the value has an
// unexpected type.
func userID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return strconv.FormatUint(uint64(v), 10)
    case uint64:
        return strconv.FormatUint(v, 10)
    case int64:
        return strconv.FormatInt(v, 10)
    case int:
        return strconv.Itoa(v)
    }
    return "guest"
}
