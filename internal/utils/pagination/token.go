package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor is the position of the last row of a page. Listings order by
// (Date, At, ID) so the triple is unique and stable across pages.
type Cursor struct {
	Date time.Time // entry date
	At   time.Time // creation or posting instant
	ID   string
}

// Encode renders the cursor as an opaque, URL-safe token.
func (c Cursor) Encode() string {
	tokenStr := strings.Join([]string{c.Date.Format(timeFormat), c.At.Format(timeFormat), c.ID}, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// EncodeToken is a convenience for building and encoding a cursor in one call.
func EncodeToken(date, at time.Time, id string) string {
	return Cursor{Date: date, At: at, ID: id}.Encode()
}

// DecodeToken parses a token produced by Encode.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	at, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (timestamp parse): %w", err)
	}
	return Cursor{Date: date, At: at, ID: parts[2]}, nil
}

// After reports whether a row at (date, at, id) sorts strictly after the cursor
// in ascending order.
func (c Cursor) After(date, at time.Time, id string) bool {
	if !date.Equal(c.Date) {
		return date.After(c.Date)
	}
	if !at.Equal(c.At) {
		return at.After(c.At)
	}
	return id > c.ID
}

// Before reports whether a row sorts strictly before the cursor in ascending
// order, i.e. comes next in a descending listing.
func (c Cursor) Before(date, at time.Time, id string) bool {
	if !date.Equal(c.Date) {
		return date.Before(c.Date)
	}
	if !at.Equal(c.At) {
		return at.Before(c.At)
	}
	return id < c.ID
}

// NormalizeLimit clamps a requested page size into [1, max], using def for non-positive input.
func NormalizeLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
