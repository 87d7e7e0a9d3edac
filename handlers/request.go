package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Date accepts either an RFC 3339 timestamp or a plain YYYY-MM-DD day, which
// is read in the server's local time zone.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, s, time.Local)
}

// queryDate reads an optional date query parameter.
func queryDate(c *fiber.Ctx, key string) (time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := parseDate(v)
	if err != nil {
		return time.Time{}, badRequest("Invalid %s '%s': use YYYY-MM-DD", key, v)
	}
	return t, nil
}

// queryInt reads an optional integer query parameter within [min, max].
func queryInt(c *fiber.Ctx, key string, def, min, max int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return 0, badRequest("Invalid %s '%s': must be between %d and %d", key, v, min, max)
	}
	return n, nil
}

// queryRange reads the startDate and endDate parameters. A bare end day
// includes the whole of that day.
func queryRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := queryDate(c, "startDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryDate(c, "endDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if len(c.Query("endDate")) == len(time.DateOnly) {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, badRequest("endDate must not be before startDate")
	}
	return from, to, nil
}
