package handler

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/validation"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseTime accepts RFC 3339 timestamps and plain calendar dates.
func parseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	t, err := time.Parse(time.RFC3339, v)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC 3339, got %q", v)
	}
	return t, nil
}

// Date is a JSON time that also accepts a bare YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	err := json.Unmarshal(b, &s)
	if err != nil {
		return fmt.Errorf("date must be a string")
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := parseTime(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d *Date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func (d *Date) value() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

func queryTime(q url.Values, key string) (time.Time, error) {
	v := q.Get(key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := parseTime(v)
	if err != nil {
		return time.Time{}, validation.Invalid(key, "%s", err.Error())
	}
	return t, nil
}

func queryInt(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, validation.Invalid(key, "must be an integer")
	}
	return n, nil
}

func queryDecimal(q url.Values, key string) (decimal.NullDecimal, error) {
	v := q.Get(key)
	if v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}, validation.Invalid(key, "must be a number")
	}
	return decimal.NewNullDecimal(d), nil
}

// recordFilter reads the listing query shared by expenses and incomes:
// from, to, category, minAmount, maxAmount, search, limit and offset.
func recordFilter(q url.Values) (model.RecordFilter, error) {
	var (
		f   model.RecordFilter
		err error
	)

	f.From, err = queryTime(q, "from")
	if err != nil {
		return f, err
	}
	f.To, err = queryTime(q, "to")
	if err != nil {
		return f, err
	}
	f.MinAmount, err = queryDecimal(q, "minAmount")
	if err != nil {
		return f, err
	}
	f.MaxAmount, err = queryDecimal(q, "maxAmount")
	if err != nil {
		return f, err
	}
	f.Limit, err = queryInt(q, "limit")
	if err != nil {
		return f, err
	}
	f.Offset, err = queryInt(q, "offset")
	if err != nil {
		return f, err
	}

	f.Category = strings.TrimSpace(q.Get("category"))
	f.Search = strings.TrimSpace(q.Get("search"))
	return f, nil
}

func dateRange(q url.Values) (from, to time.Time, err error) {
	from, err = queryTime(q, "from")
	if err != nil {
		return
	}
	to, err = queryTime(q, "to")
	return
}
