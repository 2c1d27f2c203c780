package types

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar date without time of day, encoded as "YYYY-MM-DD" on the wire
type Date struct {
	time.Time
}

func ParseDate(s string) (*Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}

	return &Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(bs []byte) error {
	if bytes.Equal(bs, []byte("null")) {
		return nil
	}

	s, err := strconv.Unquote(string(bs))
	if err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	// Some backends serialize LocalDate as a full timestamp
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}

	d.Time = t
	return nil
}
