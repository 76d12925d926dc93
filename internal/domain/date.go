package domain

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date 日历日（YYYY-MM-DD），菜单与预约的自然键
type Date string

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", &ValidationError{Field: "date", Msg: "must be a YYYY-MM-DD calendar date"}
	}
	return Date(t.Format(DateLayout)), nil
}

func DateOf(t time.Time) Date { return Date(t.Format(DateLayout)) }

func (d Date) String() string { return string(d) }

func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Calendar 在固定时区下计算“今天”
type Calendar struct {
	Loc *time.Location
	Now func() time.Time
}

func NewCalendar(tz string) (Calendar, error) {
	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return Calendar{}, err
		}
		loc = l
	}
	return Calendar{Loc: loc, Now: time.Now}, nil
}

func (c Calendar) Today() Date {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Loc
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now().In(loc))
}
