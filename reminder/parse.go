package reminder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrBadTimeSpec means the input matched neither supported grammar. It is a
// usage error, not a fault.
var ErrBadTimeSpec = errors.New("unrecognized time format")

var unitDurations = map[string]time.Duration{
	"m":    time.Minute,
	"min":  time.Minute,
	"h":    time.Hour,
	"hour": time.Hour,
	"d":    24 * time.Hour,
	"day":  24 * time.Hour,
}

// TimeSpec is a parsed time expression. Parsing and clock math are separate
// steps: When resolves the spec against a concrete "now", String gives the
// human phrasing used in confirmation replies.
type TimeSpec interface {
	When(now time.Time) time.Time
	String() string
}

// Relative is "in N units from now", e.g. "30m" or "2hour".
type Relative struct {
	Amount int
	Unit   string // normalized lower-case: m, min, h, hour, d, day
}

func (s Relative) When(now time.Time) time.Time {
	return now.Add(time.Duration(s.Amount) * unitDurations[s.Unit])
}

func (s Relative) String() string {
	return fmt.Sprintf("%d%s from now", s.Amount, s.Unit)
}

// Tomorrow is "tomorrow at H am/pm". It always resolves to the next calendar
// day, even when that hour hasn't passed yet today.
type Tomorrow struct {
	Hour     int    // 12-hour clock as typed, 1..12
	Meridiem string // "am" or "pm"
}

func (s Tomorrow) hour24() int {
	h := s.Hour % 12
	if s.Meridiem == "pm" {
		h += 12
	}
	return h
}

func (s Tomorrow) When(now time.Time) time.Time {
	t := now.AddDate(0, 0, 1)
	return time.Date(t.Year(), t.Month(), t.Day(), s.hour24(), 0, 0, 0, now.Location())
}

func (s Tomorrow) String() string {
	return fmt.Sprintf("tomorrow at %d%s", s.Hour, s.Meridiem)
}

var (
	relativeRe = regexp.MustCompile(`(?i)^(\d+)(m|min|h|hour|d|day)\s+(.+)$`)
	tomorrowRe = regexp.MustCompile(`(?i)^tomorrow\s+(\d+)(am|pm)\s+(.+)$`)
)

// Parse splits a reminder argument into its time expression and message. Two
// grammars are recognized, checked in order:
//
//	<N><unit> <message>          unit in m/min/h/hour/d/day
//	tomorrow <H><am|pm> <message>
//
// Anything else, a whitespace-only message, a zero amount or an hour outside
// 1..12 yields ErrBadTimeSpec.
func Parse(input string) (TimeSpec, string, error) {
	input = strings.TrimSpace(input)

	if m := relativeRe.FindStringSubmatch(input); m != nil {
		msg := strings.TrimSpace(m[3])
		amount, err := strconv.Atoi(m[1])
		if msg == "" || err != nil || amount == 0 {
			return nil, "", ErrBadTimeSpec
		}
		return Relative{Amount: amount, Unit: strings.ToLower(m[2])}, msg, nil
	}

	if m := tomorrowRe.FindStringSubmatch(input); m != nil {
		msg := strings.TrimSpace(m[3])
		hour, err := strconv.Atoi(m[1])
		if msg == "" || err != nil || hour < 1 || hour > 12 {
			return nil, "", ErrBadTimeSpec
		}
		return Tomorrow{Hour: hour, Meridiem: strings.ToLower(m[2])}, msg, nil
	}

	return nil, "", ErrBadTimeSpec
}
