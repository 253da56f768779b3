package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Frequency is the human-facing repeat granularity of a schedule.
type Frequency string

const (
	Every15Min Frequency = "every_15_min"
	Every30Min Frequency = "every_30_min"
	Hourly     Frequency = "hourly"
	Daily      Frequency = "daily"
	Weekly     Frequency = "weekly"
	Monthly    Frequency = "monthly"
)

// Meridiem is the 12-hour clock half.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// Schedule is the structured description behind a "every day at 3:00 PM"
// style form. Hour12/Meridiem are ignored for the sub-hourly and hourly
// frequencies; DayOfWeek applies only to Weekly and DayOfMonth only to
// Monthly.
type Schedule struct {
	Frequency  Frequency
	Minute     int // 0, 15, 30 or 45
	Hour12     int // 1..12
	Meridiem   Meridiem
	DayOfWeek  int // 0 (Sunday) .. 6, weekly only
	DayOfMonth int // 1..31, monthly only
}

// Decode maps a 5-field cron expression back onto a Schedule. The six
// recognized shapes are checked in order, first match wins. Expressions
// outside those shapes are tolerated: Decode reports ok=false and the
// caller keeps whatever schedule it already had. The expression may be
// hand-edited on the server side, so this must never hard-fail.
func Decode(expr string) (Schedule, bool) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return Schedule{}, false
	}
	minute, hour, dayOfMonth, month, dayOfWeek := fields[0], fields[1], fields[2], fields[3], fields[4]

	if minute == "*/15" && hour == "*" {
		return Schedule{Frequency: Every15Min}, true
	}
	if minute == "*/30" && hour == "*" {
		return Schedule{Frequency: Every30Min}, true
	}

	if minute != "*" && hour == "*" {
		m, err := strconv.Atoi(minute)
		if err != nil {
			return Schedule{}, false
		}
		return Schedule{Frequency: Hourly, Minute: m}, true
	}

	m, err := strconv.Atoi(minute)
	if err != nil {
		return Schedule{}, false
	}
	h, err := strconv.Atoi(hour)
	if err != nil {
		return Schedule{}, false
	}
	hour12, meridiem := fromHour24(h)

	if dayOfMonth == "*" && month == "*" && dayOfWeek == "*" {
		return Schedule{Frequency: Daily, Minute: m, Hour12: hour12, Meridiem: meridiem}, true
	}

	if dayOfMonth == "*" && month == "*" {
		dow, err := strconv.Atoi(dayOfWeek)
		if err != nil {
			return Schedule{}, false
		}
		return Schedule{Frequency: Weekly, Minute: m, Hour12: hour12, Meridiem: meridiem, DayOfWeek: dow}, true
	}

	if dayOfWeek == "*" && month == "*" {
		dom, err := strconv.Atoi(dayOfMonth)
		if err != nil {
			return Schedule{}, false
		}
		return Schedule{Frequency: Monthly, Minute: m, Hour12: hour12, Meridiem: meridiem, DayOfMonth: dom}, true
	}

	return Schedule{}, false
}

// Encode maps a Schedule onto its 5-field cron expression. Encode is
// total over the form's value domains and Decode inverts it exactly.
func Encode(s Schedule) string {
	switch s.Frequency {
	case Every15Min:
		return "*/15 * * * *"
	case Every30Min:
		return "*/30 * * * *"
	case Hourly:
		return fmt.Sprintf("%d * * * *", s.Minute)
	case Weekly:
		return fmt.Sprintf("%d %d * * %d", s.Minute, toHour24(s.Hour12, s.Meridiem), s.DayOfWeek)
	case Monthly:
		return fmt.Sprintf("%d %d %d * *", s.Minute, toHour24(s.Hour12, s.Meridiem), s.DayOfMonth)
	default:
		return fmt.Sprintf("%d %d * * *", s.Minute, toHour24(s.Hour12, s.Meridiem))
	}
}

// fromHour24 converts a 24-hour clock hour to 12-hour plus meridiem.
func fromHour24(h int) (int, Meridiem) {
	switch {
	case h == 0:
		return 12, AM
	case h == 12:
		return 12, PM
	case h < 12:
		return h, AM
	default:
		return h - 12, PM
	}
}

// toHour24 converts a 12-hour clock hour plus meridiem to 24-hour.
func toHour24(hour12 int, meridiem Meridiem) int {
	if meridiem == PM {
		if hour12 == 12 {
			return 12
		}
		return hour12 + 12
	}
	if hour12 == 12 {
		return 0
	}
	return hour12
}

// Validate reports whether expr parses as a standard 5-field cron
// expression.
func Validate(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// NextRun returns the first activation of expr strictly after from.
func NextRun(expr string, from time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return sched.Next(from), nil
}

// Describe renders a schedule in the form's human terms.
func Describe(s Schedule) string {
	switch s.Frequency {
	case Every15Min:
		return "every 15 minutes"
	case Every30Min:
		return "every 30 minutes"
	case Hourly:
		return fmt.Sprintf("every hour at minute %d", s.Minute)
	case Weekly:
		return fmt.Sprintf("every %s at %d:%02d %s", time.Weekday(s.DayOfWeek), s.Hour12, s.Minute, s.Meridiem)
	case Monthly:
		return fmt.Sprintf("every month on day %d at %d:%02d %s", s.DayOfMonth, s.Hour12, s.Minute, s.Meridiem)
	default:
		return fmt.Sprintf("every day at %d:%02d %s", s.Hour12, s.Minute, s.Meridiem)
	}
}
