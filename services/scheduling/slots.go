package scheduling

import (
	"fmt"
	"time"
)

// SlotMinutes is the fixed size of one bookable slot.
const SlotMinutes = 30

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// RequiredSlotCount converts a service duration to the number of 30-minute
// slots needed: ceil(duration/30), never less than one for a positive duration.
func RequiredSlotCount(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 0
	}
	return (durationMinutes + SlotMinutes - 1) / SlotMinutes
}

// ParseSlotTime validates an "HH:MM" time-of-day aligned to :00 or :30 and
// returns it as minutes from midnight.
func ParseSlotTime(timeOfDay string) (int, error) {
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return 0, NewValidationError("invalid time slot %q: expected HH:MM", timeOfDay)
	}
	if t.Minute()%SlotMinutes != 0 {
		return 0, NewValidationError("invalid time slot %q: must align to :00 or :30", timeOfDay)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatSlotTime renders minutes from midnight as "HH:MM".
func FormatSlotTime(minutes int) string {
	minutes %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GenerateSlotTimes produces count consecutive 30-minute-spaced times starting
// at startTime. Behaviour past midnight is undefined; the allocator never asks
// for a run that long within one day.
func GenerateSlotTimes(startTime string, count int) ([]string, error) {
	start, err := ParseSlotTime(startTime)
	if err != nil {
		return nil, err
	}
	times := make([]string, 0, count)
	for i := 0; i < count; i++ {
		times = append(times, FormatSlotTime(start+i*SlotMinutes))
	}
	return times, nil
}

// ValidateDate checks a "2006-01-02" date string and rejects dates before
// today.
func ValidateDate(date string, now time.Time) error {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return NewValidationError("invalid date %q: expected YYYY-MM-DD", date)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return NewValidationError("date %s is in the past", date)
	}
	return nil
}

// nextDate returns the calendar day after a "2006-01-02" date.
func nextDate(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", NewValidationError("invalid date %q: expected YYYY-MM-DD", date)
	}
	return d.AddDate(0, 0, 1).Format(DateLayout), nil
}
