package callvolume

import (
	"strconv"
)

const (
	minutesPerDay  = 24 * 60
	minutesPerWeek = 7 * minutesPerDay
)

// DayTime is one end of an opening period in Google Places form: Day 0 is Sunday,
// Time is "HHMM" in local time.
type DayTime struct {
	Day  int    `json:"day"`
	Time string `json:"time"`
}

// OpeningPeriod is a Google Places opening_hours period. A nil Close means the
// business never closes.
type OpeningPeriod struct {
	Open  DayTime  `json:"open"`
	Close *DayTime `json:"close,omitempty"`
}

// HoursFromPeriods returns the number of hours per week the periods cover. Periods
// that run past Saturday night wrap into Sunday. Malformed periods are skipped and
// the result is clamped to [0, 168].
func HoursFromPeriods(periods []OpeningPeriod) float64 {
	var minutes int
	for _, p := range periods {
		if p.Close == nil {
			return HoursPerWeek
		}
		open, ok := minuteOfWeek(p.Open)
		if !ok {
			continue
		}
		closing, ok := minuteOfWeek(*p.Close)
		if !ok {
			continue
		}
		span := closing - open
		if span <= 0 {
			span += minutesPerWeek
		}
		minutes += span
	}

	hours := float64(minutes) / 60
	if hours > HoursPerWeek {
		return HoursPerWeek
	}
	return hours
}

func minuteOfWeek(dt DayTime) (int, bool) {
	if dt.Day < 0 || dt.Day > 6 || len(dt.Time) != 4 {
		return 0, false
	}
	hh, err := strconv.Atoi(dt.Time[:2])
	if err != nil || hh < 0 || hh > 24 {
		return 0, false
	}
	mm, err := strconv.Atoi(dt.Time[2:])
	if err != nil || mm < 0 || mm > 59 || (hh == 24 && mm != 0) {
		return 0, false
	}
	return dt.Day*minutesPerDay + hh*60 + mm, true
}
