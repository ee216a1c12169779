package domain

import "time"

// AdultAge is the minimum age for a policy holder.
const AdultAge = 18

// AgeAt returns the number of completed years between birthDate and the
// calendar day of now, read in now's own location. birthDate is a calendar
// date; its clock and zone are ignored. A birth date in the future yields 0.
// Someone born on 29 Feb completes a year on 1 Mar in non-leap years.
func AgeAt(birthDate, now time.Time) int {
	birth := calendarDay(birthDate)
	today := calendarDay(now)
	if today.Before(birth) {
		return 0
	}
	years := today.Year() - birth.Year()
	if birth.AddDate(years, 0, 0).After(today) {
		years--
	}
	return years
}

// IsAdult reports whether AgeAt(birthDate, now) has reached AdultAge. The
// 18th birthday itself counts.
func IsAdult(birthDate, now time.Time) bool {
	return AgeAt(birthDate, now) >= AdultAge
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
