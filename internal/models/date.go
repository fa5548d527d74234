package models

import (
	"fmt"
	"math"
)

const (
	SecondsInMinute = 60
	MinutesInHour   = 60
	HoursInDay      = 24
	DaysInWeek      = 7
	MonthsInYear    = 12
	SecondsInDay    = HoursInDay * MinutesInHour * SecondsInMinute
)

var daysInMonth = [MonthsInYear]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInYear is the length of every in-game year
const DaysInYear = 365

var monthNames = [MonthsInYear]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
var weekdayNames = [DaysInWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DaysInMonth returns the number of days of a zero-based month
func DaysInMonth(month int) int {
	return daysInMonth[month%MonthsInYear]
}

// Phase is the part of the day
type Phase int

const (
	PhaseDawn Phase = iota
	PhaseMorning
	PhaseNoon
	PhaseAfternoon
	PhaseDusk
	PhaseNight
)

func (p Phase) String() string {
	switch p {
	case PhaseDawn:
		return "dawn"
	case PhaseMorning:
		return "morning"
	case PhaseNoon:
		return "noon"
	case PhaseAfternoon:
		return "afternoon"
	case PhaseDusk:
		return "dusk"
	}
	return "night"
}

// Random is the subset of a random source needed to draw dates
type Random interface {
	Intn(n int) int
}

// Date is an in-game calendar date. Month, day of week are zero-based, Day is one-based.
type Date struct {
	Year    int
	Month   int
	Day     int
	Weekday int
	Hours   int
	Minutes int
	Seconds int
}

// RandomDate draws a date at noon on a random day of the year
func RandomDate(r Random) Date {
	month := r.Intn(MonthsInYear)
	return Date{
		Month:   month,
		Day:     r.Intn(DaysInMonth(month)) + 1,
		Weekday: r.Intn(DaysInWeek),
		Hours:   12,
		Minutes: r.Intn(MinutesInHour),
		Seconds: r.Intn(SecondsInMinute),
	}
}

// AddSeconds advances the date, rolling over days, months and years
func (d *Date) AddSeconds(duration int) {
	d.Seconds += duration

	if d.Seconds >= SecondsInMinute {
		d.Minutes += d.Seconds / SecondsInMinute
		d.Seconds %= SecondsInMinute
	}

	if d.Minutes >= MinutesInHour {
		d.Hours += d.Minutes / MinutesInHour
		d.Minutes %= MinutesInHour
	}

	for d.Hours >= HoursInDay {
		d.Day++
		d.Weekday = (d.Weekday + 1) % DaysInWeek

		if d.Day > DaysInMonth(d.Month) {
			d.Day = 1
			d.Month = (d.Month + 1) % MonthsInYear

			if d.Month == 0 {
				d.Year++
			}
		}

		d.Hours -= HoursInDay
	}
}

// Plus returns a copy of the date advanced by a duration in seconds
func (d Date) Plus(duration int) Date {
	d.AddSeconds(duration)
	return d
}

func (d Date) key() [6]int {
	return [6]int{d.Year, d.Month, d.Day, d.Hours, d.Minutes, d.Seconds}
}

// Before reports whether d is strictly earlier than o. The weekday is derived and ignored.
func (d Date) Before(o Date) bool {
	a, b := d.key(), o.key()
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Equal compares two dates ignoring the weekday
func (d Date) Equal(o Date) bool {
	return d.key() == o.key()
}

// DayOfYear returns the zero-based day index since the 1st of January
func (d Date) DayOfYear() int {
	days := 0
	for m := 0; m < d.Month; m++ {
		days += DaysInMonth(m)
	}
	return days + d.Day - 1
}

// Phase computes the part of the day from a seasonal daylight curve
func (d Date) Phase() Phase {
	const noon = SecondsInDay / 2
	const halfHour = 30 * SecondsInMinute
	equinox := DaysInMonth(0) + DaysInMonth(1) + 21

	daylight := noon + int(4*MinutesInHour*SecondsInMinute*math.Sin(2*math.Pi*float64(d.DayOfYear()-equinox)/DaysInYear))
	sunrise := noon - daylight/2
	sunset := sunrise + daylight

	past := d.Hours*MinutesInHour*SecondsInMinute + d.Minutes*SecondsInMinute + d.Seconds

	switch {
	case past < sunrise-halfHour:
		return PhaseNight
	case past < sunrise:
		return PhaseDawn
	case past < noon-halfHour:
		return PhaseMorning
	case past < noon+halfHour:
		return PhaseNoon
	case past < sunset:
		return PhaseAfternoon
	case past < sunset+halfHour:
		return PhaseDusk
	}
	return PhaseNight
}

func (d Date) String() string {
	return fmt.Sprintf("%s %02d %s %02d:%02d:%02d", weekdayNames[d.Weekday%DaysInWeek], d.Day, monthNames[d.Month%MonthsInYear], d.Hours, d.Minutes, d.Seconds)
}
