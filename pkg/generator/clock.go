package generator

import (
	"strconv"
	"time"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

// Clock supplies the time used for the month/year execution caption.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

var tamilMonths = [...]string{
	"ஜனவரி", "பிப்ரவரி", "மார்ச்", "ஏப்ரல்", "மே", "ஜூன்",
	"ஜூலை", "ஆகஸ்ட்", "செப்டம்பர்", "அக்டோபர்", "நவம்பர்", "டிசம்பர்",
}

// MonthYear formats t as "October 2026" or "அக்டோபர் 2026".
func MonthYear(t time.Time, lang model.Language) string {
	if lang == model.Tamil {
		return tamilMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
	}
	return t.Format("January 2006")
}
