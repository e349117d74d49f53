package clock

import (
	"time"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// Formatter renders the time of day shown on the label.
type Formatter func(time.Time) string

// Regions whose conventional clock is 12-hour with an AM/PM marker.
var twelveHour = map[string]bool{
	"US": true, "CA": true, "AU": true, "NZ": true, "PH": true,
	"IN": true, "EG": true, "SA": true, "PK": true, "BD": true,
}

// LocaleFormatter returns the time-of-day format used in tag's region:
// "3:04:05 PM" where a 12-hour clock is customary, "15:04:05" elsewhere.
func LocaleFormatter(tag language.Tag) Formatter {
	region, _ := tag.Region()
	if twelveHour[region.String()] {
		return func(t time.Time) string { return t.Format("3:04:05 PM") }
	}
	return func(t time.Time) string { return t.Format("15:04:05") }
}

// SystemFormatter reads the user's locale and falls back to en-US.
func SystemFormatter() (Formatter, language.Tag) {
	tag := language.AmericanEnglish
	if s, err := locale.GetLocale(); err == nil && s != "" {
		if t, err := language.Parse(s); err == nil {
			tag = t
		}
	}
	return LocaleFormatter(tag), tag
}
