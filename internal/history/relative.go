package history

import (
	"fmt"
	"time"
)

// Unit is the granularity of a relative time label.
type Unit string

const (
	UnitUnknown   Unit = "unknown"
	UnitJustNow   Unit = "just_now"
	UnitHours     Unit = "hours"
	UnitYesterday Unit = "yesterday"
	UnitDays      Unit = "days"
	UnitWeeks     Unit = "weeks"
	UnitMonths    Unit = "months"
)

// Relative is a coarse "time ago" description of a date.
type Relative struct {
	Unit  Unit
	Count int
}

// Since describes how long ago generatedOn was, relative to now.
func Since(generatedOn string, now time.Time) Relative {
	t, err := ParseDate(generatedOn, now.Location())
	if err != nil {
		return Relative{Unit: UnitUnknown}
	}
	hours, days := age(t, now)
	switch {
	case hours < 1:
		return Relative{Unit: UnitJustNow}
	case hours < 24:
		return Relative{Unit: UnitHours, Count: hours}
	case days == 1:
		return Relative{Unit: UnitYesterday, Count: 1}
	case days < 7:
		return Relative{Unit: UnitDays, Count: days}
	case days < 30:
		return Relative{Unit: UnitWeeks, Count: days / 7}
	default:
		return Relative{Unit: UnitMonths, Count: days / 30}
	}
}

// String renders the label in English.
func (r Relative) String() string {
	switch r.Unit {
	case UnitJustNow:
		return "Just now"
	case UnitHours:
		return plural(r.Count, "hour")
	case UnitYesterday:
		return "Yesterday"
	case UnitDays:
		return plural(r.Count, "day")
	case UnitWeeks:
		return plural(r.Count, "week")
	case UnitMonths:
		return plural(r.Count, "month")
	default:
		return "Unknown date"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
