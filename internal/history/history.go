// Package history groups past generations into relative time buckets.
package history

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"

	"github.com/pavelanni/wordgen/internal/model"
	"github.com/pavelanni/wordgen/internal/vocab"
)

// Bucket names a relative time window.
type Bucket string

const (
	Today      Bucket = "Today"
	Yesterday  Bucket = "Yesterday"
	Last7Days  Bucket = "Last 7 Days"
	Last30Days Bucket = "Last 30 Days"
	Older      Bucket = "Older"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{Today, Yesterday, Last7Days, Last30Days, Older}

// Entry is one generation as shown in the history view.
type Entry struct {
	GeneratedOn string       `json:"generated_on"`
	UserID      string       `json:"user_id"`
	Items       []vocab.Item `json:"items"`
}

// Group holds the entries that fall into one bucket.
type Group struct {
	Bucket  Bucket  `json:"bucket"`
	Entries []Entry `json:"entries"`
}

var dayFirst = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)

// ParseDate parses a generation date. Day-first DD-MM-YYYY values are
// rewritten to YYYY-MM-DD first; anything else goes through a general date
// parser. Dates without a zone are interpreted in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if m := dayFirst.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		return time.ParseInLocation("2006-01-02", iso, loc)
	}
	return dateparse.ParseIn(s, loc)
}

// age returns whole hours and whole days elapsed between t and now. Dates in
// the future yield a negative or zero age.
func age(t, now time.Time) (hours, days int) {
	hours = int(now.Sub(t) / time.Hour)
	return hours, hours / 24
}

// Classify returns the bucket for a date relative to now. Unparseable dates
// are classified as Older.
func Classify(generatedOn string, now time.Time) Bucket {
	t, err := ParseDate(generatedOn, now.Location())
	if err != nil {
		return Older
	}
	hours, days := age(t, now)
	switch {
	case hours < 24:
		return Today
	case days == 1:
		return Yesterday
	case days < 7:
		return Last7Days
	case days < 30:
		return Last30Days
	default:
		return Older
	}
}

// GroupEntries partitions entries into the five buckets. All buckets are
// present in display order; entries keep their input order.
func GroupEntries(entries []Entry, now time.Time) []Group {
	byBucket := lo.GroupBy(entries, func(e Entry) Bucket {
		return Classify(e.GeneratedOn, now)
	})
	return lo.Map(Buckets, func(b Bucket, _ int) Group {
		es := byBucket[b]
		if es == nil {
			es = []Entry{}
		}
		return Group{Bucket: b, Entries: es}
	})
}

// FromRecords converts the /get-history payload into entries. Each
// word_object may be an array, an index-keyed object, or a JSON string
// holding either.
func FromRecords(records []model.HistoryRecord) ([]Entry, error) {
	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		raw, err := vocab.Decode(rec.WordObject)
		if err != nil {
			return nil, fmt.Errorf("history entry %d: %w", i, err)
		}
		entries = append(entries, Entry{
			GeneratedOn: rec.WordsGeneratedOn,
			UserID:      rec.UserID,
			Items:       vocab.NormalizeAll(raw),
		})
	}
	return entries, nil
}
