package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/pavelanni/wordgen/internal/history"
	"github.com/pavelanni/wordgen/internal/i18n"
	"github.com/pavelanni/wordgen/internal/vocab"
)

var bucketMessages = map[history.Bucket]string{
	history.Today:      "BucketToday",
	history.Yesterday:  "BucketYesterday",
	history.Last7Days:  "BucketLast7Days",
	history.Last30Days: "BucketLast30Days",
	history.Older:      "BucketOlder",
}

// BucketLabel translates a history bucket name.
func BucketLabel(tr *i18n.Translator, b history.Bucket) string {
	id, ok := bucketMessages[b]
	if !ok {
		return string(b)
	}
	return tr.T(id)
}

// RelativeLabel translates a "time ago" description.
func RelativeLabel(tr *i18n.Translator, r history.Relative) string {
	switch r.Unit {
	case history.UnitJustNow:
		return tr.T("TimeJustNow")
	case history.UnitHours:
		return tr.Tp("TimeHoursAgo", r.Count)
	case history.UnitYesterday:
		return tr.T("TimeYesterday")
	case history.UnitDays:
		return tr.Tp("TimeDaysAgo", r.Count)
	case history.UnitWeeks:
		return tr.Tp("TimeWeeksAgo", r.Count)
	case history.UnitMonths:
		return tr.Tp("TimeMonthsAgo", r.Count)
	default:
		return tr.T("TimeUnknown")
	}
}

// RenderItems prints vocabulary cards, terms first, then phrases. Items
// with no headword are listed last.
func RenderItems(w io.Writer, tr *i18n.Translator, items []vocab.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, tr.T("NoVocabularyToday"))
		return
	}

	terms, phrases := vocab.Split(items)
	other := lo.Filter(items, func(it vocab.Item, _ int) bool { return it.Kind == vocab.KindUnknown })

	sections := []struct {
		title string
		items []vocab.Item
	}{
		{tr.T("Terms"), terms},
		{tr.T("Phrases"), phrases},
		{tr.T("OtherItems"), other},
	}
	first := true
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprintf(w, "== %s ==\n", s.title)
		for _, it := range s.items {
			renderCard(w, tr, it)
		}
	}
}

func renderCard(w io.Writer, tr *i18n.Translator, it vocab.Item) {
	fmt.Fprintf(w, "\n* %s\n", it.Headword)
	if it.Meaning != "" {
		fmt.Fprintf(w, "  %s: %s\n", tr.T("Meaning"), it.Meaning)
	}
	if len(it.Examples) > 0 {
		fmt.Fprintf(w, "  %s:\n", tr.T("Examples"))
		for i, ex := range it.Examples {
			fmt.Fprintf(w, "    %d. %s\n", i+1, ex)
		}
	}
}

// RenderHistory prints non-empty buckets with a one-line summary per entry.
func RenderHistory(w io.Writer, tr *i18n.Translator, groups []history.Group, now time.Time) {
	total := lo.Reduce(groups, func(n int, g history.Group, _ int) int { return n + len(g.Entries) }, 0)
	if total == 0 {
		fmt.Fprintln(w, tr.T("NoHistory"))
		return
	}

	first := true
	for _, g := range groups {
		if len(g.Entries) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprintf(w, "== %s ==\n", BucketLabel(tr, g.Bucket))
		for _, e := range g.Entries {
			headwords := lo.Map(e.Items, func(it vocab.Item, _ int) string { return it.Headword })
			fmt.Fprintf(w, "%s (%s), %s: %s\n",
				e.GeneratedOn,
				RelativeLabel(tr, history.Since(e.GeneratedOn, now)),
				tr.Tp("ItemCount", len(e.Items)),
				strings.Join(headwords, ", "),
			)
		}
	}
}
