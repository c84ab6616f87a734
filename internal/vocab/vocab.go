// Package vocab turns loosely shaped vocabulary records from the backend into
// a single canonical shape.
//
// The generator behind the backend is an LLM, so the same field shows up under
// several spellings ("Simple Meaning", "simple meaning", "meaning", ...). Every
// field is resolved through a fixed priority list; the first non-blank string
// wins. Headword precedence is Phrase, phrase, Term, term.
package vocab

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Kind tells whether an item is a phrase or a single term.
type Kind string

const (
	// KindUnknown is used when a record carries neither a phrase nor a term.
	KindUnknown Kind = "unknown"
	// KindPhrase is a multi-word expression used in meetings.
	KindPhrase Kind = "phrase"
	// KindTerm is a technical term.
	KindTerm Kind = "term"
)

// Untitled is the headword given to records without a phrase or term.
const Untitled = "Untitled"

// MaxExamples is the number of example usages a record can carry.
const MaxExamples = 3

// Record is a raw vocabulary record as decoded from JSON.
type Record map[string]any

// Item is a normalized vocabulary record.
type Item struct {
	Kind     Kind     `json:"kind"`
	Headword string   `json:"headword"`
	Meaning  string   `json:"meaning"`
	Examples []string `json:"examples"`
}

var (
	phraseKeys  = []string{"Phrase", "phrase"}
	termKeys    = []string{"Term", "term"}
	meaningKeys = []string{"Simple Meaning", "simple meaning", "Simple meaning", "simple_meaning", "meaning"}
)

func exampleKeys(n int) []string {
	return []string{
		fmt.Sprintf("Example Usage %d", n),
		fmt.Sprintf("example usage %d", n),
		fmt.Sprintf("Example usage %d", n),
		fmt.Sprintf("example_usage_%d", n),
		fmt.Sprintf("usage%d", n),
	}
}

// Normalize maps one raw record onto an Item. Missing fields fall back to
// defaults; it never fails.
func Normalize(r Record) Item {
	item := Item{Kind: KindUnknown, Headword: Untitled, Examples: []string{}}

	if v := firstString(r, phraseKeys); v != "" {
		item.Kind, item.Headword = KindPhrase, v
	} else if v := firstString(r, termKeys); v != "" {
		item.Kind, item.Headword = KindTerm, v
	}

	item.Meaning = firstString(r, meaningKeys)

	for n := 1; n <= MaxExamples; n++ {
		if ex := firstString(r, exampleKeys(n)); ex != "" {
			item.Examples = append(item.Examples, ex)
		}
	}
	return item
}

// NormalizeAll normalizes records in order.
func NormalizeAll(records []Record) []Item {
	return lo.Map(records, func(r Record, _ int) Item {
		return Normalize(r)
	})
}

// Split separates terms from phrases, keeping input order. Items of unknown
// kind belong to neither group.
func Split(items []Item) (terms, phrases []Item) {
	terms = lo.Filter(items, func(it Item, _ int) bool { return it.Kind == KindTerm })
	phrases = lo.Filter(items, func(it Item, _ int) bool { return it.Kind == KindPhrase })
	return terms, phrases
}

// Canonical renders an item back into a record using the canonical key
// spellings.
func Canonical(it Item) Record {
	r := Record{"Simple Meaning": it.Meaning}
	switch it.Kind {
	case KindPhrase:
		r["Phrase"] = it.Headword
	case KindTerm:
		r["Term"] = it.Headword
	}
	for i, ex := range it.Examples {
		if i >= MaxExamples {
			break
		}
		r[fmt.Sprintf("Example Usage %d", i+1)] = ex
	}
	return r
}

// firstString returns the first value among keys that is a string with
// non-blank content, trimmed.
func firstString(r Record, keys []string) string {
	for _, k := range keys {
		s, ok := r[k].(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
