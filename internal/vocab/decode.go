package vocab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// ErrInvalidFormat is returned when a payload is not a list of records.
var ErrInvalidFormat = errors.New("invalid format")

// maxStringDepth bounds how many times a payload may be wrapped in a JSON
// string before it is rejected.
const maxStringDepth = 2

// Decode parses a vocabulary payload. Accepted shapes:
//
//	[{...}, {...}]            a JSON array of records
//	{"0": {...}, "1": {...}}  an object keyed by position
//	"[{...}]"                 either of the above encoded as a JSON string
//
// An empty body, null or an empty string decode to no records.
func Decode(data []byte) ([]Record, error) {
	return decode(data, 0)
}

func decode(data []byte, depth int) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	switch data[0] {
	case '"':
		if depth >= maxStringDepth {
			return nil, fmt.Errorf("%w: payload nested too deeply", ErrInvalidFormat)
		}
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return decode([]byte(inner), depth+1)

	case '[':
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return lo.Filter(records, func(r Record, _ int) bool { return r != nil }), nil

	case '{':
		var byIndex map[string]Record
		if err := json.Unmarshal(data, &byIndex); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return orderedByIndex(byIndex)
	}

	return nil, fmt.Errorf("%w: expected an array of records", ErrInvalidFormat)
}

func orderedByIndex(byIndex map[string]Record) ([]Record, error) {
	type indexed struct {
		pos int
		rec Record
	}
	entries := make([]indexed, 0, len(byIndex))
	for k, rec := range byIndex {
		pos, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric key %q", ErrInvalidFormat, k)
		}
		if rec == nil {
			continue
		}
		entries = append(entries, indexed{pos: pos, rec: rec})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })

	return lo.Map(entries, func(e indexed, _ int) Record { return e.rec }), nil
}
