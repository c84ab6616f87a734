package quiz

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	payload := `[
		{"Question": "The team will ____ the feature first.", "Type": "Blank", "Answer": "prototype"},
		{"Question": "What is an API?", "Type": "MCQ", "Options": ["A rule set", "A database", "", "A bug"], "Answer": "A rule set"}
	]`

	qs, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Type != Blank || qs[0].Options != nil || qs[0].CorrectAnswer != "prototype" {
		t.Errorf("blank question = %+v", qs[0])
	}
	if qs[1].Type != MultipleChoice {
		t.Errorf("second type = %q", qs[1].Type)
	}
	if want := []string{"A rule set", "A database", "A bug"}; !reflect.DeepEqual(qs[1].Options, want) {
		t.Errorf("options = %v, want %v", qs[1].Options, want)
	}
}

func TestDecodeStringEncoded(t *testing.T) {
	qs, err := Decode([]byte(`"[{\"Question\":\"Q\",\"Type\":\"Blank\",\"Answer\":\"A\"}]"`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(qs) != 1 || qs[0].Prompt != "Q" {
		t.Errorf("questions = %+v", qs)
	}
}

func TestDecodeTypeResolution(t *testing.T) {
	qs, err := Decode([]byte(`[
		{"Question":"a","Type":"MCQ","Answer":"x"},
		{"Question":"b","Type":"Fill-in","Options":["x","y"],"Answer":"x"},
		{"Question":"c","Type":"mcq","Options":["x"],"Answer":"x"},
		{"Question":"d","Type":"blank","Options":["x"],"Answer":"x"}
	]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []QuestionType{Blank, MultipleChoice, MultipleChoice, Blank}
	for i, q := range qs {
		if q.Type != want[i] {
			t.Errorf("question %d type = %q, want %q", i, q.Type, want[i])
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"object":       `{"Question":"a"}`,
		"number":       `12`,
		"no answer":    `[{"Question":"a","Type":"Blank","Answer":"  "}]`,
		"no question":  `[{"Question":"","Type":"Blank","Answer":"a"}]`,
		"wrong fields": `[{"Question":1}]`,
		"bad string":   `"not json"`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode([]byte(in)); !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("expected ErrInvalidFormat, got %v", err)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, in := range []string{``, `null`, `""`, `[]`} {
		qs, err := Decode([]byte(in))
		if err != nil {
			t.Errorf("Decode(%q): %v", in, err)
		}
		if len(qs) != 0 {
			t.Errorf("Decode(%q) = %v", in, qs)
		}
	}
}

func TestToWire(t *testing.T) {
	q := Question{Prompt: "p", Type: MultipleChoice, Options: []string{"a", "b"}, CorrectAnswer: "a"}
	w := ToWire(q)
	back, err := FromWire(w)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if !reflect.DeepEqual(back, q) {
		t.Errorf("round trip = %+v, want %+v", back, q)
	}
}
