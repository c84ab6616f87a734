package quiz

import (
	"errors"
	"testing"
)

func capitals() []Question {
	return []Question{
		{Prompt: "Capital of France?", Type: Blank, CorrectAnswer: "Paris"},
		{Prompt: "Capital of France, again?", Type: MultipleChoice, Options: []string{"Paris", "Lyon"}, CorrectAnswer: "Paris"},
		{Prompt: "Capital of Italy?", Type: Blank, CorrectAnswer: "Rome"},
	}
}

func answerAll(t *testing.T, e *Engine, answers ...string) {
	t.Helper()
	for i, a := range answers {
		if err := e.Submit(a); err != nil {
			t.Fatalf("Submit(%q): %v", a, err)
		}
		if i < len(answers)-1 {
			if err := e.Continue(); err != nil {
				t.Fatalf("Continue: %v", err)
			}
		}
	}
}

func TestScoringIgnoresCaseAndWhitespace(t *testing.T) {
	e := New(capitals())
	answerAll(t, e, "Paris", "paris ", "WRONG")

	if e.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", e.State())
	}
	if e.Score() != 2 {
		t.Errorf("score = %d, want 2", e.Score())
	}
	if e.Percent() != 67 {
		t.Errorf("percent = %d, want 67", e.Percent())
	}

	review, err := e.Review()
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	wantCorrect := []bool{true, true, false}
	for i, r := range review {
		if r.Correct != wantCorrect[i] {
			t.Errorf("review[%d].Correct = %v, want %v", i, r.Correct, wantCorrect[i])
		}
	}
	if review[1].UserAnswer != "paris " {
		t.Errorf("answers should be stored verbatim, got %q", review[1].UserAnswer)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		answer, correct string
		want            bool
	}{
		{"Paris", "paris", true},
		{"  ROME\t", "Rome", true},
		{"Straße", "STRASSE", false},
		{"ſtat", "stat", false},
		{"\u212Aelvin", "kelvin", true},
		{"", "x", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.answer, tt.correct); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.answer, tt.correct, got, tt.want)
		}
	}
}

func TestSubmitRejectsBlank(t *testing.T) {
	e := New(capitals())
	for _, blank := range []string{"", "   ", "\t\n"} {
		err := e.Submit(blank)
		if !errors.Is(err, ErrAnswerRequired) {
			t.Fatalf("Submit(%q) error = %v, want ErrAnswerRequired", blank, err)
		}
	}
	if e.Index() != 0 || e.State() != StateInProgress {
		t.Errorf("blank submit moved engine to %s/%d", e.State(), e.Index())
	}
	for i, a := range e.Answers() {
		if a != "" {
			t.Errorf("answers[%d] = %q, want empty", i, a)
		}
	}
}

func TestTransitions(t *testing.T) {
	e := New(capitals())

	if err := e.Continue(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Continue in progress: %v", err)
	}
	if err := e.Previous(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Previous on first question: %v", err)
	}

	if err := e.Submit("Paris"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if e.State() != StateShowingAnswer {
		t.Fatalf("state = %s, want showing_answer", e.State())
	}
	if err := e.Submit("again"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Submit while showing answer: %v", err)
	}
	if err := e.Previous(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Previous while showing answer: %v", err)
	}
	if err := e.SetDraft("x"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SetDraft while showing answer: %v", err)
	}

	if err := e.Continue(); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if e.Index() != 1 || e.Draft() != "" {
		t.Errorf("after Continue: index %d draft %q", e.Index(), e.Draft())
	}

	if err := e.SetDraft("Lyon"); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if err := e.Previous(); err != nil {
		t.Fatalf("Previous: %v", err)
	}
	if e.Index() != 0 || e.Draft() != "Paris" {
		t.Errorf("after Previous: index %d draft %q", e.Index(), e.Draft())
	}
	if e.State() != StateInProgress {
		t.Errorf("state = %s after Previous", e.State())
	}
	if _, err := e.Review(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Review before completion: %v", err)
	}
}

func TestResubmitAfterPrevious(t *testing.T) {
	e := New(capitals())
	if err := e.Submit("Lyon"); err != nil {
		t.Fatal(err)
	}
	if err := e.Continue(); err != nil {
		t.Fatal(err)
	}
	if err := e.Previous(); err != nil {
		t.Fatal(err)
	}
	if err := e.Submit("Paris"); err != nil {
		t.Fatal(err)
	}
	if got := e.Answers()[0]; got != "Paris" {
		t.Errorf("answers[0] = %q, want Paris", got)
	}
}

func TestRestart(t *testing.T) {
	e := New(capitals())
	answerAll(t, e, "Paris", "Paris", "Rome")
	if e.Score() != 3 {
		t.Fatalf("first pass score = %d, want 3", e.Score())
	}

	if err := e.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if e.State() != StateInProgress || e.Index() != 0 || e.Score() != 0 {
		t.Errorf("after Restart: %s index %d score %d", e.State(), e.Index(), e.Score())
	}
	answers := e.Answers()
	if len(answers) != 3 {
		t.Fatalf("answers length = %d, want 3", len(answers))
	}
	for i, a := range answers {
		if a != "" {
			t.Errorf("answers[%d] = %q after restart", i, a)
		}
	}

	answerAll(t, e, "Berlin", "Paris", "Madrid")
	if e.Score() != 1 {
		t.Errorf("second pass score = %d, want 1", e.Score())
	}
}

func TestNoData(t *testing.T) {
	e := New(nil)
	if e.State() != StateNoData {
		t.Fatalf("state = %s, want no_data", e.State())
	}
	if _, ok := e.Current(); ok {
		t.Error("Current should report no question")
	}
	for name, fn := range map[string]func() error{
		"Submit":   func() error { return e.Submit("x") },
		"Continue": e.Continue,
		"Previous": e.Previous,
		"Restart":  e.Restart,
	} {
		if err := fn(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s in no_data: %v", name, err)
		}
	}
	if e.Percent() != 0 {
		t.Errorf("Percent = %d", e.Percent())
	}
}

func TestSingleQuestionCompletesImmediately(t *testing.T) {
	e := New([]Question{{Prompt: "2+2?", Type: Blank, CorrectAnswer: "4"}})
	if err := e.Submit(" 4 "); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateCompleted || e.Score() != 1 {
		t.Errorf("state %s score %d", e.State(), e.Score())
	}
}
