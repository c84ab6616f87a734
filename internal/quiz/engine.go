// Package quiz holds the quiz state machine and its scoring rules.
package quiz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrAnswerRequired is returned when an empty answer is submitted.
	ErrAnswerRequired = errors.New("answer required")
	// ErrInvalidTransition is returned when an action is not allowed in the
	// current state.
	ErrInvalidTransition = errors.New("invalid transition")
)

// State is the phase of a quiz attempt.
type State int

const (
	// StateNoData is terminal: the quiz has no questions.
	StateNoData State = iota
	// StateInProgress waits for an answer to the current question.
	StateInProgress
	// StateShowingAnswer reveals the correct answer before moving on.
	StateShowingAnswer
	// StateCompleted holds the final score.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNoData:
		return "no_data"
	case StateInProgress:
		return "in_progress"
	case StateShowingAnswer:
		return "showing_answer"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the outcome of one question after completion.
type Result struct {
	Question   Question
	UserAnswer string
	Correct    bool
}

// Engine drives one quiz attempt. It is not safe for concurrent use.
type Engine struct {
	questions []Question
	answers   []string
	current   int
	draft     string
	state     State
	score     int
}

// New creates an engine positioned on the first question. With no questions
// the engine starts, and stays, in StateNoData.
func New(questions []Question) *Engine {
	e := &Engine{questions: questions}
	if len(questions) == 0 {
		e.state = StateNoData
		return e
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.answers = make([]string, len(e.questions))
	e.current = 0
	e.draft = ""
	e.score = 0
	e.state = StateInProgress
}

// State returns the current phase.
func (e *Engine) State() State { return e.state }

// Len returns the number of questions.
func (e *Engine) Len() int { return len(e.questions) }

// Index returns the zero-based index of the current question.
func (e *Engine) Index() int { return e.current }

// IsLast reports whether the current question is the final one.
func (e *Engine) IsLast() bool { return e.current == len(e.questions)-1 }

// Current returns the question being answered or revealed.
func (e *Engine) Current() (Question, bool) {
	if e.state == StateNoData || e.state == StateCompleted {
		return Question{}, false
	}
	return e.questions[e.current], true
}

// Draft returns the in-progress answer for the current question.
func (e *Engine) Draft() string { return e.draft }

// Answers returns a copy of the submitted answers; unanswered slots are empty.
func (e *Engine) Answers() []string {
	out := make([]string, len(e.answers))
	copy(out, e.answers)
	return out
}

// Score returns the final score. It is zero until the quiz is completed.
func (e *Engine) Score() int { return e.score }

// SetDraft replaces the draft answer for the current question.
func (e *Engine) SetDraft(text string) error {
	if e.state != StateInProgress {
		return e.transitionErr("edit answer")
	}
	e.draft = text
	return nil
}

// Submit records text as the answer to the current question. Blank answers
// are rejected without changing state. Submitting the last answer completes
// the quiz and computes the score; otherwise the correct answer is shown.
func (e *Engine) Submit(text string) error {
	if e.state != StateInProgress {
		return e.transitionErr("submit")
	}
	if strings.TrimSpace(text) == "" {
		return ErrAnswerRequired
	}

	e.answers[e.current] = text
	e.draft = text

	if e.IsLast() {
		e.score = Score(e.questions, e.answers)
		e.state = StateCompleted
		return nil
	}
	e.state = StateShowingAnswer
	return nil
}

// Continue leaves the answer reveal and moves to the next question with an
// empty draft.
func (e *Engine) Continue() error {
	if e.state != StateShowingAnswer {
		return e.transitionErr("continue")
	}
	e.current++
	e.draft = ""
	e.state = StateInProgress
	return nil
}

// Previous moves back one question and restores its submitted answer as the
// draft.
func (e *Engine) Previous() error {
	if e.state != StateInProgress || e.current == 0 {
		return e.transitionErr("go to previous")
	}
	e.current--
	e.draft = e.answers[e.current]
	return nil
}

// Restart clears every answer and returns to the first question.
func (e *Engine) Restart() error {
	if e.state == StateNoData {
		return e.transitionErr("restart")
	}
	e.reset()
	return nil
}

// Review lists each question with the submitted answer. It is only
// available once the quiz is completed.
func (e *Engine) Review() ([]Result, error) {
	if e.state != StateCompleted {
		return nil, e.transitionErr("review")
	}
	return lo.Map(e.questions, func(q Question, i int) Result {
		return Result{
			Question:   q,
			UserAnswer: e.answers[i],
			Correct:    Matches(e.answers[i], q.CorrectAnswer),
		}
	}), nil
}

// Percent returns the score as a rounded percentage of the question count.
func (e *Engine) Percent() int {
	if len(e.questions) == 0 {
		return 0
	}
	return (e.score*200 + len(e.questions)) / (2 * len(e.questions))
}

func (e *Engine) transitionErr(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, e.state)
}

// Matches compares an answer against the correct one after trimming and
// lowercasing both. Unlike full case folding, the long s does not match s.
func Matches(answer, correct string) bool {
	return strings.ToLower(strings.TrimSpace(answer)) == strings.ToLower(strings.TrimSpace(correct))
}

// Score counts the answers that match their question's correct answer.
func Score(questions []Question, answers []string) int {
	n := 0
	for i, q := range questions {
		if i < len(answers) && Matches(answers[i], q.CorrectAnswer) {
			n++
		}
	}
	return n
}
