package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/pavelanni/wordgen/internal/model"
)

// ErrInvalidFormat is returned when a quiz payload cannot be decoded.
var ErrInvalidFormat = errors.New("invalid quiz format")

// QuestionType is the kind of answer a question expects.
type QuestionType string

const (
	// Blank is a free-text fill-in-the-blank question.
	Blank QuestionType = "Blank"
	// MultipleChoice offers a fixed set of options.
	MultipleChoice QuestionType = "MCQ"
)

// Question is a single quiz question.
type Question struct {
	Prompt        string       `json:"prompt"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
}

// Decode parses a quiz payload: a JSON array of wire questions, or a JSON
// string containing such an array.
//
// The declared Type is honoured when it is consistent with the options:
// "MCQ" with no options becomes Blank, and an unrecognised Type is decided
// by whether options are present.
func Decode(data []byte) ([]Question, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		data = bytes.TrimSpace([]byte(inner))
	}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] != '[' {
		return nil, fmt.Errorf("%w: expected an array of questions", ErrInvalidFormat)
	}

	var items []model.QuizItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	questions := make([]Question, 0, len(items))
	for i, it := range items {
		q, err := FromWire(it)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// FromWire validates a wire question and converts it.
func FromWire(it model.QuizItem) (Question, error) {
	prompt := strings.TrimSpace(it.Question)
	if prompt == "" {
		return Question{}, fmt.Errorf("%w: empty question text", ErrInvalidFormat)
	}
	if strings.TrimSpace(it.Answer) == "" {
		return Question{}, fmt.Errorf("%w: empty answer", ErrInvalidFormat)
	}

	options := lo.Filter(it.Options, func(o string, _ int) bool { return strings.TrimSpace(o) != "" })

	var typ QuestionType
	switch {
	case strings.EqualFold(it.Type, string(Blank)):
		typ = Blank
	case len(options) > 0:
		typ = MultipleChoice
	default:
		typ = Blank
	}
	if typ == Blank {
		options = nil
	}

	return Question{
		Prompt:        prompt,
		Type:          typ,
		Options:       options,
		CorrectAnswer: it.Answer,
	}, nil
}

// ToWire converts a question into its wire shape.
func ToWire(q Question) model.QuizItem {
	return model.QuizItem{
		Question: q.Prompt,
		Type:     string(q.Type),
		Options:  q.Options,
		Answer:   q.CorrectAnswer,
	}
}
