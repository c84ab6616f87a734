package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pavelanni/wordgen/internal/i18n"
	"github.com/pavelanni/wordgen/internal/quiz"
)

// Commands understood at the answer prompt.
const (
	cmdPrevious = ":p"
	cmdRestart  = ":r"
	cmdQuit     = ":q"
)

// QuizRunner drives a quiz.Engine from line-based terminal input.
type QuizRunner struct {
	engine *quiz.Engine
	in     *bufio.Reader
	out    io.Writer
	tr     *i18n.Translator
}

// NewQuizRunner creates a runner for engine.
func NewQuizRunner(engine *quiz.Engine, in *bufio.Reader, out io.Writer, tr *i18n.Translator) *QuizRunner {
	return &QuizRunner{engine: engine, in: in, out: out, tr: tr}
}

// Run plays the quiz until the user finishes, quits, or input ends.
func (r *QuizRunner) Run() error {
	for {
		var (
			done bool
			err  error
		)
		switch r.engine.State() {
		case quiz.StateNoData:
			fmt.Fprintln(r.out, r.tr.T("NoQuiz"))
			return nil
		case quiz.StateInProgress:
			done, err = r.ask()
		case quiz.StateShowingAnswer:
			done, err = r.reveal()
		case quiz.StateCompleted:
			done, err = r.finish()
		default:
			return fmt.Errorf("unexpected quiz state %s", r.engine.State())
		}
		if errors.Is(err, io.EOF) {
			if r.engine.State() != quiz.StateCompleted {
				fmt.Fprintln(r.out, r.tr.T("QuizAborted"))
			}
			return nil
		}
		if err != nil || done {
			return err
		}
	}
}

func (r *QuizRunner) ask() (bool, error) {
	q, _ := r.engine.Current()

	fmt.Fprintf(r.out, "\n%s\n%s\n", r.tr.Td("QuizQuestionN", map[string]any{
		"Index": r.engine.Index() + 1,
		"Total": r.engine.Len(),
	}), q.Prompt)
	if q.Type == quiz.MultipleChoice {
		for i, opt := range q.Options {
			fmt.Fprintf(r.out, "  %d) %s\n", i+1, opt)
		}
		fmt.Fprintln(r.out, r.tr.T("QuizOptionHint"))
	} else {
		fmt.Fprintln(r.out, r.tr.T("QuizBlankHint"))
	}
	fmt.Fprintln(r.out, r.tr.T("QuizCommandsHint"))
	if draft := r.engine.Draft(); draft != "" {
		fmt.Fprintln(r.out, r.tr.Td("QuizYourAnswer", map[string]any{"Answer": draft}))
	}

	line, err := GetSimpleText(r.in, "", r.out)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(line) {
	case cmdQuit:
		fmt.Fprintln(r.out, r.tr.T("QuizAborted"))
		return true, nil
	case cmdPrevious:
		if err := r.engine.Previous(); err != nil {
			fmt.Fprintln(r.out, r.tr.T("QuizNoPrevious"))
		}
		return false, nil
	case cmdRestart:
		return false, r.engine.Restart()
	}

	// An empty line keeps the answer given before going back.
	if line == "" {
		line = r.engine.Draft()
	}
	if err := r.engine.SetDraft(line); err != nil {
		return false, err
	}
	err = r.engine.Submit(resolveOption(q, line))
	if errors.Is(err, quiz.ErrAnswerRequired) {
		fmt.Fprintln(r.out, r.tr.T("QuizAnswerRequired"))
		return false, nil
	}
	return false, err
}

// resolveOption maps an option number to its text for multiple choice
// questions. Anything else is returned unchanged.
func resolveOption(q quiz.Question, input string) string {
	if q.Type != quiz.MultipleChoice {
		return input
	}
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(q.Options) {
		return input
	}
	return q.Options[n-1]
}

func (r *QuizRunner) reveal() (bool, error) {
	q, _ := r.engine.Current()
	fmt.Fprintln(r.out, r.tr.Td("QuizCorrectAnswer", map[string]any{"Answer": q.CorrectAnswer}))

	if _, err := GetSimpleText(r.in, r.tr.T("QuizContinue"), r.out); err != nil {
		return false, err
	}
	return false, r.engine.Continue()
}

func (r *QuizRunner) finish() (bool, error) {
	fmt.Fprintf(r.out, "\n%s\n", r.tr.Td("QuizCompleted", map[string]any{
		"Score":   r.engine.Score(),
		"Total":   r.engine.Len(),
		"Percent": r.engine.Percent(),
	}))

	results, err := r.engine.Review()
	if err != nil {
		return false, err
	}
	fmt.Fprintf(r.out, "\n== %s ==\n", r.tr.T("QuizReview"))
	for i, res := range results {
		mark := "x"
		if res.Correct {
			mark = "v"
		}
		fmt.Fprintf(r.out, "[%s] %d. %s\n", mark, i+1, res.Question.Prompt)
		fmt.Fprintf(r.out, "    %s\n", r.tr.Td("QuizYourAnswer", map[string]any{"Answer": res.UserAnswer}))
		if !res.Correct {
			fmt.Fprintf(r.out, "    %s\n", r.tr.Td("QuizCorrectAnswer", map[string]any{"Answer": res.Question.CorrectAnswer}))
		}
	}

	line, err := GetSimpleText(r.in, r.tr.T("QuizRestartPrompt"), r.out)
	if err != nil {
		return false, err
	}
	if strings.EqualFold(line, cmdRestart) {
		return false, r.engine.Restart()
	}
	return true, nil
}
