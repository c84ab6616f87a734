package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"
)

// FS holds the built-in prompt templates.
//
//go:embed templates/*.txt
var FS embed.FS

const (
	// DefaultTerms is how many terms a vocabulary prompt asks for.
	DefaultTerms = 3
	// DefaultPhrases is how many phrases a vocabulary prompt asks for.
	DefaultPhrases = 3
	// DefaultQuestions is how many questions a quiz prompt asks for.
	DefaultQuestions = 5

	maxJobTitleRunes = 200
)

var tagRegex = regexp.MustCompile(`(?i)</?\s*(job-title|vocabulary)\b[^>]*>`)

var (
	loadOnce      sync.Once
	loadErr       error
	vocabTemplate *template.Template
	quizTemplate  *template.Template
)

// VocabularyData holds template data for vocabulary prompts.
type VocabularyData struct {
	JobTitle   string
	NumTerms   int
	NumPhrases int
}

// Total is the number of entries requested.
func (d VocabularyData) Total() int {
	return d.NumTerms + d.NumPhrases
}

// QuizData holds template data for quiz prompts.
type QuizData struct {
	Vocabulary   string
	NumQuestions int
}

// Load parses the prompt templates from fsys.
// It uses sync.Once to ensure templates are loaded only once.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		vocabTemplate, loadErr = parse(fsys, "templates/vocabulary.txt")
		if loadErr != nil {
			return
		}
		quizTemplate, loadErr = parse(fsys, "templates/quiz.txt")
	})
	return loadErr
}

func parse(fsys fs.FS, name string) (*template.Template, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
	}
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template %s: %w", name, err)
	}
	return tmpl, nil
}

// BuildVocabularyPrompt renders the vocabulary prompt for a job title.
func BuildVocabularyPrompt(data VocabularyData) (string, error) {
	if vocabTemplate == nil {
		return "", notLoaded()
	}
	data.JobTitle = SanitizeJobTitle(data.JobTitle)
	if data.JobTitle == "" {
		return "", errors.New("job title is empty")
	}
	if data.NumTerms <= 0 {
		data.NumTerms = DefaultTerms
	}
	if data.NumPhrases <= 0 {
		data.NumPhrases = DefaultPhrases
	}
	return execute(vocabTemplate, data)
}

// BuildQuizPrompt renders the quiz prompt for vocabulary encoded as JSON.
func BuildQuizPrompt(data QuizData) (string, error) {
	if quizTemplate == nil {
		return "", notLoaded()
	}
	data.Vocabulary = tagRegex.ReplaceAllString(data.Vocabulary, "")
	if strings.TrimSpace(data.Vocabulary) == "" {
		return "", errors.New("no vocabulary to build a quiz from")
	}
	if data.NumQuestions <= 0 {
		data.NumQuestions = DefaultQuestions
	}
	return execute(quizTemplate, data)
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func notLoaded() error {
	if loadErr != nil {
		return fmt.Errorf("templates load failed: %w", loadErr)
	}
	return errors.New("templates not initialized: call Load first")
}

// SanitizeJobTitle removes prompt delimiters, collapses whitespace and
// caps the length of a user-supplied job title.
func SanitizeJobTitle(title string) string {
	title = tagRegex.ReplaceAllString(title, "")
	title = strings.Join(strings.Fields(title), " ")
	if utf8.RuneCountInString(title) > maxJobTitleRunes {
		title = string([]rune(title)[:maxJobTitleRunes])
	}
	return title
}
