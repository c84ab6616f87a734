package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"

	"github.com/pavelanni/wordgen/internal/llm/prompts"
	"github.com/pavelanni/wordgen/internal/quiz"
	"github.com/pavelanni/wordgen/internal/vocab"
)

// ErrNoJSON is returned when a completion contains no JSON payload.
var ErrNoJSON = errors.New("LLM response contains no JSON")

var fenceRegex = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client and loads the prompt templates.
func New(baseURL, apiKey, modelName string) (*Client, error) {
	if err := prompts.Load(prompts.FS); err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}, nil
}

// Ping checks that the endpoint is reachable and accepts the API key.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// GenerateVocabulary asks the model for terms and phrases tailored to
// jobTitle. The result is a JSON array of records that vocab.Decode accepts.
func (c *Client) GenerateVocabulary(ctx context.Context, jobTitle string) (json.RawMessage, error) {
	prompt, err := prompts.BuildVocabularyPrompt(prompts.VocabularyData{JobTitle: jobTitle})
	if err != nil {
		return nil, fmt.Errorf("build vocabulary prompt: %w", err)
	}

	raw, err := c.complete(ctx, prompt, 0.7)
	if err != nil {
		return nil, err
	}

	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary response: %w (raw: %s)", err, raw)
	}
	records, err := vocab.Decode([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary response: %w (raw: %s)", err, raw)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("LLM returned no vocabulary")
	}

	// Stored as a plain array whatever shape the model chose.
	out, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode vocabulary: %w", err)
	}
	return out, nil
}

// GenerateQuiz asks the model for quiz questions about items.
func (c *Client) GenerateQuiz(ctx context.Context, items []vocab.Item) ([]quiz.Question, error) {
	canonical := lo.Map(items, func(it vocab.Item, _ int) vocab.Record { return vocab.Canonical(it) })
	data, err := json.Marshal(canonical)
	if err != nil {
		return nil, fmt.Errorf("encode vocabulary: %w", err)
	}

	prompt, err := prompts.BuildQuizPrompt(prompts.QuizData{Vocabulary: string(data)})
	if err != nil {
		return nil, fmt.Errorf("build quiz prompt: %w", err)
	}

	raw, err := c.complete(ctx, prompt, 0.5)
	if err != nil {
		return nil, err
	}

	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parse quiz response: %w (raw: %s)", err, raw)
	}
	questions, err := quiz.Decode([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("parse quiz response: %w (raw: %s)", err, raw)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("LLM returned no quiz questions")
	}
	return questions, nil
}

func (c *Client) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)
	return raw, nil
}

// ExtractJSON returns the JSON payload of a completion, dropping markdown
// code fences and any prose around the outermost array or object.
func ExtractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if m := fenceRegex.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	if json.Valid([]byte(s)) {
		return s, nil
	}

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return "", ErrNoJSON
	}
	closer := "]"
	if s[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(s, closer)
	if end < start {
		return "", ErrNoJSON
	}
	candidate := s[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", fmt.Errorf("%w: malformed JSON", ErrNoJSON)
	}
	return candidate, nil
}
