// Package i18n translates terminal output. Messages live in embedded
// go-i18n JSON files, one per language.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = "en"

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

// loadBundle parses every embedded locale file once.
func loadBundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("json", json.Unmarshal)

		entries, err := localeFS.ReadDir("locales")
		if err != nil {
			bundleErr = fmt.Errorf("read locales dir: %w", err)
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := localeFS.ReadFile("locales/" + e.Name())
			if err != nil {
				bundleErr = fmt.Errorf("read locale file %s: %w", e.Name(), err)
				return
			}
			if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
				bundleErr = fmt.Errorf("parse locale file %s: %w", e.Name(), err)
				return
			}
			slog.Debug("loaded locale file", "file", e.Name())
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Translator localizes messages for one language.
type Translator struct {
	loc  *i18n.Localizer
	lang language.Tag
}

// New returns a translator for lang, falling back to English for messages
// or languages that have no translation.
func New(lang string) (*Translator, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}

	supported := b.LanguageTags()
	_, idx, conf := language.NewMatcher(supported).Match(tag)
	matched := supported[idx]
	if conf == language.No {
		slog.Warn("no translation for language, using English", "lang", lang)
		matched = language.English
	}

	return &Translator{
		loc:  i18n.NewLocalizer(b, matched.String(), DefaultLanguage),
		lang: matched,
	}, nil
}

// Language reports the language messages are rendered in.
func (t *Translator) Language() language.Tag {
	return t.lang
}

// T translates a message by ID.
func (t *Translator) T(msgID string) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func (t *Translator) Td(msgID string, data map[string]any) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message by ID.
func (t *Translator) Tp(msgID string, count int) string {
	return t.localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

func (t *Translator) localize(cfg *i18n.LocalizeConfig) string {
	s, err := t.loc.Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return s
}

type ctxKey struct{}

// WithTranslator stores a translator in the context.
func WithTranslator(ctx context.Context, t *Translator) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the context's translator, or an English one.
func FromContext(ctx context.Context) *Translator {
	if t, ok := ctx.Value(ctxKey{}).(*Translator); ok {
		return t
	}
	t, err := New(DefaultLanguage)
	if err != nil {
		panic(fmt.Sprintf("embedded English locale is broken: %v", err))
	}
	return t
}
