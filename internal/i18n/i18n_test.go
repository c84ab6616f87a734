package i18n

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

func newTranslator(t *testing.T, lang string) *Translator {
	t.Helper()
	tr, err := New(lang)
	if err != nil {
		t.Fatalf("New(%q): %v", lang, err)
	}
	return tr
}

func TestTranslateEnglish(t *testing.T) {
	tr := newTranslator(t, "en")

	if got := tr.T("BucketLast7Days"); got != "Last 7 Days" {
		t.Errorf("T(BucketLast7Days) = %q, want 'Last 7 Days'", got)
	}
	if got := tr.T("TimeUnknown"); got != "Unknown date" {
		t.Errorf("T(TimeUnknown) = %q, want 'Unknown date'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	tr := newTranslator(t, "ru")

	if got := tr.T("BucketToday"); got != "Сегодня" {
		t.Errorf("T(BucketToday) = %q, want 'Сегодня'", got)
	}
	if got := tr.Language().String(); got != "ru" {
		t.Errorf("Language() = %q, want ru", got)
	}
}

func TestRegionalVariantMatches(t *testing.T) {
	tr := newTranslator(t, "ru-RU")

	if got := tr.T("Terms"); got != "Термины" {
		t.Errorf("T(Terms) for ru-RU = %q, want 'Термины'", got)
	}
}

func TestUnsupportedLanguageFallsBack(t *testing.T) {
	tr := newTranslator(t, "ja")

	if got := tr.T("BucketOlder"); got != "Older" {
		t.Errorf("T(BucketOlder) for ja = %q, want 'Older'", got)
	}
}

func TestInvalidLanguage(t *testing.T) {
	if _, err := New("not a language!"); err == nil {
		t.Error("expected error for malformed language tag")
	}
}

func TestPluralTranslation(t *testing.T) {
	en := newTranslator(t, "en")
	if got := en.Tp("TimeHoursAgo", 1); got != "1 hour ago" {
		t.Errorf("Tp(TimeHoursAgo, 1) = %q", got)
	}
	if got := en.Tp("TimeHoursAgo", 5); got != "5 hours ago" {
		t.Errorf("Tp(TimeHoursAgo, 5) = %q", got)
	}

	ru := newTranslator(t, "ru")
	tests := []struct {
		count int
		want  string
	}{
		{1, "1 день назад"},
		{3, "3 дня назад"},
		{5, "5 дней назад"},
		{21, "21 день назад"},
	}
	for _, tt := range tests {
		if got := ru.Tp("TimeDaysAgo", tt.count); got != tt.want {
			t.Errorf("ru Tp(TimeDaysAgo, %d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	tr := newTranslator(t, "en")

	got := tr.Td("QuizCompleted", map[string]any{"Score": 2, "Total": 3, "Percent": 67})
	if got != "Quiz completed! Score: 2/3 (67%)" {
		t.Errorf("Td(QuizCompleted) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	tr := newTranslator(t, "en")

	if got := tr.T("NonExistentKey"); got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestContext(t *testing.T) {
	ru := newTranslator(t, "ru")
	ctx := WithTranslator(context.Background(), ru)

	if got := FromContext(ctx).T("Phrases"); got != "Фразы" {
		t.Errorf("FromContext(ctx).T(Phrases) = %q", got)
	}
	if got := FromContext(context.Background()).T("Phrases"); got != "Phrases" {
		t.Errorf("fallback translator gave %q", got)
	}
}

func TestLocaleFilesParse(t *testing.T) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	ids := map[string][]string{}
	for _, e := range entries {
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", e.Name(), err)
		}
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("json", json.Unmarshal)
		mf, err := b.ParseMessageFileBytes(data, e.Name())
		if err != nil {
			t.Fatalf("parse %s: %v", e.Name(), err)
		}
		for _, m := range mf.Messages {
			ids[e.Name()] = append(ids[e.Name()], m.ID)
		}
	}

	en := ids["en.json"]
	if len(en) == 0 {
		t.Fatal("en.json has no messages")
	}
	for name, got := range ids {
		if len(got) != len(en) {
			t.Errorf("%s has %d messages, en.json has %d", name, len(got), len(en))
		}
	}
}

func TestOtherItemsLabel(t *testing.T) {
	if got := newTranslator(t, "en").T("OtherItems"); got != "Other" {
		t.Errorf("en OtherItems = %q, want Other", got)
	}
	if got := newTranslator(t, "ru").T("OtherItems"); got != "Прочее" {
		t.Errorf("ru OtherItems = %q, want Прочее", got)
	}
}
