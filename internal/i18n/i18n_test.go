package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pavelanni/assessor/internal/evaluation"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "Assessor" {
		t.Errorf("T(AppTitle) = %q, want 'Assessor'", got)
	}

	got = T(ctx, "ReportNotFound")
	if got != "Feedback report not found" {
		t.Errorf("T(ReportNotFound) = %q, want 'Feedback report not found'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "AppTitle")
	if got != "Ассессор" {
		t.Errorf("T(AppTitle) = %q, want 'Ассессор'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "QuestionsLoaded", 1)
	if got1 != "1 question loaded." {
		t.Errorf("Tp(QuestionsLoaded, 1) = %q, want '1 question loaded.'", got1)
	}

	got5 := Tp(ctx, "QuestionsLoaded", 5)
	if got5 != "5 questions loaded." {
		t.Errorf("Tp(QuestionsLoaded, 5) = %q, want '5 questions loaded.'", got5)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "UnknownQuestion", map[string]any{"ID": 42})
	if got != "Unknown question ID: 42" {
		t.Errorf("Td(UnknownQuestion, ID=42) = %q, want 'Unknown question ID: 42'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestReportMessages(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatal(err)
	}

	got := evaluation.Render(NewLocalizer("ru"), evaluation.MsgOverallExcellent, nil)
	want := "Отличный результат! Продолжайте в том же духе и поддерживайте навыки практикой."
	if got != want {
		t.Errorf("ru excellent = %q, want %q", got, want)
	}

	got = evaluation.Render(NewLocalizer("en"), evaluation.MsgOverallExcellent, nil)
	if got != evaluation.MsgOverallExcellent.Other {
		t.Errorf("en excellent = %q, want default text", got)
	}
}

func TestMiddleware(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatal(err)
	}

	var got string
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = T(r.Context(), "AppTitle")
	}))

	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{"default", "/", "", "Assessor"},
		{"query", "/?lang=ru", "", "Ассессор"},
		{"header", "/", "ru-RU,ru;q=0.9", "Ассессор"},
		{"query wins", "/?lang=en", "ru", "Assessor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("AppTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchLanguage(t *testing.T) {
	if err := Init("ru"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = Init("en") })

	tests := []struct {
		name  string
		prefs []string
		want  string
	}{
		{"no preference", nil, "ru"},
		{"empty strings", []string{"", ""}, "ru"},
		{"exact", []string{"en"}, "en"},
		{"regional header", []string{"", "en-GB,en;q=0.8"}, "en"},
		{"unsupported", []string{"fr"}, "ru"},
		{"garbage", []string{"!!"}, "ru"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchLanguage(tt.prefs...); got != tt.want {
				t.Errorf("MatchLanguage(%q) = %q, want %q", tt.prefs, got, tt.want)
			}
		})
	}
}

func TestMiddlewareLanguage(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatal(err)
	}

	var got string
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LanguageFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/?lang=ru", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "ru" {
		t.Errorf("LanguageFromContext = %q, want 'ru'", got)
	}

	if lang := LanguageFromContext(context.Background()); lang != "en" {
		t.Errorf("LanguageFromContext(empty) = %q, want 'en'", lang)
	}
}
