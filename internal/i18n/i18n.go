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

var jsonUnmarshal = json.Unmarshal

//go:embed locales/*.json
var localeFS embed.FS

type (
	ctxKey  struct{}
	langKey struct{}
)

var (
	mu          sync.RWMutex
	bundle      *i18n.Bundle
	defaultLang = "en"
)

// Init loads the translation bundle and sets the default language.
// English is always the source language; lang selects what requests
// without a language preference receive.
func Init(lang string) error {
	if _, err := language.Parse(lang); err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", jsonUnmarshal)

	// Load all locale files from embedded FS.
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}

	mu.Lock()
	bundle = b
	defaultLang = lang
	mu.Unlock()
	return nil
}

func currentBundle() (*i18n.Bundle, string) {
	mu.RLock()
	defer mu.RUnlock()
	return bundle, defaultLang
}

// NewLocalizer creates a localizer for the given languages, most preferred
// first. The configured default language is always appended as a fallback.
func NewLocalizer(langs ...string) *i18n.Localizer {
	b, def := currentBundle()
	if b == nil {
		b = i18n.NewBundle(language.English)
	}
	prefs := make([]string, 0, len(langs)+1)
	prefs = append(prefs, langs...)
	return i18n.NewLocalizer(b, append(prefs, def)...)
}

// MatchLanguage returns the base code of the loaded language that best fits
// the given preferences, each a tag or an Accept-Language value. Without a
// usable preference it returns the configured default.
func MatchLanguage(prefs ...string) string {
	b, def := currentBundle()
	if b == nil {
		return def
	}
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return def
	}
	supported := b.LanguageTags()
	_, idx, conf := language.NewMatcher(supported).Match(tags...)
	if conf == language.No {
		return def
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// WithLanguage stores the negotiated language code in the context.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LanguageFromContext returns the negotiated language code, falling back
// to the configured default.
func LanguageFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok && lang != "" {
		return lang
	}
	_, def := currentBundle()
	return def
}

// WithLocalizer stores a localizer in the context.
func WithLocalizer(ctx context.Context, loc *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, loc)
}

// LocalizerFromContext retrieves the localizer from context, falling back
// to the default language.
func LocalizerFromContext(ctx context.Context) *i18n.Localizer {
	if loc, ok := ctx.Value(ctxKey{}).(*i18n.Localizer); ok {
		return loc
	}
	return NewLocalizer()
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	loc := LocalizerFromContext(ctx)
	s, err := loc.Localize(&i18n.LocalizeConfig{MessageID: msgID})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	loc := LocalizerFromContext(ctx)
	s, err := loc.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Tp translates a pluralized message by ID.
func Tp(ctx context.Context, msgID string, count int) string {
	loc := LocalizerFromContext(ctx)
	s, err := loc.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}
