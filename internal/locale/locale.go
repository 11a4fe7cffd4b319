package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// Catalog holds every embedded translation and picks a language for callers.
type Catalog struct {
	bundle  *i18n.Bundle
	tags    []language.Tag
	matcher language.Matcher
}

// Load reads the embedded locale files. The default language is always
// offered first, so unmatched requests fall back to it.
func Load() (*Catalog, error) {
	fallback := language.Make(config.DefaultLanguage)
	bundle := i18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	tags := []language.Tag{fallback}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		code := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		tag, err := language.Parse(code)
		if code == "" || err != nil {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, code,
			config.LogKeyFile, name,
		)

		if tag.String() != fallback.String() {
			tags = append(tags, tag)
		}
	}

	return &Catalog{
		bundle:  bundle,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Languages lists the available language codes, default first.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.tags))
	for _, t := range c.tags {
		out = append(out, t.String())
	}
	return out
}

// Translator returns the best translator for an Accept-Language style
// request ("en", "en-GB", "ru-RU,en;q=0.5"). Empty or unknown input
// yields the default language.
func (c *Catalog) Translator(lang string) *Translator {
	tag := c.tags[0]
	if lang != "" {
		if prefs, _, err := language.ParseAcceptLanguage(lang); err == nil && len(prefs) > 0 {
			_, idx, conf := c.matcher.Match(prefs...)
			if conf != language.No {
				tag = c.tags[idx]
			}
		}
	}
	return &Translator{
		tag:       tag,
		localizer: i18n.NewLocalizer(c.bundle, tag.String()),
	}
}

// Translator renders calendar text in one language.
type Translator struct {
	tag       language.Tag
	localizer *i18n.Localizer
}

var _ calendar.Names = (*Translator)(nil)

// Lang returns the language code in use.
func (t *Translator) Lang() string {
	return t.tag.String()
}

func (t *Translator) Weekday(w time.Weekday) string {
	return t.msg(config.TKeyPrefixWeekday+strings.ToLower(w.String()), nil)
}

func (t *Translator) WeekdayShort(w time.Weekday) string {
	return t.msg(config.TKeyPrefixWeekdayShort+strings.ToLower(w.String()), nil)
}

func (t *Translator) Month(m time.Month) string {
	return t.msg(config.TKeyPrefixMonth+strings.ToLower(m.String()), nil)
}

func (t *Translator) MonthYear(year int, m time.Month) string {
	return t.msg(config.TKeyFormatMonthYear, map[string]any{
		"Month": t.Month(m),
		"Year":  year,
	})
}

// LongDate uses the genitive month form where the language has one.
func (t *Translator) LongDate(d calendar.Date) string {
	return t.msg(config.TKeyFormatLongDate, map[string]any{
		"Day":   fmt.Sprintf("%02d", d.Day),
		"Month": t.monthGenitive(d.Month),
		"Year":  d.Year,
	})
}

func (t *Translator) DayMonth(d calendar.Date) string {
	return t.msg(config.TKeyFormatDayMonth, map[string]any{
		"Day":   fmt.Sprintf("%02d", d.Day),
		"Month": t.monthGenitive(d.Month),
	})
}

func (t *Translator) Phrase(p calendar.Phrase) string {
	switch p {
	case calendar.PhraseToday:
		return t.msg(config.TKeyToday, nil)
	case calendar.PhraseYesterday:
		return t.msg(config.TKeyYesterday, nil)
	case calendar.PhraseHasEntries:
		return t.msg(config.TKeyHasEntries, nil)
	case calendar.PhraseWeekend:
		return t.msg(config.TKeyWeekend, nil)
	}
	return string(p)
}

func (t *Translator) Separator() string {
	return t.msg(config.TKeySeparator, nil)
}

// EntrySummary titles an exported journal entry. Untitled entries are
// named after their date; a mood is appended when set.
func (t *Translator) EntrySummary(title string, date calendar.Date, mood int) string {
	if title == "" {
		title = t.msg(config.TKeyEvtSummary, map[string]any{"Date": t.LongDate(date)})
	}
	if mood == config.NoMood {
		return title
	}
	return t.msg(config.TKeyEvtSummaryMood, map[string]any{
		"Title": title,
		"Mood":  mood,
	})
}

func (t *Translator) monthGenitive(m time.Month) string {
	return t.msg(config.TKeyPrefixMonthGen+strings.ToLower(m.String()), nil)
}

// msg translates a key, returning the key itself when it is missing.
func (t *Translator) msg(key string, data map[string]any) string {
	out, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return out
}
