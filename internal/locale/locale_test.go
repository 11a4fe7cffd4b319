package locale_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCatalog(t *testing.T) *locale.Catalog {
	t.Helper()
	cat, err := locale.Load()
	require.NoError(t, err)
	return cat
}

func TestLoad_Languages(t *testing.T) {
	cat := loadCatalog(t)
	langs := cat.Languages()

	require.NotEmpty(t, langs)
	assert.Equal(t, config.DefaultLanguage, langs[0], "default language is offered first")
	assert.ElementsMatch(t, config.SupportedLanguages, langs)
}

func TestTranslator_Matching(t *testing.T) {
	cat := loadCatalog(t)

	tests := []struct {
		in   string
		want string
	}{
		{"", "ru"},
		{"ru", "ru"},
		{"en", "en"},
		{"en-GB", "en"},
		{"ru-RU,en;q=0.5", "ru"},
		{"de", "ru"},
		{"%%%", "ru"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cat.Translator(tt.in).Lang())
		})
	}
}

func TestTranslator_Russian(t *testing.T) {
	ru := loadCatalog(t).Translator("ru")
	date := calendar.MustParseDate("2024-03-05")

	assert.Equal(t, "вторник", ru.Weekday(time.Tuesday))
	assert.Equal(t, "Март 2024", ru.MonthYear(2024, time.March))
	assert.Equal(t, "05 марта 2024", ru.LongDate(date))
	assert.Equal(t, "05 марта", ru.DayMonth(date))
	assert.Equal(t, []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}, calendar.WeekdayNames(ru))
	assert.Equal(t, "Январь", calendar.MonthNames(ru)[0])
}

// Headers use the nominative month name; dates use the genitive form.
func TestTranslator_RussianMonthCase(t *testing.T) {
	ru := loadCatalog(t).Translator("ru")

	assert.Equal(t, "Март 2024", ru.MonthYear(2024, time.March))
	assert.NotEqual(t, "марта 2024", ru.MonthYear(2024, time.March))
	assert.Equal(t, "15 марта 2024", ru.LongDate(calendar.MustParseDate("2024-03-15")))

	assert.Equal(t, "Январь 2025", ru.MonthYear(2025, time.January))
	assert.Equal(t, "01 января 2025", ru.LongDate(calendar.MustParseDate("2025-01-01")))
}

func TestTranslator_English(t *testing.T) {
	en := loadCatalog(t).Translator("en")

	assert.Equal(t, "February 2024", en.MonthYear(2024, time.February))
	assert.Equal(t, "29 February 2024", en.LongDate(calendar.MustParseDate("2024-02-29")))
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, calendar.WeekdayNames(en))
}

// TestTranslator_DrivesCalendar renders grid text through the engine.
func TestTranslator_DrivesCalendar(t *testing.T) {
	ru := loadCatalog(t).Translator("ru")

	m := calendar.CreateMonth(calendar.MustParseDate("2024-02-10"), []calendar.Dated{}, calendar.Options{Names: ru})
	assert.Equal(t, "Февраль 2024", m.MonthName)
	assert.Equal(t, "понедельник", m.Weeks[0][0].Weekday)

	saturday := calendar.Day{Date: calendar.MustParseDate("2024-03-16"), IsToday: true, HasEntry: true}
	assert.Equal(t, "Сегодня, Есть записи, Выходной", calendar.DayTooltip(saturday, ru))

	plain := calendar.Day{Date: calendar.MustParseDate("2024-03-13")}
	assert.Equal(t, "13 марта 2024", calendar.DayTooltip(plain, ru))

	today := calendar.MustParseDate("2024-03-13")
	assert.Equal(t, "Вчера", calendar.RelativeLabel(calendar.MustParseDate("2024-03-12"), today, ru))
}

func TestTranslator_EntrySummary(t *testing.T) {
	cat := loadCatalog(t)
	date := calendar.MustParseDate("2024-03-15")

	ru := cat.Translator("ru")
	assert.Equal(t, "Прогулка", ru.EntrySummary("Прогулка", date, 0))
	assert.Equal(t, "Прогулка (настроение 4/5)", ru.EntrySummary("Прогулка", date, 4))
	assert.Equal(t, "Запись за 15 марта 2024", ru.EntrySummary("", date, 0))

	en := cat.Translator("en")
	assert.Equal(t, "Journal entry 15 March 2024 (mood 2/5)", en.EntrySummary("", date, 2))
}

func TestTranslator_UnknownPhrase(t *testing.T) {
	ru := loadCatalog(t).Translator("ru")
	assert.Equal(t, "holiday", ru.Phrase(calendar.Phrase("holiday")))
}

// TestLocaleFiles_Integrity ensures that every key is present in every
// locale file so no language silently falls back to raw keys.
func TestLocaleFiles_Integrity(t *testing.T) {
	var keys []string
	for _, w := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		name := strings.ToLower(w.String())
		keys = append(keys, config.TKeyPrefixWeekday+name, config.TKeyPrefixWeekdayShort+name)
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		keys = append(keys, config.TKeyPrefixMonth+name, config.TKeyPrefixMonthGen+name)
	}
	keys = append(keys,
		config.TKeyFormatMonthYear,
		config.TKeyFormatLongDate,
		config.TKeyFormatDayMonth,
		config.TKeyToday,
		config.TKeyYesterday,
		config.TKeyHasEntries,
		config.TKeyWeekend,
		config.TKeySeparator,
		config.TKeyEvtSummary,
		config.TKeyEvtSummaryMood,
	)

	files, err := filepath.Glob(filepath.Join("locales", "active.*.json"))
	require.NoError(t, err)
	require.Len(t, files, len(config.SupportedLanguages))

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			raw, err := os.ReadFile(file)
			require.NoError(t, err)

			var messages map[string]string
			require.NoError(t, json.Unmarshal(raw, &messages))

			for _, key := range keys {
				assert.NotEmpty(t, messages[key], "missing key %s", key)
			}
			assert.Len(t, messages, len(keys), "no stray keys")
		})
	}
}
