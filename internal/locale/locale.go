// Package locale holds the translation tables and the date display
// conventions used when presenting inventory items.
package locale

import (
	"fmt"
	"time"
)

// Languages.
const (
	English   = "en"
	Slovenian = "sl"
)

// DefaultLanguage is used when a requested language has no table.
const DefaultLanguage = English

// Convention selects how calendar dates are displayed.
type Convention string

// Date display conventions.
const (
	DayFirst   Convention = "day_first"
	MonthFirst Convention = "month_first"
)

// Valid reports whether c is a known convention.
func (c Convention) Valid() bool {
	return c == DayFirst || c == MonthFirst
}

// Format formats t according to the convention. Unknown conventions fall back
// to day-first.
func (c Convention) Format(t time.Time) string {
	if c == MonthFirst {
		return t.Format("01/02/2006")
	}
	return t.Format("02/01/2006")
}

// Catalog looks up localized strings for a single language.
type Catalog struct {
	lang     string
	messages map[string]string
}

// New returns the catalog for lang, or the default language catalog if lang
// is not supported.
func New(lang string) *Catalog {
	msgs, ok := tables[lang]
	if !ok {
		lang = DefaultLanguage
		msgs = tables[DefaultLanguage]
	}
	return &Catalog{lang: lang, messages: msgs}
}

// Language returns the catalog's language code.
func (c *Catalog) Language() string {
	return c.lang
}

// T returns the localized string for key, formatted with args. Keys missing
// from the catalog fall back to English, then to the key itself.
func (c *Catalog) T(key string, args ...any) string {
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = tables[DefaultLanguage][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// N returns the plural form of key that matches n, formatted with n. Keys
// without plural forms fall back to T.
func (c *Catalog) N(key string, n int) string {
	lang := c.lang
	forms, ok := pluralTables[lang][key]
	if !ok {
		lang = DefaultLanguage
		forms, ok = pluralTables[lang][key]
	}
	if !ok {
		return c.T(key, n)
	}
	i := pluralRules[lang](n)
	if i >= len(forms) {
		i = len(forms) - 1
	}
	return fmt.Sprintf(forms[i], n)
}

// Category returns the localized name of an item category, or the category
// itself if it has no translation.
func (c *Catalog) Category(category string) string {
	key, ok := categoryKeys[category]
	if !ok {
		return category
	}
	return c.T(key)
}

// Supported reports whether lang has a translation table.
func Supported(lang string) bool {
	_, ok := tables[lang]
	return ok
}
