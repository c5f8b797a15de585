package dialogue

import (
	"regexp"
	"strings"
)

// Locale is a BCP-47 tag understood by the speech recognizer and voices.
type Locale string

const (
	Hindi   Locale = "hi-IN"
	Marathi Locale = "mr-IN"
	English Locale = "en-IN"

	DefaultLocale = Hindi
)

// Locales in menu order.
var Locales = []Locale{Hindi, Marathi, English}

var (
	hindiKeywords = []string{
		"खेती", "फसल", "पानी", "बीज", "मौसम", "किसान",
		"मैं", "हमारे", "कैसे", "क्या", "कब", "कहाँ",
		"बताओ", "समस्या", "मदद", "धन्यवाद", "नमस्ते",
	}
	marathiKeywords = []string{
		"शेती", "पीक", "पाणी", "बी", "हवामान", "शेतकरी",
		"मी", "आमचे", "कसे", "काय", "केव्हा", "कुठे",
		"सांगा", "समस्या", "मदत", "धन्यवाद", "नमस्कार",
	}
	latinWord = regexp.MustCompile(`\b[a-zA-Z]+\b`)
)

// DetectLanguage guesses the locale of a transcript by counting keyword hits.
// A keyword counts once if it appears anywhere in text, even inside another
// word. Ties and unclear input fall back to Hindi.
func DetectLanguage(text string) Locale {
	hi := countKeywords(text, hindiKeywords)
	mr := countKeywords(text, marathiKeywords)
	latin := len(latinWord.FindAllString(text, -1))

	switch {
	case hi > mr && hi > latin:
		return Hindi
	case mr > hi && mr > latin:
		return Marathi
	case latin > 2:
		return English
	default:
		return Hindi
	}
}

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

var digitLocales = map[string]Locale{
	"1": Hindi,
	"2": Marathi,
	"3": English,
}

// LocaleForDigit maps a menu key press to a locale; anything else is fallback.
func LocaleForDigit(digits string, fallback Locale) Locale {
	if l, ok := digitLocales[strings.TrimSpace(digits)]; ok {
		return l
	}
	return fallback
}

// ParseLocale accepts one of the three supported tags.
func ParseLocale(s string) (Locale, bool) {
	switch l := Locale(strings.TrimSpace(s)); l {
	case Hindi, Marathi, English:
		return l, true
	}
	return "", false
}

func (l Locale) String() string { return string(l) }

// Languages is the default locale and the locales a call may be served in.
type Languages struct {
	Default   Locale
	Supported []Locale
}

// NewLanguages parses configured tags. Unknown tags are dropped, an unknown
// default becomes Hindi, and the default is always supported. No usable
// supported tag means every locale is.
func NewLanguages(defaultTag string, supportedTags []string) Languages {
	def, ok := ParseLocale(defaultTag)
	if !ok {
		def = DefaultLocale
	}

	langs := Languages{Default: def}
	for _, tag := range supportedTags {
		if l, ok := ParseLocale(tag); ok && !langs.Allows(l) {
			langs.Supported = append(langs.Supported, l)
		}
	}
	if len(langs.Supported) == 0 {
		langs.Supported = append([]Locale(nil), Locales...)
	}
	if !langs.Allows(def) {
		langs.Supported = append([]Locale{def}, langs.Supported...)
	}
	return langs
}

// Allows reports whether l is served.
func (ls Languages) Allows(l Locale) bool {
	for _, s := range ls.Supported {
		if s == l {
			return true
		}
	}
	return false
}

// Resolve returns l when it is served, otherwise the default.
func (ls Languages) Resolve(l Locale) Locale {
	if ls.Allows(l) {
		return l
	}
	return ls.Default
}
