package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// IndianLanguages are the original-language buckets queried for the regional set,
// in the order their results are concatenated.
var IndianLanguages = []string{"hi", "ta", "te", "ml", "kn", "bn", "mr", "pa"}

// known restricts NormalizeToCode to languages TMDB catalogues in meaningful volume.
var known = map[string]bool{
	"en": true, "es": true, "fr": true, "de": true, "it": true, "pt": true, "ru": true,
	"ja": true, "zh": true, "ko": true, "nl": true, "pl": true, "sv": true, "cs": true,
	"hu": true, "tr": true, "ar": true, "th": true, "vi": true, "id": true, "da": true,
	"no": true, "fi": true, "el": true, "he": true, "uk": true, "ro": true, "fa": true,
	"hi": true, "ta": true, "te": true, "ml": true, "kn": true, "bn": true, "mr": true,
	"pa": true, "gu": true, "or": true, "ur": true,
}

// emojiToCode maps emoji flags to the main language of the country
var emojiToCode = map[string]string{
	"🇬🇧": "en", "🇺🇸": "en", "🇦🇺": "en",
	"🇪🇸": "es", "🇲🇽": "es",
	"🇫🇷": "fr",
	"🇩🇪": "de",
	"🇮🇹": "it",
	"🇯🇵": "ja",
	"🇰🇷": "ko",
	"🇨🇳": "zh",
	"🇮🇳": "hi",
	"🇵🇰": "ur",
	"🇧🇩": "bn",
}

// nameToCode maps English language names (and common film-industry nicknames) to ISO 639-1 codes
var nameToCode = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"russian":    "ru",
	"japanese":   "ja",
	"chinese":    "zh",
	"mandarin":   "zh",
	"cantonese":  "zh",
	"korean":     "ko",
	"turkish":    "tr",
	"persian":    "fa",
	"hindi":      "hi",
	"bollywood":  "hi",
	"tamil":      "ta",
	"kollywood":  "ta",
	"telugu":     "te",
	"tollywood":  "te",
	"malayalam":  "ml",
	"mollywood":  "ml",
	"kannada":    "kn",
	"sandalwood": "kn",
	"bengali":    "bn",
	"bangla":     "bn",
	"marathi":    "mr",
	"punjabi":    "pa",
	"gujarati":   "gu",
	"odia":       "or",
	"urdu":       "ur",
}

// NormalizeToCode converts a language name, emoji flag, ISO 639-1 or ISO 639-2/3 code
// into the two-letter code TMDB expects in with_original_language.
// Returns empty string if the language cannot be identified.
func NormalizeToCode(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}

	if code, ok := emojiToCode[lang]; ok {
		return code
	}

	lower := strings.ToLower(lang)
	if code, ok := nameToCode[lower]; ok {
		return code
	}

	if len(lower) == 2 || len(lower) == 3 {
		tag, err := xlanguage.Parse(lower)
		if err != nil {
			return ""
		}
		base, _ := tag.Base()
		if code := base.String(); known[code] {
			return code
		}
	}

	return ""
}

// IsIndian reports whether code is one of the regional buckets.
func IsIndian(code string) bool {
	code = NormalizeToCode(code)
	for _, c := range IndianLanguages {
		if c == code {
			return true
		}
	}
	return false
}

// DisplayName returns the English name of a language code, e.g. "ta" -> "Tamil".
func DisplayName(code string) string {
	code = NormalizeToCode(code)
	if code == "" {
		return ""
	}
	return display.English.Languages().Name(xlanguage.Make(code))
}
