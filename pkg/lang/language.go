package lang

import "strings"

// Language represents supported output languages for generated commit messages
type Language string

const (
	English            Language = "en"
	ChineseSimplified  Language = "zh"
	ChineseTraditional Language = "zh-tw"
	Japanese           Language = "ja"
	Korean             Language = "ko"
	Spanish            Language = "es"
	French             Language = "fr"
	German             Language = "de"
	Portuguese         Language = "pt"
	Russian            Language = "ru"
)

var promptNames = map[Language]string{
	English:            "English",
	ChineseSimplified:  "Simplified Chinese",
	ChineseTraditional: "Traditional Chinese",
	Japanese:           "Japanese",
	Korean:             "Korean",
	Spanish:            "Spanish",
	French:             "French",
	German:             "German",
	Portuguese:         "Portuguese",
	Russian:            "Russian",
}

// String returns the string representation of the language
func (l Language) String() string {
	return string(l)
}

// IsValid checks if the language is valid
func (l Language) IsValid() bool {
	_, ok := promptNames[l]
	return ok
}

// DisplayName returns the native display name of the language
func (l Language) DisplayName() string {
	switch l {
	case English:
		return "English"
	case ChineseSimplified:
		return "中文（简体）"
	case ChineseTraditional:
		return "中文（繁體）"
	case Japanese:
		return "日本語"
	case Korean:
		return "한국어"
	case Spanish:
		return "Español"
	case French:
		return "Français"
	case German:
		return "Deutsch"
	case Portuguese:
		return "Português"
	case Russian:
		return "Русский"
	default:
		return string(l)
	}
}

// PromptName returns the English name used when instructing a model
func (l Language) PromptName() string {
	if name, ok := promptNames[l]; ok {
		return name
	}
	return promptNames[English]
}

// DefaultLanguage returns the default language
func DefaultLanguage() Language {
	return English
}

// ParseLanguage parses a string to a Language, falling back to English.
// Region variants such as "zh-CN" or "pt-BR" resolve to their base language.
func ParseLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "zh-cn", "zh-hans":
		return ChineseSimplified
	case "zh-hant":
		return ChineseTraditional
	}
	l := Language(s)
	if l.IsValid() {
		return l
	}
	if idx := strings.IndexAny(s, "-_"); idx > 0 {
		if base := Language(s[:idx]); base.IsValid() {
			return base
		}
	}
	return DefaultLanguage()
}

// IsSupported reports whether s names a supported language, region variants
// included.
func IsSupported(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	if ParseLanguage(s) != English {
		return true
	}
	return s == "en" || strings.HasPrefix(s, "en-") || strings.HasPrefix(s, "en_")
}
