package config

import "log/slog"

const (
	LangEN = "en"
	LangES = "es"
)

func SupportedLanguages() []string {
	return []string{LangEN, LangES}
}

func IsSupportedLanguage(lang string) bool {
	return lang == LangEN || lang == LangES
}

func GetLocaleConfig(lang string) string {
	if IsSupportedLanguage(lang) {
		return lang
	}
	slog.Warn("unsupported language, falling back to English", "language", lang)
	return LangEN
}
