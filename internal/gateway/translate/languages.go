package translate

import "strings"

// Language codes the translation backends accept.
var validCodes = []string{"en", "vi", "fr", "de", "es", "ja", "ko", "zh-CN", "zh-TW", "auto"}

const (
	// DefaultSourceCode replaces an unusable source language code.
	DefaultSourceCode = "en"
	// DefaultTargetCode replaces an unusable target language code.
	DefaultTargetCode = "vi"
)

// IsValidCode reports whether code is in the whitelist.
func IsValidCode(code string) bool {
	for _, v := range validCodes {
		if code == v {
			return true
		}
	}
	return false
}

// CorrectCode validates code against the whitelist. An empty, malformed or
// unknown code is replaced by the first whitelisted entry among the offered
// selector options, falling back to fallback when none qualifies.
func CorrectCode(code string, offered []string, fallback string) string {
	if code != "" && strings.TrimSpace(code) != "" &&
		!strings.Contains(code, "undefined") && IsValidCode(code) {
		return code
	}
	for _, option := range offered {
		if IsValidCode(option) {
			return option
		}
	}
	return fallback
}
