package translate

import (
	"fmt"
	"strings"
)

// languageNames covers the codes we expect in TARGET_LANGUAGE. Unknown codes
// are passed to the model verbatim.
var languageNames = map[string]string{
	"ur": "Urdu",
	"hi": "Hindi",
	"ar": "Arabic",
	"fa": "Persian",
	"fr": "French",
	"de": "German",
	"es": "Spanish",
	"zh": "Chinese",
}

// LanguageName returns a human readable name for a language code.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// BuildPrompt asks for a faithful translation and nothing else.
func BuildPrompt(text, lang string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Translate the following English text into %s.\n", LanguageName(lang)))
	sb.WriteString("Keep the sentence order and meaning. Do not summarize, explain, or add notes.\n")
	sb.WriteString("Respond with ONLY the translation.\n\n---\n")
	sb.WriteString(text)
	return sb.String()
}
