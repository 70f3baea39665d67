package translate

import (
	"context"
	"fmt"
	"strings"
)

var urduWords = map[string]string{
	"the":      "دی",
	"blog":     "بلاگ",
	"post":     "پوسٹ",
	"is":       "ہے",
	"about":    "کے بارے میں",
	"this":     "یہ",
	"summary":  "خلاصہ",
	"a":        "ایک",
	"and":      "اور",
	"we":       "ہم",
	"are":      "ہیں",
	"learning": "سیکھ رہے",
	"nextjs":   "نیکسٹ جے ایس",
	"with":     "کے ساتھ",
	"supabase": "سپابیس",
	"mongodb":  "مونگوڈی بی",
}

// DictionaryTranslator substitutes known words one at a time. It needs no
// network access and only targets Urdu; unknown words pass through.
type DictionaryTranslator struct {
	words map[string]map[string]string
}

func NewDictionaryTranslator() *DictionaryTranslator {
	return &DictionaryTranslator{
		words: map[string]map[string]string{"ur": urduWords},
	}
}

func (d *DictionaryTranslator) Name() string { return "dictionary" }

// Translate lowercases text, drops periods and commas, and replaces every
// space-separated word found in the dictionary.
func (d *DictionaryTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	dict, ok := d.words[strings.ToLower(lang)]
	if !ok {
		return "", fmt.Errorf("dictionary translator: %w: %s", ErrUnsupportedLanguage, lang)
	}
	if text == "" {
		return "", nil
	}

	cleaned := strings.NewReplacer(".", "", ",", "").Replace(strings.ToLower(text))
	words := strings.Split(cleaned, " ")
	for i, w := range words {
		if t, ok := dict[w]; ok {
			words[i] = t
		}
	}
	return strings.Join(words, " "), nil
}
