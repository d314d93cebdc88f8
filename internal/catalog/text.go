package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeColor turns an option id like "metalik_gri" into "Metalik Gri".
func NormalizeColor(color string) string {
	words := strings.Split(color, "_")
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// NormalizeName turns an option id into a spaced, title-cased name.
func NormalizeName(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

var turkishFolds = strings.NewReplacer(
	"ı", "i", "İ", "i", "ğ", "g", "Ğ", "g", "ü", "u", "Ü", "u",
	"ş", "s", "Ş", "s", "ö", "o", "Ö", "o", "ç", "c", "Ç", "c",
)

// FoldTurkish lower-cases s and maps Turkish letters to their ASCII base letters.
func FoldTurkish(s string) string {
	return strings.ToLower(turkishFolds.Replace(s))
}
