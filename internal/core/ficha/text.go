package ficha

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)
var unsafeFilenameRegex = regexp.MustCompile(`[^\p{L}\p{N}_\-.]`)

// NormalizeText remove acentos e pontuação e devolve o texto em maiúsculas.
// Útil para casar rubricas sem depender de caixa ou acentuação.
func NormalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// SanitizeFilename troca espaços por "_" e remove caracteres especiais.
func SanitizeFilename(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	return unsafeFilenameRegex.ReplaceAllString(s, "")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// isFourDigitYear aceita exatamente quatro dígitos ASCII.
func isFourDigitYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
