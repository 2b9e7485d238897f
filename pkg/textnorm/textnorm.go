// Package textnorm normaliza texto para salidas con juego de caracteres limitado
// (fuentes core del PDF, identificadores en XML).
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ASCII quita tildes y diacríticos: "Peñalosa Núñez" -> "Penalosa Nunez".
// Los caracteres sin equivalente se reemplazan por '?'.
func ASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '?'
		}
		return r
	}, out)
}
