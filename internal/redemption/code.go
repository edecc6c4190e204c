// Package redemption produces placeholder activation codes for purchased products.
// The codes are for display only and carry no licensing meaning.
package redemption

import "strings"

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Template marks code slots with 'X'; every other rune is copied verbatim.
	Template = "XXXXX-XXXXX-XXXXX"
)

// GenerateCode derives a code from productID. The same ID always yields the same code.
func GenerateCode(productID string) string {
	seed := 0
	for _, r := range productID {
		seed += int(r)
	}

	var b strings.Builder
	b.Grow(len(Template))

	slot := 0
	for _, r := range Template {
		if r != 'X' {
			b.WriteRune(r)

			continue
		}

		slot++
		b.WriteByte(alphabet[(seed*slot)%len(alphabet)])
	}

	return b.String()
}
