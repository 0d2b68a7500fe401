package xloffer

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// numberStyle describes how a locale writes decimals.
type numberStyle struct {
	group   byte
	decimal byte
}

var (
	spanishNumbers   = numberStyle{group: '.', decimal: ','}
	invariantNumbers = numberStyle{group: ',', decimal: '.'}
)

// NormalizePriceKey canonicalizes a price cell or profile key for lookup.
// Currency symbols and whitespace are dropped; numeric text is rendered with
// at most two decimals ("401,00 €" → "401", "1.234,5" → "1234.5"); anything
// else gets commas turned into dots.
func NormalizePriceKey(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sc, r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	if d, ok := ParseDecimal(cleaned); ok {
		return d.Round(2).String()
	}
	return strings.TrimSpace(strings.ReplaceAll(cleaned, ",", "."))
}

// ParsePrice reads a replacement price: currency symbols are dropped and the
// remainder parsed with ParseDecimal.
func ParsePrice(s string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)
	return ParseDecimal(strings.TrimSpace(cleaned))
}

// ParseDecimal parses s with Spanish conventions ("1.234,56") and falls back to
// invariant ones ("1,234.56"). Group separators must form 3-digit groups, so
// "401.00" is never read as 40100.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	if d, ok := parseNumber(s, spanishNumbers); ok {
		return d, true
	}
	return parseNumber(s, invariantNumbers)
}

func parseNumber(s string, style numberStyle) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	switch {
	case strings.HasPrefix(s, "-"):
		if negative {
			return decimal.Zero, false
		}
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, style.decimal); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
		if fracPart == "" || !allDigits(fracPart) {
			return decimal.Zero, false
		}
	}

	digits, ok := ungroup(intPart, style.group)
	if !ok {
		return decimal.Zero, false
	}
	if digits == "" {
		if fracPart == "" {
			return decimal.Zero, false
		}
		digits = "0"
	}

	canonical := digits
	if fracPart != "" {
		canonical += "." + fracPart
	}
	if negative {
		canonical = "-" + canonical
	}
	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ungroup removes group separators from an integer part, requiring the
// leading group to hold 1-3 digits and every later group exactly 3.
func ungroup(s string, sep byte) (string, bool) {
	if strings.IndexByte(s, sep) < 0 {
		return s, allDigits(s)
	}
	groups := strings.Split(s, string(sep))
	if n := len(groups[0]); n == 0 || n > 3 || !allDigits(groups[0]) {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
