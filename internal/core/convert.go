package core

// convert.go turns raw cell text into canonical values.
//
// These functions handle the messy reality of accounting exports:
//   - Brazilian number formatting (1.234,56) next to plain decimals (1234.56)
//   - Currency prefixes (R$, $) and accounting negatives "(123.45)"
//   - Excel formula prefixes (="value")
//   - Header artifacts (BOM, padding, decomposed accents)
//
// ParseAmount returns a NullDecimal with Valid=false for empty or invalid
// input, so unparseable amounts surface as null rather than failing a load.

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

const bom = "\ufeff"

// ParseAmount converts a cell to a decimal amount.
//
// When both '.' and ',' appear, whichever comes last is the decimal
// separator and the other is a thousands separator. A lone ',' is a decimal
// comma unless it repeats ("1,234,567"); likewise a repeated '.' is a
// thousands separator ("1.234.567").
func ParseAmount(s string) decimal.NullDecimal {
	s = stripFormula(strings.TrimSpace(s))
	if s == "" {
		return decimal.NullDecimal{}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)

	// Sign may sit on either side of the currency symbol: "-R$5", "R$-5".
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}

	s = normalizeSeparators(s)
	if negative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// normalizeSeparators rewrites s so '.' is the only decimal separator and
// thousands separators are gone.
func normalizeSeparators(s string) string {
	// Scientific notation never carries grouping.
	if strings.ContainsAny(s, "eE") {
		return strings.ReplaceAll(s, ",", ".")
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			return strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

// CleanHeader normalizes a column name: BOM removed, whitespace trimmed and
// Unicode NFC applied so composed and decomposed accents compare equal.
func CleanHeader(s string) string {
	s = strings.ReplaceAll(s, bom, "")
	return norm.NFC.String(strings.TrimSpace(s))
}

// CleanCell removes common export artifacts from a text value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Applies Unicode NFC
func CleanCell(s string) string {
	return norm.NFC.String(stripFormula(strings.TrimSpace(s)))
}

func stripFormula(s string) string {
	if len(s) >= 3 && strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		return strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}
