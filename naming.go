package xloffer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// OfferNumberLabel marks the cell whose right neighbour holds the offer number.
	OfferNumberLabel = "Nº de Oferta"

	// DefaultPrefix is used when neither the document nor the file name yields two letters.
	DefaultPrefix = "OF"
)

// leadingOfferNumber matches file names that start with an existing LH/RC offer number.
var leadingOfferNumber = regexp.MustCompile(`(?i)^\s*[\p{P}\p{S}]*(LH|RC)\s*-\s*(\d{8,9})\s*-\s*(\d{1,2})(.*)$`)

// OfferNumber formats "{prefix}-{yyyyMMdd}-{seq:02}".
func OfferNumber(prefix string, date time.Time, sequence int) string {
	return fmt.Sprintf("%s-%s-%02d", prefix, date.Format("20060102"), sequence)
}

// OutputFileName derives the renamed output file name. A leading LH/RC offer
// number is replaced in place; any other name is prefixed with "{number} - ".
func OutputFileName(original, offerNumber string) string {
	name := filepath.Base(original)
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	if m := leadingOfferNumber.FindStringSubmatch(base); m != nil {
		return offerNumber + m[4] + ext
	}
	return offerNumber + " - " + base + ext
}

// offerPrefix picks the two-letter prefix for the offer number.
// Sheets are tried in workbook order, then the file name, then DefaultPrefix.
func offerPrefix(sheets []Sheet, fileName string) (prefix, source string) {
	for _, sh := range sheets {
		label, ok := sh.FindFirst(labelMatcher(OfferNumberLabel))
		if !ok {
			continue
		}
		if p, ok := prefixFrom(sh.DisplayText(label.Ref.Right())); ok {
			return p, sh.Name() + "!" + label.Ref.Right().CellName()
		}
	}
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if p, ok := prefixFrom(base); ok {
		return p, "file name"
	}
	return DefaultPrefix, "default"
}

// prefixFrom keeps ASCII letters of s, uppercased, and returns the first two.
func prefixFrom(s string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 2 {
				return b.String(), true
			}
		}
	}
	return "", false
}
