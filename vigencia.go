package xloffer

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// VigenciaLabel marks cells whose date ranges move forward one year.
	VigenciaLabel = "Vigencia"

	// Vigencia cells live in column D, rows 20 to 40.
	vigenciaCol      = 3
	vigenciaFirstRow = 19
	vigenciaLastRow  = 39
)

// vigenciaRange matches "DATE al DATE" where each DATE is dd-MM-yyyy or dd/MM/yyyy.
var vigenciaRange = regexp.MustCompile(`(?i)(\d{2}-\d{2}-\d{4}|\d{2}/\d{2}/\d{4})\s*al\s*(\d{2}-\d{2}-\d{4}|\d{2}/\d{2}/\d{4})`)

// ShiftVigencia moves every "start al end" date range in text forward by one
// year. Ranges holding an impossible calendar date are left as they are.
// The second result reports whether anything changed.
func ShiftVigencia(text string) (string, bool) {
	out := vigenciaRange.ReplaceAllStringFunc(text, func(match string) string {
		m := vigenciaRange.FindStringSubmatch(match)
		start, ok := shiftDate(m[1])
		if !ok {
			return match
		}
		end, ok := shiftDate(m[2])
		if !ok {
			return match
		}
		return start + " al " + end
	})
	return out, out != text
}

// VigenciaRanges returns the date ranges found in text, for reporting.
func VigenciaRanges(text string) []string {
	return vigenciaRange.FindAllString(text, -1)
}

// shiftDate parses a dd-MM-yyyy or dd/MM/yyyy date and returns it one year later
// in the same layout.
func shiftDate(s string) (string, bool) {
	layout := "02-01-2006"
	if strings.Contains(s, "/") {
		layout = "02/01/2006"
	}
	d, err := time.Parse(layout, s)
	if err != nil {
		return "", false
	}
	return addYears(d, 1).Format(layout), true
}

// shiftVigencia rewrites the Vigencia cells of one sheet.
func (t *Transformer) shiftVigencia(sh Sheet) error {
	for _, ref := range vigenciaCells(sh) {
		shifted, changed := ShiftVigencia(sh.Text(ref))
		if !changed {
			t.opts.logger.Debug("vigencia left unchanged", zap.Stringer("cell", ref))
			continue
		}
		if err := sh.WriteText(ref, shifted); err != nil {
			return err
		}
		t.opts.logger.Debug("vigencia shifted", zap.Stringer("cell", ref), zap.String("text", shifted))
	}
	return nil
}
