package xloffer

import (
	"fmt"
	"strings"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // the rewrite will leave something stale
	SeverityWarning                 // the rewrite may not do what is expected
)

// ValidationIssue is a single problem found while checking a document.
type ValidationIssue struct {
	Severity Severity
	CellRef  CellRef
	Message  string
}

// String formats the issue as "[ERROR] Sheet1!A2: message" or "[WARN] ...".
// Issues without a cell (profile-level ones) print "profile" instead.
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	where := "profile"
	if v.CellRef.Sheet != "" {
		where = v.CellRef.String()
	}
	return fmt.Sprintf("[%s] %s: %s", sev, where, v.Message)
}

// Validate checks a document (and optionally the profile meant for it) for
// things the transformation would silently skip. A non-nil error means the
// document could not be read at all.
func Validate(doc []byte, profile *PriceProfile, opts ...Option) ([]ValidationIssue, error) {
	return New(opts...).Validate(doc, profile)
}

// Validate is the Transformer form of the package-level Validate.
func (t *Transformer) Validate(doc []byte, profile *PriceProfile) ([]ValidationIssue, error) {
	wb, err := openWorkbook(doc, t.opts.dateFormat)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.Sheets()
	var issues []ValidationIssue
	issues = append(issues, validateOfferLabel(sheets)...)
	for _, sh := range sheets {
		issues = append(issues, validateVigencia(sh)...)
	}
	if profile != nil {
		issues = append(issues, validateProfile(profile)...)
		prices := profile.Prices.Normalized()
		for _, sh := range sheets {
			issues = append(issues, validatePrices(sh, prices)...)
		}
	}
	return issues, nil
}

// validateOfferLabel warns when no sheet yields a two-letter prefix.
func validateOfferLabel(sheets []Sheet) []ValidationIssue {
	var issues []ValidationIssue
	found := false
	for _, sh := range sheets {
		label, ok := sh.FindFirst(labelMatcher(OfferNumberLabel))
		if !ok {
			continue
		}
		found = true
		target := label.Ref.Right()
		if _, ok := prefixFrom(sh.DisplayText(target)); ok {
			return nil
		}
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			CellRef:  target,
			Message:  "offer number cell has fewer than two letters; prefix falls back to the file name",
		})
	}
	if !found && len(sheets) > 0 {
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			CellRef:  NewCellRef(sheets[0].Name(), 0, 0),
			Message:  fmt.Sprintf("no %q label in any sheet; offer number is not written", OfferNumberLabel),
		})
	}
	return issues
}

// validateVigencia reports Vigencia cells that would not be shifted.
func validateVigencia(sh Sheet) []ValidationIssue {
	var issues []ValidationIssue
	for _, ref := range vigenciaCells(sh) {
		text := sh.Text(ref)
		ranges := VigenciaRanges(text)
		if len(ranges) == 0 {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  ref,
				Message:  "Vigencia cell has no \"dd-mm-yyyy al dd-mm-yyyy\" range",
			})
			continue
		}
		for _, r := range ranges {
			if shifted, _ := ShiftVigencia(r); shifted == r {
				issues = append(issues, ValidationIssue{
					Severity: SeverityError,
					CellRef:  ref,
					Message:  fmt.Sprintf("range %q holds an invalid date and is left unchanged", r),
				})
				continue
			}
			// shifted anyway, each date keeping its own separator
			if strings.Count(r, "/") == 2 || strings.Count(r, "-") == 2 {
				issues = append(issues, ValidationIssue{
					Severity: SeverityWarning,
					CellRef:  ref,
					Message:  fmt.Sprintf("range %q mixes date separators", r),
				})
			}
		}
	}
	return issues
}

// validateProfile reports blank prices and codes that shadow earlier ones.
func validateProfile(p *PriceProfile) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[string]string)
	for _, price := range p.Prices {
		key := NormalizePriceKey(price.Code)
		if prev, ok := seen[key]; ok {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("code %q overrides %q (both normalize to %q)", price.Code, prev, key),
			})
		}
		seen[key] = price.Code
		if strings.TrimSpace(price.Value) == "" {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("code %q has an empty price and is never applied", price.Code),
			})
		}
	}
	return issues
}

// validatePrices reports LICENCIAS price cells with no profile entry.
func validatePrices(sh Sheet, prices map[string]string) []ValidationIssue {
	label, ok := sh.FindFirst(labelMatcher(LicensesLabel))
	if !ok {
		return nil
	}
	var issues []ValidationIssue
	first, last := priceRows(label.Ref)
	for row := first; row <= last; row++ {
		ref := NewCellRef(sh.Name(), row, priceCol)
		key, text, ok := priceKey(sh, ref)
		if !ok {
			continue
		}
		if _, ok := prices[key]; !ok {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  ref,
				Message:  fmt.Sprintf("price %q has no entry in the profile", text),
			})
		}
	}
	return issues
}
