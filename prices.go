package xloffer

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// LicensesLabel marks the block whose column F prices are substituted.
	LicensesLabel = "LICENCIAS"

	// License prices sit in column F, no higher than row 20 and no lower than row 40.
	priceCol      = 5
	priceFirstRow = 19
	priceLastRow  = 39
)

// priceRows returns the 0-based row span scanned below a LICENCIAS label.
func priceRows(label CellRef) (first, last int) {
	first = label.Row + 1
	if first < priceFirstRow {
		first = priceFirstRow
	}
	return first, priceLastRow
}

// priceKey returns the lookup key of a price cell along with its displayed
// text. Numeric cells are keyed by their stored value, since their display
// text uses en-US separators ("1,234" for 1234 under #,##0); text cells by
// what they show. ok is false for blank cells.
func priceKey(sh Sheet, ref CellRef) (key, text string, ok bool) {
	text = sh.DisplayText(ref)
	if strings.TrimSpace(text) == "" {
		return "", "", false
	}
	if d, isNum := sh.Number(ref); isNum {
		return d.Round(2).String(), text, true
	}
	return NormalizePriceKey(text), text, true
}

// replacePrices substitutes the column F prices under the sheet's LICENCIAS
// label. It returns how many cells were rewritten.
func (t *Transformer) replacePrices(sh Sheet, prices map[string]string) (int, error) {
	label, ok := sh.FindFirst(labelMatcher(LicensesLabel))
	if !ok {
		t.opts.logger.Debug("no LICENCIAS block", zap.String("sheet", sh.Name()))
		return 0, nil
	}

	replaced := 0
	first, last := priceRows(label.Ref)
	for row := first; row <= last; row++ {
		ref := NewCellRef(sh.Name(), row, priceCol)
		key, _, ok := priceKey(sh, ref)
		if !ok {
			continue
		}
		value, ok := prices[key]
		if !ok || strings.TrimSpace(value) == "" {
			t.opts.logger.Debug("price not in profile", zap.Stringer("cell", ref), zap.String("key", key))
			continue
		}

		var err error
		if d, ok := ParsePrice(value); ok {
			err = sh.WriteNumber(ref, d.InexactFloat64())
		} else {
			err = sh.WriteText(ref, strings.TrimSpace(value))
		}
		if err != nil {
			return replaced, err
		}
		replaced++
	}
	return replaced, nil
}
