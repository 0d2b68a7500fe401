package xloffer

import (
	"time"

	"go.uber.org/zap"
)

const (
	// BudgetDateLabel precedes the cell that receives the reference date.
	BudgetDateLabel = "F. Ppto."
	// ValidityLabel precedes the cell that receives the reference date plus two months.
	ValidityLabel = "Validez"

	// validityMonths is how far the validity date sits after the reference date.
	validityMonths = 2
)

// labelKind identifies which right-of-label rewrite applies to a cell.
type labelKind int

const (
	labelNone labelKind = iota
	labelOfferNumber
	labelBudgetDate
	labelValidity
)

func (k labelKind) String() string {
	switch k {
	case labelOfferNumber:
		return "offer number"
	case labelBudgetDate:
		return "budget date"
	case labelValidity:
		return "validity date"
	}
	return "none"
}

// classifyLabel returns the first label contained in text; order matters when
// a cell carries more than one.
func classifyLabel(text string) labelKind {
	switch {
	case ContainsFold(text, OfferNumberLabel):
		return labelOfferNumber
	case ContainsFold(text, BudgetDateLabel):
		return labelBudgetDate
	case ContainsFold(text, ValidityLabel):
		return labelValidity
	}
	return labelNone
}

// applyLabels rewrites the cell to the right of every labelled cell.
// The cell list is read once up front so values written here are never re-matched.
func (t *Transformer) applyLabels(sh Sheet, offerNumber string, refDate time.Time) error {
	for _, c := range sh.Cells() {
		kind := classifyLabel(c.Text)
		target := c.Ref.Right()

		var err error
		switch kind {
		case labelNone:
			continue
		case labelOfferNumber:
			err = sh.WriteText(target, offerNumber)
		case labelBudgetDate:
			err = sh.WriteDate(target, refDate)
		case labelValidity:
			err = sh.WriteDate(target, addMonths(refDate, validityMonths))
		}
		if err != nil {
			return err
		}
		t.opts.logger.Debug("label rewritten",
			zap.String("label", kind.String()),
			zap.Stringer("cell", target))
	}
	return nil
}
