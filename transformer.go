package xloffer

import (
	"time"

	"go.uber.org/zap"
)

// Request is one offer document to renew.
type Request struct {
	Document      []byte        // xlsx bytes; never modified
	Profile       *PriceProfile // nil skips price substitution
	ReferenceDate time.Time     // zero means today
	FileName      string        // original file name, used for naming only
	Sequence      int           // daily sequence; values below 1 count as 1
}

// Result carries the rewritten document and its naming metadata.
type Result struct {
	Document      []byte
	OfferNumber   string
	FileName      string
	PricesUpdated int
}

// Transformer renews offer workbooks. It holds no per-call state and is safe
// for concurrent use.
type Transformer struct {
	opts *Options
}

// New creates a Transformer.
func New(opts ...Option) *Transformer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Transformer{opts: o}
}

// Transform renews a single offer document with default options.
func Transform(req Request, opts ...Option) (*Result, error) {
	return New(opts...).Transform(req)
}

// Transform applies the offer number, date, Vigencia and price rewrites to
// every sheet and returns the new workbook. Only unreadable input fails, with
// a *DocumentFormatError.
func (t *Transformer) Transform(req Request) (*Result, error) {
	wb, err := openWorkbook(req.Document, t.opts.dateFormat)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	refDate := req.ReferenceDate
	if refDate.IsZero() {
		refDate = t.opts.now()
	}
	refDate = dateOnly(refDate)

	seq := req.Sequence
	if seq < 1 {
		seq = 1
	}

	sheets := wb.Sheets()
	prefix, source := offerPrefix(sheets, req.FileName)
	number := OfferNumber(prefix, refDate, seq)

	var prices map[string]string
	if req.Profile != nil && len(req.Profile.Prices) > 0 {
		prices = req.Profile.Prices.Normalized()
	}

	replaced := 0
	for _, sh := range sheets {
		if err := t.applyLabels(sh, number, refDate); err != nil {
			return nil, err
		}
		if err := t.shiftVigencia(sh); err != nil {
			return nil, err
		}
		if prices == nil {
			continue
		}
		n, err := t.replacePrices(sh, prices)
		if err != nil {
			return nil, err
		}
		replaced += n
	}

	out, err := wb.Bytes()
	if err != nil {
		return nil, err
	}

	fileName := OutputFileName(req.FileName, number)
	t.opts.logger.Info("offer transformed",
		zap.String("offer_number", number),
		zap.String("prefix_source", source),
		zap.String("file_name", fileName),
		zap.Int("sheets", len(sheets)),
		zap.Int("prices_updated", replaced))

	return &Result{
		Document:      out,
		OfferNumber:   number,
		FileName:      fileName,
		PricesUpdated: replaced,
	}, nil
}
