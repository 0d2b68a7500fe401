package xloffer

import (
	"fmt"
	"strings"
)

// Report lists what each rewrite rule would act on in a document.
type Report struct {
	Prefix       string        `yaml:"prefix" json:"prefix"`
	PrefixSource string        `yaml:"prefix_source" json:"prefixSource"`
	Sheets       []SheetReport `yaml:"sheets" json:"sheets"`
}

// SheetReport describes the markers found on one worksheet.
type SheetReport struct {
	Name       string        `yaml:"name" json:"name"`
	Labels     []LabelReport `yaml:"labels,omitempty" json:"labels,omitempty"`
	Vigencia   []CellReport  `yaml:"vigencia,omitempty" json:"vigencia,omitempty"`
	Licenses   string        `yaml:"licenses,omitempty" json:"licenses,omitempty"`
	PriceCells []CellReport  `yaml:"price_cells,omitempty" json:"priceCells,omitempty"`
}

// LabelReport is a labelled cell and the cell that would be rewritten.
type LabelReport struct {
	Kind   string `yaml:"kind" json:"kind"`
	Label  string `yaml:"label" json:"label"`
	Target string `yaml:"target" json:"target"`
	Value  string `yaml:"value" json:"value"`
}

// CellReport is a cell reference with its current text.
type CellReport struct {
	Cell string `yaml:"cell" json:"cell"`
	Text string `yaml:"text" json:"text"`
}

// Describe opens a document and reports the labels, Vigencia cells and
// LICENCIAS price cells the transformation would touch, without changing it.
func Describe(doc []byte, fileName string, opts ...Option) (*Report, error) {
	return New(opts...).Describe(doc, fileName)
}

// Describe is the Transformer form of the package-level Describe.
func (t *Transformer) Describe(doc []byte, fileName string) (*Report, error) {
	wb, err := openWorkbook(doc, t.opts.dateFormat)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.Sheets()
	rep := &Report{}
	rep.Prefix, rep.PrefixSource = offerPrefix(sheets, fileName)

	for _, sh := range sheets {
		sr := SheetReport{Name: sh.Name()}
		for _, c := range sh.Cells() {
			kind := classifyLabel(c.Text)
			if kind == labelNone {
				continue
			}
			target := c.Ref.Right()
			sr.Labels = append(sr.Labels, LabelReport{
				Kind:   kind.String(),
				Label:  c.Ref.CellName(),
				Target: target.CellName(),
				Value:  sh.DisplayText(target),
			})
		}
		for _, ref := range vigenciaCells(sh) {
			sr.Vigencia = append(sr.Vigencia, CellReport{Cell: ref.CellName(), Text: sh.Text(ref)})
		}
		if label, ok := sh.FindFirst(labelMatcher(LicensesLabel)); ok {
			first, last := priceRows(label.Ref)
			sr.Licenses = label.Ref.CellName()
			for row := first; row <= last; row++ {
				ref := NewCellRef(sh.Name(), row, priceCol)
				if text := sh.DisplayText(ref); strings.TrimSpace(text) != "" {
					sr.PriceCells = append(sr.PriceCells, CellReport{Cell: ref.CellName(), Text: text})
				}
			}
		}
		rep.Sheets = append(rep.Sheets, sr)
	}
	return rep, nil
}

// vigenciaCells returns the cells in the Vigencia scan range that mention Vigencia.
func vigenciaCells(sh Sheet) []CellRef {
	var refs []CellRef
	for row := vigenciaFirstRow; row <= vigenciaLastRow; row++ {
		ref := NewCellRef(sh.Name(), row, vigenciaCol)
		if text := sh.Text(ref); strings.TrimSpace(text) != "" && ContainsFold(text, VigenciaLabel) {
			refs = append(refs, ref)
		}
	}
	return refs
}

// String renders the report as an indented tree.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Prefix: %s (%s)\n", r.Prefix, r.PrefixSource)
	for _, s := range r.Sheets {
		fmt.Fprintf(&b, "Sheet %q\n", s.Name)
		if len(s.Labels) > 0 {
			b.WriteString("  Labels:\n")
			for _, l := range s.Labels {
				fmt.Fprintf(&b, "    %s %s -> %s %q\n", l.Label, l.Kind, l.Target, l.Value)
			}
		}
		if len(s.Vigencia) > 0 {
			b.WriteString("  Vigencia:\n")
			for _, v := range s.Vigencia {
				fmt.Fprintf(&b, "    %s: %s\n", v.Cell, v.Text)
			}
		}
		if s.Licenses != "" {
			fmt.Fprintf(&b, "  Licenses at %s:\n", s.Licenses)
			for _, p := range s.PriceCells {
				fmt.Fprintf(&b, "    %s: %s\n", p.Cell, p.Text)
			}
		}
	}
	return b.String()
}

// CellInfo is a single cell as the rewrite rules see it.
type CellInfo struct {
	Cell     string   `yaml:"cell" json:"cell"`
	Raw      string   `yaml:"raw" json:"raw"`
	Display  string   `yaml:"display" json:"display"`
	PriceKey string   `yaml:"price_key,omitempty" json:"priceKey,omitempty"`
	Rules    []string `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Inspect reports the raw and displayed value of each cell ("C3",
// "Oferta!F25") and the rules that would rewrite it. References without a
// sheet point at the first sheet.
func (t *Transformer) Inspect(doc []byte, cells []string) ([]CellInfo, error) {
	wb, err := openWorkbook(doc, t.opts.dateFormat)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.Sheets()
	byName := make(map[string]Sheet, len(sheets))
	for _, sh := range sheets {
		byName[sh.Name()] = sh
	}

	infos := make([]CellInfo, 0, len(cells))
	for _, s := range cells {
		ref, err := ParseCellRef(s)
		if err != nil {
			return nil, err
		}
		if ref.Sheet == "" {
			ref.Sheet = sheets[0].Name()
		}
		sh, ok := byName[ref.Sheet]
		if !ok {
			return nil, fmt.Errorf("no sheet %q in workbook", ref.Sheet)
		}

		info := CellInfo{Cell: ref.String(), Raw: sh.Text(ref), Display: sh.DisplayText(ref)}
		if ref.Col > 0 {
			left := NewCellRef(ref.Sheet, ref.Row, ref.Col-1)
			if kind := classifyLabel(sh.DisplayText(left)); kind != labelNone {
				info.Rules = append(info.Rules, fmt.Sprintf("%s (label at %s)", kind, left.CellName()))
			}
		}
		if ref.Col == vigenciaCol && ref.Row >= vigenciaFirstRow && ref.Row <= vigenciaLastRow {
			info.Rules = append(info.Rules, fmt.Sprintf("Vigencia scan (column %s, rows %d-%d)",
				ColToName(vigenciaCol), vigenciaFirstRow+1, vigenciaLastRow+1))
		}
		if label, ok := sh.FindFirst(labelMatcher(LicensesLabel)); ok && ref.Col == priceCol {
			first, last := priceRows(label.Ref)
			if ref.Row >= first && ref.Row <= last {
				info.Rules = append(info.Rules, fmt.Sprintf("LICENCIAS price (column %s below row %d)",
					ColToName(priceCol), label.Ref.RowNumber()))
				info.PriceKey, _, _ = priceKey(sh, ref)
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// String renders the cell on one line.
func (c CellInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s raw=%q display=%q", c.Cell, c.Raw, c.Display)
	if c.PriceKey != "" {
		fmt.Fprintf(&b, " key=%s", c.PriceKey)
	}
	if len(c.Rules) == 0 {
		b.WriteString(" (untouched)")
	}
	for _, r := range c.Rules {
		fmt.Fprintf(&b, "\n  %s", r)
	}
	return b.String()
}
