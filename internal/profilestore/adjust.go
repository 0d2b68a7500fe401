package profilestore

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/shopspring/decimal"

	"github.com/javajack/xloffer"
)

// Adjuster rewrites profile prices with an expression such as
// "price * 1.03" or `code == "401" ? 425 : price`.
type Adjuster struct {
	cache sync.Map // expression string → compiled *vm.Program
}

// NewAdjuster creates an Adjuster with an empty program cache.
func NewAdjuster() *Adjuster {
	return &Adjuster{}
}

// priceEnv is the environment expressions are compiled against.
type priceEnv struct {
	Price float64 `expr:"price"`
	Code  string  `expr:"code"`
}

// Compile checks an expression without running it.
func (a *Adjuster) Compile(expression string) error {
	_, err := a.compile(expression)
	return err
}

// Adjust returns a copy of p with every numeric price replaced by the
// expression result rounded to two decimals. Prices that are not numbers
// are copied unchanged.
func (a *Adjuster) Adjust(p *xloffer.PriceProfile, expression string) (*xloffer.PriceProfile, error) {
	program, err := a.compile(expression)
	if err != nil {
		return nil, err
	}

	out := *p
	out.Prices = make(xloffer.PriceList, 0, len(p.Prices))
	for _, price := range p.Prices {
		d, ok := xloffer.ParsePrice(price.Value)
		if !ok {
			out.Prices = append(out.Prices, price)
			continue
		}
		result, err := expr.Run(program, priceEnv{Price: d.InexactFloat64(), Code: price.Code})
		if err != nil {
			return nil, fmt.Errorf("adjust price %q: %w", price.Code, err)
		}
		v, err := toDecimal(result)
		if err != nil {
			return nil, fmt.Errorf("adjust price %q: %w", price.Code, err)
		}
		out.Prices = append(out.Prices, xloffer.Price{Code: price.Code, Value: v.Round(2).StringFixed(2)})
	}
	return &out, nil
}

func (a *Adjuster) compile(expression string) (*vm.Program, error) {
	if cached, ok := a.cache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(priceEnv{}))
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expression, err)
	}
	a.cache.Store(expression, program)
	return program, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	}
	return decimal.Zero, fmt.Errorf("expression returned %T, expected a number", v)
}
