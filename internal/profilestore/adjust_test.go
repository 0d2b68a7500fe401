package profilestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/xloffer"
)

func TestAdjuster_Adjust(t *testing.T) {
	p := &xloffer.PriceProfile{
		ID:   "src",
		Name: "Base",
		Prices: xloffer.PriceList{
			{Code: "401", Value: "400,00 €"},
			{Code: "402", Value: "1.000,00"},
			{Code: "Pro", Value: "Premium"},
		},
	}

	a := NewAdjuster()
	got, err := a.Adjust(p, "price * 1.03")
	require.NoError(t, err)
	assert.Equal(t, xloffer.PriceList{
		{Code: "401", Value: "412.00"},
		{Code: "402", Value: "1030.00"},
		{Code: "Pro", Value: "Premium"},
	}, got.Prices)
	assert.Equal(t, "400,00 €", p.Prices[0].Value, "source is not modified")

	// adjusted values still read back as the same amounts
	d, ok := xloffer.ParsePrice(got.Prices[1].Value)
	require.True(t, ok)
	assert.Equal(t, 1030.0, d.InexactFloat64())
}

func TestAdjuster_UsesCode(t *testing.T) {
	p := &xloffer.PriceProfile{Prices: xloffer.PriceList{
		{Code: "401", Value: "10"},
		{Code: "402", Value: "10"},
	}}
	got, err := NewAdjuster().Adjust(p, `code == "401" ? 25 : price`)
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.Prices[0].Value)
	assert.Equal(t, "10.00", got.Prices[1].Value)
}

func TestAdjuster_Errors(t *testing.T) {
	a := NewAdjuster()
	assert.Error(t, a.Compile("price *"))
	assert.Error(t, a.Compile("unknown + 1"))
	assert.NoError(t, a.Compile("price + 1"))

	p := &xloffer.PriceProfile{Prices: xloffer.PriceList{{Code: "a", Value: "1"}}}
	_, err := a.Adjust(p, `code`)
	assert.Error(t, err)
}
