package packing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRequiredContainersWeightBound(t *testing.T) {
	// 45000 kg in 20 Feet containers (21000 kg each) needs 3.
	assert.Equal(t, 3, RequiredContainers(Container20Feet, 45000, 0))
}

func TestRequiredContainersVolumeBound(t *testing.T) {
	// Volume is the tighter dimension here: 140 CBM / 67 = 3 containers.
	assert.Equal(t, 3, RequiredContainers(Container40Feet, 1000, 140))
}

func TestRequiredContainersNeverZero(t *testing.T) {
	for _, ct := range []ContainerType{
		Container20Feet, Container40Feet, Container40FeetHQ,
		Container45FeetHQ, ContainerReefer20, ContainerReefer40, ContainerLCL,
	} {
		assert.GreaterOrEqual(t, RequiredContainers(ct, 0, 0), 1, "type %s", ct)
	}
}

func TestRequiredContainersLCLAlwaysOne(t *testing.T) {
	assert.Equal(t, 1, RequiredContainers(ContainerLCL, 1e6, 1e4))
}

func TestRequiredContainersMonotonicInWeight(t *testing.T) {
	prev := 0
	for w := 0.0; w <= 200000; w += 5000 {
		n := RequiredContainers(Container20Feet, w, 20)
		assert.GreaterOrEqual(t, n, prev, "weight %v", w)
		prev = n
	}
}

func TestAggregate(t *testing.T) {
	lines := []LineTotals{
		{Amount: decimal.NewFromInt(1200), Weight: 12000, GrossWeight: 12500, Volume: 10, Boxes: 100, Pallets: 3},
		{Amount: decimal.NewFromInt(800), Weight: 33000, GrossWeight: 33900, Volume: 15, Boxes: 250, Pallets: 7},
	}
	charges := map[string]decimal.Decimal{
		"freight":   decimal.NewFromInt(300),
		"insurance": decimal.NewFromInt(50),
	}

	got := Aggregate(lines, charges, Container20Feet, 0)

	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(2000)), "subtotal %s", got.Subtotal)
	assert.True(t, got.ChargesTotal.Equal(decimal.NewFromInt(350)), "charges %s", got.ChargesTotal)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(2350)), "total %s", got.TotalAmount)
	assert.Equal(t, 45000.0, got.TotalWeight)
	assert.Equal(t, 46400.0, got.TotalGrossWeight)
	assert.Equal(t, 25.0, got.TotalVolume)
	assert.Equal(t, 350.0, got.TotalBoxes)
	assert.Equal(t, 10.0, got.TotalPallets)
	assert.Equal(t, 3, got.RequiredContainers)
	assert.Equal(t, 3, got.NumberOfContainers)
}

func TestAggregateContainerOverride(t *testing.T) {
	lines := []LineTotals{{Amount: decimal.NewFromInt(100), Weight: 1000, Volume: 2}}

	got := Aggregate(lines, nil, Container20Feet, 5)
	assert.Equal(t, 1, got.RequiredContainers)
	assert.Equal(t, 5, got.NumberOfContainers)
}

func TestAggregateEmptyInvoice(t *testing.T) {
	got := Aggregate(nil, nil, Container40FeetHQ, 0)

	assert.True(t, got.TotalAmount.IsZero())
	assert.Equal(t, 1, got.RequiredContainers)
	assert.Equal(t, 1, got.NumberOfContainers)
}
