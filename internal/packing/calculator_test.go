package packing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() Profile {
	return Profile{
		UnitWeight:     0.5,
		WeightUnitType: UnitPieces,
		Quantities: map[NodePair]float64{
			{From: UnitPieces, To: UnitBox}: 12,
			{From: UnitBox, To: UnitPallet}: 40,
		},
		Weights: map[Unit]float64{
			UnitPieces: 0.5,
			UnitBox:    6,
			UnitPallet: 240,
		},
		CBMPerBox:         0.1,
		GrossWeightPerBox: 6.5,
	}
}

func TestComputeBreakdown(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		unit     Unit
		want     Breakdown
	}{
		{
			name:     "pieces",
			quantity: 100,
			unit:     UnitPieces,
			want:     Breakdown{Boxes: 9, Pallets: 1, TotalWeight: 50, TotalCBM: 0.9},
		},
		{
			name:     "kg derives pieces first",
			quantity: 50,
			unit:     UnitKg,
			want:     Breakdown{Boxes: 9, Pallets: 1, TotalWeight: 50, TotalCBM: 0.9},
		},
		{
			name:     "box counts directly",
			quantity: 5,
			unit:     UnitBox,
			want:     Breakdown{Boxes: 5, Pallets: 1, TotalWeight: 30, TotalCBM: 0.5},
		},
		{
			name:     "pallet expands to boxes",
			quantity: 2,
			unit:     UnitPallet,
			want:     Breakdown{Boxes: 80, Pallets: 2, TotalWeight: 480, TotalCBM: 8},
		},
		{
			name:     "sqm treated as piece equivalents",
			quantity: 100,
			unit:     UnitSqm,
			want:     Breakdown{Boxes: 9, Pallets: 1, TotalWeight: 50, TotalCBM: 0.9},
		},
		{
			name:     "unknown unit falls back to pieces branch",
			quantity: 100,
			unit:     Unit("rolls"),
			want:     Breakdown{Boxes: 9, Pallets: 1, TotalWeight: 50, TotalCBM: 0.9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBreakdown(testProfile(), tt.quantity, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeBreakdownMissingData(t *testing.T) {
	empty := Profile{}

	for _, unit := range []Unit{UnitPieces, UnitKg, UnitBox, UnitPallet} {
		got, err := ComputeBreakdown(empty, 10, unit)
		if unit == UnitBox {
			// Box quantities need no hierarchy entries at all; the weight is
			// left at zero for the caller's flat fallback to fill.
			require.NoError(t, err)
			assert.Zero(t, got.TotalWeight)
			continue
		}
		assert.ErrorIs(t, err, ErrMissingPackagingData, "unit %s", unit)
	}
}

func TestComputeBreakdownPalletsStayZeroWithoutBoxesPerPallet(t *testing.T) {
	p := testProfile()
	delete(p.Quantities, NodePair{From: UnitBox, To: UnitPallet})

	got, err := ComputeBreakdown(p, 100, UnitPieces)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.Boxes)
	assert.Zero(t, got.Pallets)
}

func TestGrossWeight(t *testing.T) {
	p := testProfile()

	// 100 pieces / 12 per box = 8.33 boxes at 6.5 kg each
	assert.Equal(t, 54.17, GrossWeight(p, 100, UnitPieces))
	assert.Equal(t, 32.5, GrossWeight(p, 5, UnitBox))
	assert.Equal(t, 520.0, GrossWeight(p, 2, UnitPallet))
}

func TestGrossWeightConvertsGramsToKg(t *testing.T) {
	p := testProfile()
	p.GrossWeightPerBox = 6500 // grams

	assert.Equal(t, 32.5, GrossWeight(p, 5, UnitBox))
}

func TestGrossWeightZeroWhenUnconfigured(t *testing.T) {
	p := testProfile()
	p.GrossWeightPerBox = 0

	assert.Zero(t, GrossWeight(p, 100, UnitPieces))
}
