package packing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func electronicsGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := NewGraph([]Edge{
		{From: UnitPieces, To: UnitBox, Quantity: 12, Level: 1},
		{From: UnitBox, To: UnitPallet, Quantity: 40, Level: 2},
	})
	require.NoError(t, err)
	return g
}

func TestNewGraphRejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []float64{0, -3} {
		_, err := NewGraph([]Edge{{From: UnitPieces, To: UnitBox, Quantity: qty}})
		assert.ErrorIs(t, err, ErrInvalidConversionEdge, "quantity %v", qty)
	}
}

func TestConvertIdentity(t *testing.T) {
	g := electronicsGraph(t)

	for _, qty := range []float64{0, 1, 480, 7.25} {
		got, err := g.Convert(UnitBox, UnitBox, qty)
		require.NoError(t, err)
		assert.Equal(t, qty, got.Quantity)
		assert.Empty(t, got.Path)
		assert.Equal(t, PathDirect, got.Kind)
	}
}

func TestConvertForwardChain(t *testing.T) {
	g := electronicsGraph(t)

	got, err := g.Convert(UnitPieces, UnitPallet, 480)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Quantity)
	assert.Len(t, got.Path, 2)
	assert.Equal(t, PathIndirect, got.Kind)
}

func TestConvertSingleEdgeIsDirect(t *testing.T) {
	g := electronicsGraph(t)

	got, err := g.Convert(UnitPieces, UnitBox, 24)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Quantity)
	assert.Equal(t, PathDirect, got.Kind)
}

func TestConvertReverseChainMultiplies(t *testing.T) {
	g := electronicsGraph(t)

	got, err := g.Convert(UnitPallet, UnitPieces, 1)
	require.NoError(t, err)
	assert.Equal(t, 480.0, got.Quantity)
}

func TestConvertRoundsToTwoDecimals(t *testing.T) {
	g := electronicsGraph(t)

	got, err := g.Convert(UnitPieces, UnitBox, 100)
	require.NoError(t, err)
	assert.Equal(t, 8.33, got.Quantity)
}

func TestConvertNoPath(t *testing.T) {
	g := electronicsGraph(t)

	got, err := g.Convert(Unit("usd"), UnitBox, 10)
	assert.ErrorIs(t, err, ErrNoConversionPath)
	assert.Equal(t, PathNotFound, got.Kind)

	var pathErr *NoConversionPathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, Unit("usd"), pathErr.From)
	assert.Equal(t, UnitBox, pathErr.To)
}

// The walk is greedy: when the first outgoing edge leads to a dead end, no
// alternative from an earlier node is tried. A graph whose first edge from
// pieces points into a disconnected component therefore fails even though a
// second edge would have reached the target.
func TestConvertGreedyWalkDoesNotBacktrack(t *testing.T) {
	g, err := NewGraph([]Edge{
		{From: UnitPieces, To: Unit("bundle"), Quantity: 6, Level: 1},
		{From: UnitPieces, To: UnitBox, Quantity: 12, Level: 1},
		{From: UnitBox, To: UnitPallet, Quantity: 40, Level: 2},
	})
	require.NoError(t, err)

	_, err = g.Convert(UnitPieces, UnitPallet, 480)
	assert.ErrorIs(t, err, ErrNoConversionPath)
}

func TestWeightAt(t *testing.T) {
	g := electronicsGraph(t)

	profile := Profile{UnitWeight: 0.5, WeightUnitType: UnitPieces}

	perPiece, err := g.WeightAt(profile, UnitPieces)
	require.NoError(t, err)
	assert.Equal(t, 0.5, perPiece)

	perBox, err := g.WeightAt(profile, UnitBox)
	require.NoError(t, err)
	assert.Equal(t, 6.0, perBox)

	perPallet, err := g.WeightAt(profile, UnitPallet)
	require.NoError(t, err)
	assert.Equal(t, 240.0, perPallet)

	// Measured at box level, a smaller unit divides.
	boxProfile := Profile{UnitWeight: 6, WeightUnitType: UnitBox}
	perPiece, err = g.WeightAt(boxProfile, UnitPieces)
	require.NoError(t, err)
	assert.Equal(t, 0.5, perPiece)
}

func TestWeightAtMissingUnitWeight(t *testing.T) {
	g := electronicsGraph(t)

	_, err := g.WeightAt(Profile{WeightUnitType: UnitPieces}, UnitBox)
	assert.ErrorIs(t, err, ErrMissingPackagingData)
}
