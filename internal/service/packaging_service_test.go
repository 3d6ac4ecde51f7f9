package service

import (
	"context"
	"encoding/json"
	"testing"

	"tradedocs/internal/model"
	"tradedocs/internal/packing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type packagingFixture struct {
	svc      PackagingService
	repo     *memPackagingRepo
	category *model.ProductCategory
	product  *model.Product
}

// newPackagingFixture seeds an electronics-style hierarchy:
// 12 pieces = 1 box, 40 boxes = 1 pallet.
func newPackagingFixture(t *testing.T) *packagingFixture {
	t.Helper()

	f := &packagingFixture{repo: newMemPackagingRepo()}
	f.svc = NewPackagingService(f.repo)

	f.category = &model.ProductCategory{ID: uuid.New(), Name: "Electronics"}
	f.repo.categories[f.category.ID] = f.category

	pieces := &model.PackagingUnit{ID: uuid.New(), Name: "Pieces", Abbreviation: "pcs"}
	box := &model.PackagingUnit{ID: uuid.New(), Name: "Box"}
	pallet := &model.PackagingUnit{ID: uuid.New(), Name: "Pallet"}
	for _, u := range []*model.PackagingUnit{pieces, box, pallet} {
		f.repo.units[u.ID] = u
	}

	f.repo.edges = []model.ConversionEdge{
		{ID: uuid.New(), CategoryID: f.category.ID, Level: 1, FromUnitID: pieces.ID, FromUnit: pieces, ToUnitID: box.ID, ToUnit: box, Quantity: 12, IsActive: true},
		{ID: uuid.New(), CategoryID: f.category.ID, Level: 2, FromUnitID: box.ID, FromUnit: box, ToUnitID: pallet.ID, ToUnit: pallet, Quantity: 40, IsActive: true},
	}

	f.product = &model.Product{
		ID:         uuid.New(),
		SKU:        "EL-001",
		Name:       "Charger",
		CategoryID: f.category.ID,
		Rate:       decimal.NewFromInt(25),
	}
	f.repo.products[f.product.ID] = f.product

	return f
}

func TestConvertThroughCategoryGraph(t *testing.T) {
	f := newPackagingFixture(t)

	got, err := f.svc.Convert(context.Background(), ConvertRequest{
		CategoryID: f.category.ID.String(),
		FromUnit:   "Pieces",
		ToUnit:     "Pallet",
		Quantity:   480,
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, got.Quantity)
	assert.Equal(t, string(packing.PathIndirect), got.Kind)
	require.Len(t, got.Path, 2)
	assert.Equal(t, "pieces", got.Path[0].FromUnit)
	assert.Equal(t, "pallet", got.Path[1].ToUnit)
}

func TestConvertNoPathNamesCategory(t *testing.T) {
	f := newPackagingFixture(t)

	_, err := f.svc.Convert(context.Background(), ConvertRequest{
		CategoryID: f.category.ID.String(),
		FromUnit:   "USD",
		ToUnit:     "Box",
		Quantity:   10,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, packing.ErrNoConversionPath)
	assert.Contains(t, err.Error(), "Electronics")
}

func TestConvertUnknownCategoryIsNotFound(t *testing.T) {
	f := newPackagingFixture(t)

	_, err := f.svc.Convert(context.Background(), ConvertRequest{
		CategoryID: uuid.NewString(),
		FromUnit:   "Pieces",
		ToUnit:     "Box",
		Quantity:   12,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateEdgeRejectsNonPositiveQuantity(t *testing.T) {
	f := newPackagingFixture(t)

	for _, qty := range []float64{0, -12} {
		_, err := f.svc.CreateEdge(context.Background(), CreateEdgeRequest{
			CategoryID: f.category.ID.String(),
			Level:      1,
			FromUnitID: uuid.NewString(),
			ToUnitID:   uuid.NewString(),
			Quantity:   qty,
		})
		assert.ErrorIs(t, err, packing.ErrInvalidConversionEdge, "quantity %v", qty)
	}
}

func TestCreateEdgeUnknownUnitIsNotFound(t *testing.T) {
	f := newPackagingFixture(t)

	_, err := f.svc.CreateEdge(context.Background(), CreateEdgeRequest{
		CategoryID: f.category.ID.String(),
		Level:      1,
		FromUnitID: uuid.NewString(),
		ToUnitID:   uuid.NewString(),
		Quantity:   12,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveProfileRederivesWeights(t *testing.T) {
	f := newPackagingFixture(t)

	profile, err := f.svc.SaveProfile(context.Background(), SaveProfileRequest{
		ProductID:         f.product.ID.String(),
		UnitWeight:        0.5,
		UnitWeightUnit:    "kg",
		WeightUnitType:    "pieces",
		Quantities:        map[string]float64{"piecesPerbox": 12, "BoxPerPallet": 40},
		CBMPerBox:         0.1,
		GrossWeightPerBox: 6.5,
	})
	require.NoError(t, err)

	var quantities map[string]float64
	require.NoError(t, json.Unmarshal([]byte(profile.Quantities), &quantities))
	assert.Equal(t, 12.0, quantities["PiecesPerBox"], "quantity keys are stored in canonical form")
	assert.Equal(t, 40.0, quantities["BoxPerPallet"])

	var weights map[string]float64
	require.NoError(t, json.Unmarshal([]byte(profile.Weights), &weights))
	assert.Equal(t, 0.5, weights["weightPerPieces"])
	assert.Equal(t, 6.0, weights["weightPerBox"])
	assert.Equal(t, 240.0, weights["weightPerPallet"])

	stored, ok := f.repo.profiles[f.product.ID]
	require.True(t, ok)
	assert.Equal(t, profile.Weights, stored.Weights)
}

func TestSaveProfileUnknownProductIsNotFound(t *testing.T) {
	f := newPackagingFixture(t)

	_, err := f.svc.SaveProfile(context.Background(), SaveProfileRequest{
		ProductID:      uuid.NewString(),
		UnitWeight:     0.5,
		WeightUnitType: "pieces",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProfileNotFound(t *testing.T) {
	f := newPackagingFixture(t)

	_, err := f.svc.GetProfile(context.Background(), f.product.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToPackingProfileConvertsGramsAndParsesKeys(t *testing.T) {
	m := &model.ProductPackagingProfile{
		UnitWeight:     500,
		UnitWeightUnit: "g",
		WeightUnitType: "pieces",
		Quantities:     `{"PiecesPerBox": 12, "BoxPerPallet": 40, "garbage": 1}`,
		Weights:        `{"weightPerBox": 6, "unrelated": 9}`,
	}

	p := toPackingProfile(m)

	assert.Equal(t, 0.5, p.UnitWeight)
	q, ok := p.Quantity(packing.UnitPieces, packing.UnitBox)
	require.True(t, ok)
	assert.Equal(t, 12.0, q)
	q, ok = p.Quantity(packing.UnitBox, packing.UnitPallet)
	require.True(t, ok)
	assert.Equal(t, 40.0, q)

	w, ok := p.WeightPer(packing.UnitBox)
	require.True(t, ok)
	assert.Equal(t, 6.0, w)
	assert.Len(t, p.Weights, 1, "keys without the weightPer prefix are dropped")
}
