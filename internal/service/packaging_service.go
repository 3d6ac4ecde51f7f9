package service

import (
	"context"
	"errors"
	"fmt"

	"tradedocs/internal/model"
	"tradedocs/internal/packing"
	"tradedocs/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateUnitRequest struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateEdgeRequest struct {
	CategoryID string  `json:"category_id" binding:"required"`
	Level      int     `json:"level" binding:"required,gte=1"`
	FromUnitID string  `json:"from_unit_id" binding:"required"`
	ToUnitID   string  `json:"to_unit_id" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required"`
}

type ConvertRequest struct {
	CategoryID string  `json:"category_id" binding:"required"`
	FromUnit   string  `json:"from_unit" binding:"required"`
	ToUnit     string  `json:"to_unit" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"gte=0"`
}

type ConvertStep struct {
	FromUnit string  `json:"from_unit"`
	ToUnit   string  `json:"to_unit"`
	Quantity float64 `json:"quantity"`
}

type ConvertResponse struct {
	Quantity float64       `json:"quantity"`
	Kind     string        `json:"kind"`
	Path     []ConvertStep `json:"path"`
}

type CreateProductRequest struct {
	SKU        string `json:"sku" binding:"required"`
	Name       string `json:"name" binding:"required"`
	CategoryID string `json:"category_id" binding:"required"`
	Rate       string `json:"rate"`
}

type SaveProfileRequest struct {
	ProductID         string             `json:"product_id" binding:"required"`
	UnitWeight        float64            `json:"unit_weight" binding:"gte=0"`
	UnitWeightUnit    string             `json:"unit_weight_unit"`
	WeightUnitType    string             `json:"weight_unit_type" binding:"required"`
	Quantities        map[string]float64 `json:"quantities"`
	CBMPerBox         float64            `json:"cbm_per_box" binding:"gte=0"`
	GrossWeightPerBox float64            `json:"gross_weight_per_box" binding:"gte=0"`
}

// --- Interface ---

type PackagingService interface {
	ListUnits(ctx context.Context) ([]model.PackagingUnit, error)
	CreateUnit(ctx context.Context, req CreateUnitRequest) (*model.PackagingUnit, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*model.ProductCategory, error)
	ListEdges(ctx context.Context, categoryID string) ([]model.ConversionEdge, error)
	CreateEdge(ctx context.Context, req CreateEdgeRequest) (*model.ConversionEdge, error)
	DeactivateEdge(ctx context.Context, id string) error
	Convert(ctx context.Context, req ConvertRequest) (ConvertResponse, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetProfile(ctx context.Context, productID string) (*model.ProductPackagingProfile, error)
	SaveProfile(ctx context.Context, req SaveProfileRequest) (*model.ProductPackagingProfile, error)
}

type packagingService struct {
	packagingRepo repository.PackagingRepository
}

func NewPackagingService(packagingRepo repository.PackagingRepository) PackagingService {
	return &packagingService{packagingRepo: packagingRepo}
}

// --- Implementation ---

func (s *packagingService) ListUnits(ctx context.Context) ([]model.PackagingUnit, error) {
	return s.packagingRepo.ListUnits(ctx)
}

func (s *packagingService) CreateUnit(ctx context.Context, req CreateUnitRequest) (*model.PackagingUnit, error) {
	unit := model.PackagingUnit{
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
	}
	if err := s.packagingRepo.CreateUnit(ctx, &unit); err != nil {
		return nil, fmt.Errorf("failed to create packaging unit: %w", err)
	}
	return &unit, nil
}

func (s *packagingService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*model.ProductCategory, error) {
	category := model.ProductCategory{Name: req.Name}
	if err := s.packagingRepo.CreateCategory(ctx, &category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *packagingService) ListEdges(ctx context.Context, categoryID string) ([]model.ConversionEdge, error) {
	id, err := uuid.Parse(categoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}
	return s.packagingRepo.ListActiveEdges(ctx, id)
}

func (s *packagingService) CreateEdge(ctx context.Context, req CreateEdgeRequest) (*model.ConversionEdge, error) {
	if req.Quantity <= 0 {
		return nil, packing.ErrInvalidConversionEdge
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}
	fromUnitID, err := uuid.Parse(req.FromUnitID)
	if err != nil {
		return nil, fmt.Errorf("invalid from_unit_id: %w", err)
	}
	toUnitID, err := uuid.Parse(req.ToUnitID)
	if err != nil {
		return nil, fmt.Errorf("invalid to_unit_id: %w", err)
	}

	if _, err := s.packagingRepo.FindCategoryByID(ctx, categoryID); err != nil {
		return nil, mapNotFound(err, "category")
	}
	if _, err := s.packagingRepo.FindUnitByID(ctx, fromUnitID); err != nil {
		return nil, mapNotFound(err, "from unit")
	}
	if _, err := s.packagingRepo.FindUnitByID(ctx, toUnitID); err != nil {
		return nil, mapNotFound(err, "to unit")
	}

	edge := model.ConversionEdge{
		CategoryID: categoryID,
		Level:      req.Level,
		FromUnitID: fromUnitID,
		ToUnitID:   toUnitID,
		Quantity:   req.Quantity,
		IsActive:   true,
	}
	if err := s.packagingRepo.CreateEdge(ctx, &edge); err != nil {
		return nil, fmt.Errorf("failed to create conversion edge: %w", err)
	}
	return &edge, nil
}

func (s *packagingService) DeactivateEdge(ctx context.Context, id string) error {
	edgeID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid edge id: %w", err)
	}
	return s.packagingRepo.DeactivateEdge(ctx, edgeID)
}

func (s *packagingService) Convert(ctx context.Context, req ConvertRequest) (ConvertResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return ConvertResponse{}, fmt.Errorf("invalid category id: %w", err)
	}

	category, err := s.packagingRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return ConvertResponse{}, mapNotFound(err, "category")
	}

	graph, err := s.buildGraph(ctx, categoryID)
	if err != nil {
		return ConvertResponse{}, err
	}

	conv, err := graph.Convert(packing.Normalize(req.FromUnit), packing.Normalize(req.ToUnit), req.Quantity)
	if err != nil {
		var pathErr *packing.NoConversionPathError
		if errors.As(err, &pathErr) {
			pathErr.Category = category.Name
			return ConvertResponse{Kind: string(packing.PathNotFound)}, pathErr
		}
		return ConvertResponse{}, err
	}

	resp := ConvertResponse{
		Quantity: conv.Quantity,
		Kind:     string(conv.Kind),
		Path:     make([]ConvertStep, 0, len(conv.Path)),
	}
	for _, e := range conv.Path {
		resp.Path = append(resp.Path, ConvertStep{
			FromUnit: string(e.From),
			ToUnit:   string(e.To),
			Quantity: e.Quantity,
		})
	}
	return resp, nil
}

func (s *packagingService) CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}
	if _, err := s.packagingRepo.FindCategoryByID(ctx, categoryID); err != nil {
		return nil, mapNotFound(err, "category")
	}

	rate := decimal.Zero
	if req.Rate != "" {
		rate, err = decimal.NewFromString(req.Rate)
		if err != nil {
			return nil, fmt.Errorf("invalid rate: %w", err)
		}
	}

	product := model.Product{
		SKU:        req.SKU,
		Name:       req.Name,
		CategoryID: categoryID,
		Rate:       rate,
	}
	if err := s.packagingRepo.CreateProduct(ctx, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

func (s *packagingService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.packagingRepo.FindProduct(ctx, productID)
	if err != nil {
		return nil, mapNotFound(err, "product")
	}
	return product, nil
}

func (s *packagingService) GetProfile(ctx context.Context, productID string) (*model.ProductPackagingProfile, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	profile, err := s.packagingRepo.FindProfileByProduct(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "packaging profile")
	}
	return profile, nil
}

// SaveProfile persists the per-product hierarchy and rederives the
// weight-per-level entries from the category graph, so weightPerBox and
// friends never drift from the unit weight they are computed from.
func (s *packagingService) SaveProfile(ctx context.Context, req SaveProfileRequest) (*model.ProductPackagingProfile, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.packagingRepo.FindProduct(ctx, productID)
	if err != nil {
		return nil, mapNotFound(err, "product")
	}

	// Canonicalize quantity keys to "<From>Per<To>" so the stored JSON never
	// depends on the casing the client sent.
	quantities := make(map[string]float64, len(req.Quantities))
	for key, qty := range req.Quantities {
		if pair, ok := parsePairKey(key); ok {
			quantities[pairKey(pair.From, pair.To)] = qty
		}
	}

	profile := model.ProductPackagingProfile{
		ProductID:         productID,
		UnitWeight:        req.UnitWeight,
		UnitWeightUnit:    req.UnitWeightUnit,
		WeightUnitType:    req.WeightUnitType,
		Quantities:        marshalFloatMap(quantities),
		Weights:           "{}",
		CBMPerBox:         req.CBMPerBox,
		GrossWeightPerBox: req.GrossWeightPerBox,
	}

	edges, err := s.packagingRepo.ListActiveEdges(ctx, product.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversion edges: %w", err)
	}
	packEdges := edgesToPacking(edges)
	graph, err := packing.NewGraph(packEdges)
	if err != nil {
		return nil, err
	}

	packProfile := toPackingProfile(&profile)
	weights := make(map[string]float64)
	for _, unit := range graphUnits(packEdges) {
		w, err := graph.WeightAt(packProfile, unit)
		if err != nil {
			continue // unreachable level or no unit weight; leave the entry out
		}
		weights[weightKey(unit)] = w
	}
	profile.Weights = marshalFloatMap(weights)

	if err := s.packagingRepo.SaveProfile(ctx, &profile); err != nil {
		return nil, fmt.Errorf("failed to save packaging profile: %w", err)
	}
	return &profile, nil
}

// buildGraph loads a category's active edges and indexes them by unit name.
func (s *packagingService) buildGraph(ctx context.Context, categoryID uuid.UUID) (*packing.Graph, error) {
	edges, err := s.packagingRepo.ListActiveEdges(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversion edges: %w", err)
	}
	return packing.NewGraph(edgesToPacking(edges))
}

// graphUnits collects the distinct packaging levels appearing in a
// category's edge set, in first-seen order.
func graphUnits(edges []packing.Edge) []packing.Unit {
	seen := make(map[packing.Unit]bool)
	var units []packing.Unit
	for _, e := range edges {
		for _, u := range []packing.Unit{e.From, e.To} {
			if !seen[u] {
				seen[u] = true
				units = append(units, u)
			}
		}
	}
	return units
}

func edgesToPacking(edges []model.ConversionEdge) []packing.Edge {
	out := make([]packing.Edge, 0, len(edges))
	for _, e := range edges {
		if e.FromUnit == nil || e.ToUnit == nil {
			continue
		}
		out = append(out, packing.Edge{
			From:     packing.Normalize(e.FromUnit.Name),
			To:       packing.Normalize(e.ToUnit.Name),
			Quantity: e.Quantity,
			Level:    e.Level,
		})
	}
	return out
}

// mapNotFound folds gorm's record-not-found into the service taxonomy while
// keeping other storage errors intact.
func mapNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
