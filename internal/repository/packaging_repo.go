package repository

import (
	"context"

	"tradedocs/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PackagingRepository interface {
	ListUnits(ctx context.Context) ([]model.PackagingUnit, error)
	CreateUnit(ctx context.Context, unit *model.PackagingUnit) error
	FindUnitByID(ctx context.Context, id uuid.UUID) (*model.PackagingUnit, error)

	CreateCategory(ctx context.Context, category *model.ProductCategory) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.ProductCategory, error)

	ListActiveEdges(ctx context.Context, categoryID uuid.UUID) ([]model.ConversionEdge, error)
	CreateEdge(ctx context.Context, edge *model.ConversionEdge) error
	DeactivateEdge(ctx context.Context, id uuid.UUID) error

	FindProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	FindProfileByProduct(ctx context.Context, productID uuid.UUID) (*model.ProductPackagingProfile, error)
	SaveProfile(ctx context.Context, profile *model.ProductPackagingProfile) error
}

type packagingRepository struct {
	db *gorm.DB
}

func NewPackagingRepository(db *gorm.DB) PackagingRepository {
	return &packagingRepository{db: db}
}

func (r *packagingRepository) ListUnits(ctx context.Context) ([]model.PackagingUnit, error) {
	var units []model.PackagingUnit
	if err := GetDB(ctx, r.db).Order("name asc").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *packagingRepository) CreateUnit(ctx context.Context, unit *model.PackagingUnit) error {
	return GetDB(ctx, r.db).Create(unit).Error
}

func (r *packagingRepository) FindUnitByID(ctx context.Context, id uuid.UUID) (*model.PackagingUnit, error) {
	var unit model.PackagingUnit
	if err := GetDB(ctx, r.db).First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *packagingRepository) CreateCategory(ctx context.Context, category *model.ProductCategory) error {
	return GetDB(ctx, r.db).Create(category).Error
}

func (r *packagingRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.ProductCategory, error) {
	var category model.ProductCategory
	if err := GetDB(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListActiveEdges returns a category's edges ordered by level then creation
// time; the unit graph walk depends on this ordering.
func (r *packagingRepository) ListActiveEdges(ctx context.Context, categoryID uuid.UUID) ([]model.ConversionEdge, error) {
	var edges []model.ConversionEdge
	if err := GetDB(ctx, r.db).
		Preload("FromUnit").
		Preload("ToUnit").
		Where("category_id = ? AND is_active = true", categoryID).
		Order("level asc, created_at asc").
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

func (r *packagingRepository) CreateEdge(ctx context.Context, edge *model.ConversionEdge) error {
	return GetDB(ctx, r.db).Create(edge).Error
}

func (r *packagingRepository) DeactivateEdge(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.ConversionEdge{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *packagingRepository) FindProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *packagingRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *packagingRepository) FindProfileByProduct(ctx context.Context, productID uuid.UUID) (*model.ProductPackagingProfile, error) {
	var profile model.ProductPackagingProfile
	if err := GetDB(ctx, r.db).First(&profile, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile upserts on product_id; a product has at most one profile.
func (r *packagingRepository) SaveProfile(ctx context.Context, profile *model.ProductPackagingProfile) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		UpdateAll: true,
	}).Create(profile).Error
}
