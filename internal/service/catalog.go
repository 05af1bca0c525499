package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshcart/storefront/internal/models"
	"github.com/freshcart/storefront/internal/repo"
)

// CatalogService is the read/admin side of the product catalog, plus the
// review aggregation that feeds product ratings.
type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.Repo.GetProductBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %q: %w", slug, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.Repo.GetCategoryBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, filter repo.ProductFilter, offset, limit int) ([]models.Product, int64, error) {
	products, total, err := s.Repo.ListProducts(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (s *CatalogService) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	products, _, err := s.Repo.ListProducts(ctx, repo.ProductFilter{Featured: true}, 0, limit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.Name == "" || p.Slug == "" {
		return fmt.Errorf("name and slug are required: %w", ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// ProductUpdate enumerates the recognized updatable fields. Nil pointers
// leave the stored value alone.
type ProductUpdate struct {
	Name        *string
	Description *string
	CategoryID  *uint
	Price       *decimal.Decimal
	SalePrice   *decimal.NullDecimal
	Stock       *uint
	IsFeatured  *bool
	IsActive    *bool
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, update ProductUpdate) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.CategoryID != nil {
		product.CategoryID = *update.CategoryID
	}
	if update.Price != nil {
		if update.Price.IsNegative() {
			return nil, fmt.Errorf("price must be >= 0: %w", ErrValidation)
		}
		product.Price = *update.Price
	}
	if update.SalePrice != nil {
		if update.SalePrice.Valid && update.SalePrice.Decimal.IsNegative() {
			return nil, fmt.Errorf("sale price must be >= 0: %w", ErrValidation)
		}
		product.SalePrice = *update.SalePrice
	}
	if update.Stock != nil {
		product.Stock = *update.Stock
	}
	if update.IsFeatured != nil {
		product.IsFeatured = *update.IsFeatured
	}
	if update.IsActive != nil {
		product.IsActive = *update.IsActive
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// AdjustStock applies an administrative delta to a product's stock, flooring
// at zero. Order placement does not use this path.
func (s *CatalogService) AdjustStock(ctx context.Context, id uint, delta int) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	newStock := int(product.Stock) + delta
	if newStock < 0 {
		newStock = 0
	}
	if err := s.Repo.SetStock(ctx, id, uint(newStock)); err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	product.Stock = uint(newStock)
	return product, nil
}

func (s *CatalogService) AddReview(ctx context.Context, productID, userID uint, rating uint, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	exists, err := s.Repo.HasReview(ctx, productID, userID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("you have already reviewed this product: %w", ErrValidation)
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.Repo.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *CatalogService) ProductReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	return s.Repo.ListReviews(ctx, productID)
}

// ProductRating returns the average rating and review count for a product;
// an unreviewed product rates 0.
func (s *CatalogService) ProductRating(ctx context.Context, productID uint) (float64, int64, error) {
	avg, err := s.Repo.AverageRating(ctx, productID)
	if err != nil {
		return 0, 0, fmt.Errorf("product rating: %w", err)
	}
	count, err := s.Repo.CountReviews(ctx, productID)
	if err != nil {
		return 0, 0, fmt.Errorf("review count: %w", err)
	}
	return avg, count, nil
}
