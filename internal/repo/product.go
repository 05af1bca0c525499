package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/freshcart/storefront/internal/models"
)

const productCacheTTL = 5 * time.Minute

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

// GetProduct reads a product by id, going through the redis cache when one
// is configured. Cache failures count as misses.
func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if r.Cache != nil {
		if raw, err := r.Cache.Get(ctx, productCacheKey(id)).Bytes(); err == nil {
			var p models.Product
			if err := json.Unmarshal(raw, &p); err == nil {
				return &p, nil
			}
		}
	}

	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	r.cacheProduct(ctx, &p)
	return &p, nil
}

func (r *GormRepo) cacheProduct(ctx context.Context, p *models.Product) {
	if r.Cache == nil {
		return
	}
	if raw, err := json.Marshal(p); err == nil {
		r.Cache.Set(ctx, productCacheKey(p.ID), raw, productCacheTTL)
	}
}

func (r *GormRepo) evictProduct(ctx context.Context, id uint) {
	if r.Cache == nil {
		return
	}
	r.Cache.Del(ctx, productCacheKey(id))
}

func (r *GormRepo) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductFilter narrows and orders a catalog listing.
type ProductFilter struct {
	CategoryID  uint
	InStockOnly bool
	Featured    bool
	SortBy      string // price_low, price_high, name, rating, newest
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, offset, limit int) ([]models.Product, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)

	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.InStockOnly {
		q = q.Where("stock > 0")
	}
	if f.Featured {
		q = q.Where("is_featured = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.SortBy {
	case "price_low":
		q = q.Order("price ASC")
	case "price_high":
		q = q.Order("price DESC")
	case "name":
		q = q.Order("name ASC")
	case "rating":
		q = q.Joins("LEFT JOIN reviews ON reviews.product_id = products.id").
			Group("products.id").
			Order("AVG(reviews.rating) DESC")
	default:
		q = q.Order("created_at DESC")
	}

	var products []models.Product
	if err := q.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	if err := r.DB.WithContext(ctx).Save(p).Error; err != nil {
		return err
	}
	r.evictProduct(ctx, p.ID)
	return nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	if err := r.DB.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return err
	}
	r.evictProduct(ctx, id)
	return nil
}

// SetStock overwrites a product's stock, used by admin adjustments.
func (r *GormRepo) SetStock(ctx context.Context, id uint, stock uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.evictProduct(ctx, id)
	return nil
}

// reduceStock decrements stock only when enough remains; the WHERE guard is
// what keeps concurrent orders from overselling. Caller supplies the
// transaction handle so a failed guard rolls back the whole order.
func (r *GormRepo) reduceStock(tx *gorm.DB, productID uint, quantity uint) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrStockConflict)
	}
	return nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
