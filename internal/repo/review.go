package repo

import (
	"context"

	"github.com/freshcart/storefront/internal/models"
)

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}

func (r *GormRepo) HasReview(ctx context.Context, productID, userID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// AverageRating returns the mean rating for a product, 0 when unreviewed.
func (r *GormRepo) AverageRating(ctx context.Context, productID uint) (float64, error) {
	var avg float64
	err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *GormRepo) CountReviews(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}
