package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/freshcart/storefront/internal/models"
)

// CreateOrderFromCart commits the whole checkout in one transaction: every
// product's stock is decremented through the stock >= quantity guard, the
// order and its items are written, and the cart is emptied. Any guard miss
// or write error rolls the whole thing back, so a losing concurrent order
// leaves stock and cart untouched.
func (r *GormRepo) CreateOrderFromCart(ctx context.Context, order *models.Order) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := r.reduceStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return err
	}
	for _, item := range order.Items {
		r.evictProduct(ctx, item.ProductID)
	}
	return nil
}

func (r *GormRepo) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
