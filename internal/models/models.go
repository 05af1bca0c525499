package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"unique;not null"          json:"name"`
	Slug        string `gorm:"uniqueIndex;not null"     json:"slug"`
	Description string `json:"description"`
}

type Product struct {
	ID          uint                `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string              `gorm:"not null"                    json:"name"`
	Slug        string              `gorm:"uniqueIndex;not null"        json:"slug"`
	CategoryID  uint                `gorm:"index"                       json:"category_id"`
	Description string              `gorm:"not null"                    json:"description"`
	Price       decimal.Decimal     `gorm:"not null;type:decimal(10,2)" json:"price"`
	SalePrice   decimal.NullDecimal `gorm:"type:decimal(10,2)"          json:"sale_price"`
	Stock       uint                `gorm:"not null;default:0"          json:"stock"`
	IsFeatured  bool                `gorm:"default:false"               json:"is_featured"`
	IsActive    bool                `gorm:"default:true"                json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                             json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_user_product;not null"  json:"user_id"`
	ProductID uint `gorm:"uniqueIndex:idx_user_product;not null"  json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"             json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

type Order struct {
	ID        uint            `gorm:"primaryKey"                                      json:"id"`
	Reference uuid.UUID       `gorm:"uniqueIndex;not null"                            json:"reference"`
	UserID    uint            `gorm:"index;not null"                                  json:"user_id"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"  json:"items"`
	Subtotal  decimal.Decimal `gorm:"not null;type:decimal(10,2)"                     json:"subtotal"`
	Tax       decimal.Decimal `gorm:"not null;type:decimal(10,2)"                     json:"tax"`
	Shipping  decimal.Decimal `gorm:"not null;type:decimal(10,2)"                     json:"shipping"`
	Total     decimal.Decimal `gorm:"not null;type:decimal(10,2)"                     json:"total"`
	Status    string          `gorm:"not null"                                        json:"status"`
	CreatedAt time.Time       `gorm:"index"                                           json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Reference == uuid.Nil {
		o.Reference = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                  json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"not null"                    json:"product_id"`
	Quantity  uint            `gorm:"default:1;check:quantity>0"  json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"line_total"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey"                                 json:"id"`
	ProductID uint      `gorm:"uniqueIndex:idx_product_user;not null"      json:"product_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_product_user;not null"      json:"user_id"`
	Rating    uint      `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
