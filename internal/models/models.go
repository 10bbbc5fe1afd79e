package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Order lifecycle states. Monetary fields and the item snapshot are frozen
// at creation; only Status, PaymentStatus and TrackingNumber may change.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Inventory ledger action tags, derived from the sign of the stock delta.
const (
	StockActionAdd        = "add"
	StockActionRemove     = "remove"
	StockActionAdjustment = "adjustment"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Emirate string `json:"emirate"`
	ZipCode string `json:"zipCode"`
}

type Category struct {
	ID          string `gorm:"primaryKey"  json:"id"`
	Name        string `gorm:"not null"    json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID             string            `gorm:"primaryKey"                  json:"id"`
	Name           string            `gorm:"not null"                    json:"name"`
	Description    string            `gorm:"not null"                    json:"description"`
	Price          decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"price"`
	CategoryID     string            `gorm:"index;not null"              json:"categoryId"`
	Stock          int               `gorm:"not null;default:0"          json:"stock"`
	Images         []string          `gorm:"serializer:json"             json:"images"`
	Specifications map[string]string `gorm:"serializer:json"             json:"specifications"`
	Barcode        string            `gorm:"not null"                    json:"barcode"`
	IsActive       bool              `gorm:"not null;default:true"       json:"isActive"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Review rows are append-only; there is no edit or delete lifecycle.
type Review struct {
	ID         string    `gorm:"primaryKey"             json:"id"`
	ProductID  string    `gorm:"index;not null"         json:"productId"`
	UserName   string    `gorm:"not null"               json:"userName"`
	Rating     int       `gorm:"not null"               json:"rating"`
	Comment    string    `gorm:"not null"               json:"comment"`
	IsVerified bool      `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Cart is created lazily on first access and lives until cleared, either
// explicitly or by a successful checkout. One cart per user, enforced by
// lookup-or-create.
type Cart struct {
	ID        string    `gorm:"primaryKey"     json:"id"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CartItem captures the product price at the time of the first add; merging
// more quantity into an existing row does not refresh PriceAtTime.
type CartItem struct {
	ID          string          `gorm:"primaryKey"                  json:"id"`
	CartID      string          `gorm:"index;not null"              json:"cartId"`
	ProductID   string          `gorm:"not null"                    json:"productId"`
	Quantity    int             `gorm:"not null;check:quantity>0"   json:"quantity"`
	PriceAtTime decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"priceAtTime"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is part of the item snapshot on an order, copied from the cart
// at checkout and never re-derived from live product rows.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type Order struct {
	ID              string          `gorm:"primaryKey"                  json:"id"`
	UserID          string          `gorm:"index"                       json:"userId"`
	CustomerName    string          `gorm:"not null"                    json:"customerName"`
	CustomerEmail   string          `gorm:"not null"                    json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	ShippingAddress Address         `gorm:"serializer:json"             json:"shippingAddress"`
	BillingAddress  *Address        `gorm:"serializer:json"             json:"billingAddress"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Tax             decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"tax"`
	Shipping        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"shipping"`
	Total           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	Status          string          `gorm:"not null;default:pending"    json:"status"`
	PaymentStatus   string          `gorm:"not null;default:pending"    json:"paymentStatus"`
	PaymentMethod   string          `gorm:"not null"                    json:"paymentMethod"`
	TrackingNumber  string          `json:"trackingNumber"`
	Items           []OrderItem     `gorm:"serializer:json"             json:"items"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Customer carries denormalized order totals maintained incrementally as a
// side effect of checkout, never recomputed on the read path.
type Customer struct {
	ID          string          `gorm:"primaryKey"           json:"id"`
	UserID      string          `gorm:"index"                json:"userId"`
	Name        string          `gorm:"not null"             json:"name"`
	Email       string          `gorm:"uniqueIndex;not null" json:"email"`
	Phone       string          `json:"phone"`
	Address     *Address        `gorm:"serializer:json"      json:"address"`
	TotalOrders int             `gorm:"not null;default:0"   json:"totalOrders"`
	TotalSpent  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"totalSpent"`
	CreatedAt   time.Time       `json:"createdAt"`
	LastOrderAt *time.Time      `json:"lastOrderAt"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// InventoryLog is append-only; every stock mutation writes exactly one row.
type InventoryLog struct {
	ID            string    `gorm:"primaryKey"     json:"id"`
	ProductID     string    `gorm:"index;not null" json:"productId"`
	Action        string    `gorm:"not null"       json:"action"`
	Quantity      int       `gorm:"not null"       json:"quantity"`
	PreviousStock int       `gorm:"not null"       json:"previousStock"`
	NewStock      int       `gorm:"not null"       json:"newStock"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (l *InventoryLog) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type User struct {
	ID           string    `gorm:"primaryKey"                json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Name         string    `gorm:"not null"                  json:"name"`
	Role         string    `gorm:"not null;default:customer" json:"role"`
	Phone        string    `json:"phone"`
	Address      *Address  `gorm:"serializer:json"           json:"address"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Session is an opaque bearer token row. Expiry is checked lazily on use;
// there is no background sweep.
type Session struct {
	Token     string    `gorm:"primaryKey"     json:"token"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	ExpiresAt time.Time `gorm:"not null"       json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
