// Package store defines the persistence interface for the back-office and
// its sentinel errors. Postgres backs the services; the memory implementation
// backs tests.
package store

import (
	"context"
	"errors"

	"github.com/kentci/backoffice/pkg/models"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrConflict            = errors.New("record already exists")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrCouponNotRedeemable = errors.New("coupon not redeemable")
)

// StockAdjustment describes a quantity change applied inside a store
// operation, so callers can publish the matching events.
type StockAdjustment struct {
	ProductID     string
	Delta         int
	QuantityAfter int
	Reason        string
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error)
	SoftDeleteUser(ctx context.Context, id string) error
	AddLoyaltyPoints(ctx context.Context, userID string, points int) error
}

type CatalogStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error)
	SoftDeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
	UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error)
	SoftDeleteProduct(ctx context.Context, id string) error

	// AdjustStock applies delta to the product quantity, rejecting changes
	// that would take it below zero.
	AdjustStock(ctx context.Context, productID string, delta int, reason string) (*StockAdjustment, error)
	UpdateProductRating(ctx context.Context, productID string, rating float64, reviewCount int) error
}

type OrderStore interface {
	// CreateOrder persists the order with its items and decrements product
	// stock, all atomically. Returned adjustments mirror the decrements.
	CreateOrder(ctx context.Context, order *models.Order) ([]StockAdjustment, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*models.Order, error)
	CompleteOrder(ctx context.Context, id string) (*models.Order, error)
	// CancelOrder flips the order to cancelled and restocks its items.
	CancelOrder(ctx context.Context, id string) (*models.Order, []StockAdjustment, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id, status string) (*models.Payment, error)
	GetPaymentByProviderRef(ctx context.Context, provider, ref string) (*models.Payment, error)
}

type CouponStore interface {
	CreateCoupon(ctx context.Context, coupon *models.Coupon) error
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListCoupons(ctx context.Context) ([]*models.Coupon, error)
	UpdateCoupon(ctx context.Context, code string, req *models.UpdateCouponRequest) (*models.Coupon, error)
	SoftDeleteCoupon(ctx context.Context, code string) error
}

type ReviewStore interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id string) (*models.Review, error)
	ListReviewsByProduct(ctx context.Context, productID string, includeUnapproved bool) ([]models.Review, error)
	ApproveReview(ctx context.Context, id string) (*models.Review, error)
	SoftDeleteReview(ctx context.Context, id string) (*models.Review, error)
}

type CartStore interface {
	GetCart(ctx context.Context, userID string) ([]models.CartItem, error)
	// UpsertCartItem adds the product to the cart, incrementing quantity if
	// it is already there.
	UpsertCartItem(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error)
	RemoveCartItem(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error

	GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error)
	AddWishlistItem(ctx context.Context, userID, productID string) (*models.WishlistItem, error)
	RemoveWishlistItem(ctx context.Context, userID, productID string) error
}

type LogStore interface {
	AppendStockHistory(ctx context.Context, entry *models.StockHistory) error
	ListStockHistory(ctx context.Context, productID string, limit int) ([]*models.StockHistory, error)
	AppendAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLog(ctx context.Context, limit int) ([]*models.AuditLog, error)
	AppendWebhookLog(ctx context.Context, entry *models.WebhookLog) error
	ListWebhookLog(ctx context.Context, limit int) ([]*models.WebhookLog, error)
}

type Store interface {
	UserStore
	CatalogStore
	OrderStore
	CouponStore
	ReviewStore
	CartStore
	LogStore

	Ping(ctx context.Context) error
	Close() error
}
