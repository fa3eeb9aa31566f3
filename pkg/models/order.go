package models

import (
	"math"
	"time"
)

const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Items      []OrderItem `json:"items"`
	Status     string      `json:"status"`
	CouponCode string      `json:"coupon_code,omitempty"`
	Subtotal   float64     `json:"subtotal"`
	Discount   float64     `json:"discount"`
	Total      float64     `json:"total"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

func (i OrderItem) LineTotal() float64 {
	return round2(i.UnitPrice * float64(i.Quantity))
}

// ComputeTotals recalculates subtotal, discount and total from the items and
// the given coupon. A nil coupon means no discount.
func (o *Order) ComputeTotals(coupon *Coupon) {
	var subtotal float64
	for _, item := range o.Items {
		subtotal += item.LineTotal()
	}
	o.Subtotal = round2(subtotal)
	if coupon != nil {
		o.Discount = coupon.DiscountOn(o.Subtotal)
		o.CouponCode = coupon.Code
	} else {
		o.Discount = 0
	}
	o.Total = round2(o.Subtotal - o.Discount)
}

// LoyaltyPoints earned when the order completes: one point per whole
// currency unit of the total.
func (o *Order) LoyaltyPoints() int {
	if o.Total <= 0 {
		return 0
	}
	return int(math.Floor(o.Total))
}

// CanOrderTransition reports whether an order may move between the two
// statuses. Completed and cancelled are terminal.
func CanOrderTransition(from, to string) bool {
	return from == OrderPending && (to == OrderCompleted || to == OrderCancelled)
}

// CanPaymentTransition reports whether a payment may move between the two
// statuses. Completed and failed are terminal.
func CanPaymentTransition(from, to string) bool {
	return from == PaymentPending && (to == PaymentCompleted || to == PaymentFailed)
}

type Payment struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"order_id"`
	Amount      float64    `json:"amount"`
	Method      string     `json:"method"`
	Status      string     `json:"status"`
	Provider    string     `json:"provider,omitempty"`
	ProviderRef string     `json:"provider_ref,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type Coupon struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Percent    float64   `json:"percent"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
	IsActive   bool      `json:"is_active"`
	IsDeleted  bool      `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Redeemable reports whether the coupon applies at the given instant.
func (c *Coupon) Redeemable(at time.Time) bool {
	if !c.IsActive || c.IsDeleted {
		return false
	}
	return !at.Before(c.ValidFrom) && !at.After(c.ValidUntil)
}

// DiscountOn returns the discount amount for a subtotal, rounded to cents.
func (c *Coupon) DiscountOn(subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	return round2(subtotal * c.Percent / 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type CreateOrderRequest struct {
	UserID     string                   `json:"user_id" validate:"required,uuid4"`
	CouponCode string                   `json:"coupon_code"`
	FromCart   bool                     `json:"from_cart"`
	Items      []CreateOrderItemRequest `json:"items" validate:"required_without=FromCart,omitempty,min=1,dive"`
}

type CreateOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type CreatePaymentRequest struct {
	Amount      float64 `json:"amount" validate:"gt=0"`
	Method      string  `json:"method" validate:"required,oneof=card cash transfer"`
	Provider    string  `json:"provider" validate:"required_with=ProviderRef,max=64"`
	ProviderRef string  `json:"provider_ref"`
}

type CreateCouponRequest struct {
	Code       string    `json:"code" validate:"required,min=3,max=32"`
	Percent    float64   `json:"percent" validate:"gte=1,lte=100"`
	ValidFrom  time.Time `json:"valid_from" validate:"required"`
	ValidUntil time.Time `json:"valid_until" validate:"required,gtfield=ValidFrom"`
}

type UpdateCouponRequest struct {
	Percent    *float64   `json:"percent,omitempty" validate:"omitempty,gte=1,lte=100"`
	ValidFrom  *time.Time `json:"valid_from,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
}
