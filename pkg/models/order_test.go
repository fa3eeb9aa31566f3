package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	item := OrderItem{UnitPrice: 19.99, Quantity: 3}
	assert.Equal(t, 59.97, item.LineTotal())
}

func TestComputeTotalsWithoutCoupon(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{UnitPrice: 10.50, Quantity: 2},
			{UnitPrice: 4.25, Quantity: 1},
		},
	}
	order.ComputeTotals(nil)

	assert.Equal(t, 25.25, order.Subtotal)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 25.25, order.Total)
	assert.Empty(t, order.CouponCode)
}

func TestComputeTotalsWithCoupon(t *testing.T) {
	coupon := &Coupon{Code: "SPRING15", Percent: 15, IsActive: true}
	order := &Order{
		Items: []OrderItem{
			{UnitPrice: 40.00, Quantity: 2},
			{UnitPrice: 20.00, Quantity: 1},
		},
	}
	order.ComputeTotals(coupon)

	assert.Equal(t, 100.0, order.Subtotal)
	assert.Equal(t, 15.0, order.Discount)
	assert.Equal(t, 85.0, order.Total)
	assert.Equal(t, "SPRING15", order.CouponCode)
}

func TestComputeTotalsRoundsToCents(t *testing.T) {
	coupon := &Coupon{Code: "ODD", Percent: 33}
	order := &Order{
		Items: []OrderItem{{UnitPrice: 9.99, Quantity: 1}},
	}
	order.ComputeTotals(coupon)

	assert.Equal(t, 9.99, order.Subtotal)
	assert.Equal(t, 3.30, order.Discount)
	assert.Equal(t, 6.69, order.Total)
}

func TestComputeTotalsEmptyOrder(t *testing.T) {
	order := &Order{}
	order.ComputeTotals(&Coupon{Code: "ANY", Percent: 50})

	assert.Equal(t, 0.0, order.Subtotal)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 0.0, order.Total)
}

func TestLoyaltyPoints(t *testing.T) {
	assert.Equal(t, 85, (&Order{Total: 85.99}).LoyaltyPoints())
	assert.Equal(t, 0, (&Order{Total: 0.50}).LoyaltyPoints())
	assert.Equal(t, 0, (&Order{Total: 0}).LoyaltyPoints())
}

func TestCouponRedeemable(t *testing.T) {
	now := time.Now()
	coupon := &Coupon{
		Code:       "WINDOW",
		Percent:    10,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
		IsActive:   true,
	}

	assert.True(t, coupon.Redeemable(now))
	assert.True(t, coupon.Redeemable(coupon.ValidFrom))
	assert.True(t, coupon.Redeemable(coupon.ValidUntil))
	assert.False(t, coupon.Redeemable(now.Add(2*time.Hour)))
	assert.False(t, coupon.Redeemable(now.Add(-2*time.Hour)))

	coupon.IsActive = false
	assert.False(t, coupon.Redeemable(now))

	coupon.IsActive = true
	coupon.IsDeleted = true
	assert.False(t, coupon.Redeemable(now))
}

func TestOrderTransitions(t *testing.T) {
	assert.True(t, CanOrderTransition(OrderPending, OrderCompleted))
	assert.True(t, CanOrderTransition(OrderPending, OrderCancelled))
	assert.False(t, CanOrderTransition(OrderCompleted, OrderCancelled))
	assert.False(t, CanOrderTransition(OrderCancelled, OrderCompleted))
	assert.False(t, CanOrderTransition(OrderCompleted, OrderCompleted))
}

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, CanPaymentTransition(PaymentPending, PaymentCompleted))
	assert.True(t, CanPaymentTransition(PaymentPending, PaymentFailed))
	assert.False(t, CanPaymentTransition(PaymentCompleted, PaymentFailed))
	assert.False(t, CanPaymentTransition(PaymentFailed, PaymentCompleted))
}
