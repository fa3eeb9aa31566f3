package models

import (
	"math"
	"time"
)

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Approved  bool      `json:"approved"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AverageRating is the mean of approved, non-deleted review ratings rounded
// to two decimals, or 0 when there are none.
func AverageRating(reviews []Review) (rating float64, approved int) {
	var sum int
	for _, r := range reviews {
		if !r.Approved || r.IsDeleted {
			continue
		}
		sum += r.Rating
		approved++
	}
	if approved == 0 {
		return 0, 0
	}
	return math.Round(float64(sum)/float64(approved)*100) / 100, approved
}

type CreateReviewRequest struct {
	UserID  string `json:"user_id" validate:"required,uuid4"`
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type CartItem struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type WishlistItem struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

type AddWishlistItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
}
