// Package memory is a mutex-guarded map implementation of store.Store used
// by tests and local development without Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kentci/backoffice/internal/store"
	"github.com/kentci/backoffice/pkg/models"
)

type Store struct {
	mu sync.RWMutex

	users      map[string]*models.User
	categories map[string]*models.Category
	products   map[string]*models.Product
	orders     map[string]*models.Order
	payments   map[string]*models.Payment
	coupons    map[string]*models.Coupon // keyed by code
	reviews    map[string]*models.Review
	cart       map[string]map[string]*models.CartItem     // userID -> productID
	wishlist   map[string]map[string]*models.WishlistItem // userID -> productID

	stockHistory []*models.StockHistory
	auditLog     []*models.AuditLog
	webhookLog   []*models.WebhookLog
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:      make(map[string]*models.User),
		categories: make(map[string]*models.Category),
		products:   make(map[string]*models.Product),
		orders:     make(map[string]*models.Order),
		payments:   make(map[string]*models.Payment),
		coupons:    make(map[string]*models.Coupon),
		reviews:    make(map[string]*models.Review),
		cart:       make(map[string]map[string]*models.CartItem),
		wishlist:   make(map[string]map[string]*models.WishlistItem),
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

// --- users ---

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if !existing.IsDeleted && (existing.Username == user.Username || existing.Email == user.Email) {
			return store.ErrConflict
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getUserLocked(id)
}

func (s *Store) getUserLocked(id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok || user.IsDeleted {
		return nil, store.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []*models.User
	for _, user := range s.users {
		if user.IsDeleted {
			continue
		}
		clone := *user
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok || user.IsDeleted {
		return nil, store.ErrNotFound
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedAt = time.Now()
	clone := *user
	return &clone, nil
}

func (s *Store) SoftDeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok || user.IsDeleted {
		return store.ErrNotFound
	}
	user.IsDeleted = true
	user.UpdatedAt = time.Now()
	return nil
}

func (s *Store) AddLoyaltyPoints(ctx context.Context, userID string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok || user.IsDeleted {
		return store.ErrNotFound
	}
	user.LoyaltyPoints += points
	user.UpdatedAt = time.Now()
	return nil
}

// --- categories ---

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if !existing.IsDeleted && existing.Slug == category.Slug {
			return store.ErrConflict
		}
	}
	clone := *category
	s.categories[category.ID] = &clone
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.categories[id]
	if !ok || category.IsDeleted {
		return nil, store.ErrNotFound
	}
	clone := *category
	return &clone, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var categories []*models.Category
	for _, category := range s.categories {
		if category.IsDeleted {
			continue
		}
		clone := *category
		categories = append(categories, &clone)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Slug < categories[j].Slug })
	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categories[id]
	if !ok || category.IsDeleted {
		return nil, store.ErrNotFound
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}
	if req.Name != nil {
		category.Name = req.Name
	}
	category.UpdatedAt = time.Now()
	clone := *category
	return &clone, nil
}

func (s *Store) SoftDeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categories[id]
	if !ok || category.IsDeleted {
		return store.ErrNotFound
	}
	category.IsDeleted = true
	category.UpdatedAt = time.Now()
	return nil
}

// --- products ---

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if !existing.IsDeleted && existing.SKU == product.SKU {
			return store.ErrConflict
		}
	}
	clone := *product
	s.products[product.ID] = &clone
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getProductLocked(id)
}

func (s *Store) getProductLocked(id string) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok || product.IsDeleted {
		return nil, store.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (s *Store) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var products []*models.Product
	for _, product := range s.products {
		if product.IsDeleted {
			continue
		}
		if filter.CategoryID != "" && product.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Tag != "" && !contains(product.Tags, filter.Tag) {
			continue
		}
		if filter.StockStatus != "" && product.StockStatus() != filter.StockStatus {
			continue
		}
		clone := *product
		products = append(products, &clone)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })

	total := len(products)
	if filter.Page > 0 && filter.PageSize > 0 {
		start := (filter.Page - 1) * filter.PageSize
		if start >= len(products) {
			return nil, total, nil
		}
		end := start + filter.PageSize
		if end > len(products) {
			end = len(products)
		}
		products = products[start:end]
	}
	return products, total, nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func (s *Store) UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok || product.IsDeleted {
		return nil, store.ErrNotFound
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		product.Name = req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.ImageURLs != nil {
		product.ImageURLs = req.ImageURLs
	}
	if req.VideoURLs != nil {
		product.VideoURLs = req.VideoURLs
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.UpdatedAt = time.Now()
	clone := *product
	return &clone, nil
}

func (s *Store) SoftDeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok || product.IsDeleted {
		return store.ErrNotFound
	}
	product.IsDeleted = true
	product.UpdatedAt = time.Now()
	return nil
}

func (s *Store) AdjustStock(ctx context.Context, productID string, delta int, reason string) (*store.StockAdjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[productID]
	if !ok || product.IsDeleted {
		return nil, store.ErrNotFound
	}
	if product.Quantity+delta < 0 {
		return nil, store.ErrInsufficientStock
	}
	product.Quantity += delta
	product.UpdatedAt = time.Now()
	return &store.StockAdjustment{
		ProductID:     productID,
		Delta:         delta,
		QuantityAfter: product.Quantity,
		Reason:        reason,
	}, nil
}

func (s *Store) UpdateProductRating(ctx context.Context, productID string, rating float64, reviewCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[productID]
	if !ok {
		return store.ErrNotFound
	}
	product.Rating = rating
	product.ReviewCount = reviewCount
	product.UpdatedAt = time.Now()
	return nil
}

// --- orders and payments ---

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) ([]store.StockAdjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check stock for every item before touching anything.
	for _, item := range order.Items {
		product, ok := s.products[item.ProductID]
		if !ok || product.IsDeleted {
			return nil, store.ErrNotFound
		}
		if product.Quantity < item.Quantity {
			return nil, store.ErrInsufficientStock
		}
	}

	var adjustments []store.StockAdjustment
	for _, item := range order.Items {
		product := s.products[item.ProductID]
		product.Quantity -= item.Quantity
		product.UpdatedAt = time.Now()
		adjustments = append(adjustments, store.StockAdjustment{
			ProductID:     item.ProductID,
			Delta:         -item.Quantity,
			QuantityAfter: product.Quantity,
			Reason:        "order " + order.ID,
		})
	}

	clone := *order
	clone.Items = append([]models.OrderItem(nil), order.Items...)
	s.orders[order.ID] = &clone
	return adjustments, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *order
	clone.Items = append([]models.OrderItem(nil), order.Items...)
	return &clone, nil
}

func (s *Store) ListOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orders []*models.Order
	for _, order := range s.orders {
		if userID != "" && order.UserID != userID {
			continue
		}
		clone := *order
		clone.Items = append([]models.OrderItem(nil), order.Items...)
		orders = append(orders, &clone)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (s *Store) CompleteOrder(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !models.CanOrderTransition(order.Status, models.OrderCompleted) {
		return nil, store.ErrInvalidTransition
	}
	order.Status = models.OrderCompleted
	order.UpdatedAt = time.Now()
	clone := *order
	return &clone, nil
}

func (s *Store) CancelOrder(ctx context.Context, id string) (*models.Order, []store.StockAdjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, nil, store.ErrNotFound
	}
	if !models.CanOrderTransition(order.Status, models.OrderCancelled) {
		return nil, nil, store.ErrInvalidTransition
	}
	order.Status = models.OrderCancelled
	order.UpdatedAt = time.Now()

	var adjustments []store.StockAdjustment
	for _, item := range order.Items {
		if product, ok := s.products[item.ProductID]; ok {
			product.Quantity += item.Quantity
			product.UpdatedAt = time.Now()
			adjustments = append(adjustments, store.StockAdjustment{
				ProductID:     item.ProductID,
				Delta:         item.Quantity,
				QuantityAfter: product.Quantity,
				Reason:        "order " + order.ID + " cancelled",
			})
		}
	}
	clone := *order
	return &clone, adjustments, nil
}

func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[payment.OrderID]; !ok {
		return store.ErrNotFound
	}
	clone := *payment
	s.payments[payment.ID] = &clone
	return nil
}

func (s *Store) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payment, ok := s.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *payment
	return &clone, nil
}

func (s *Store) GetPaymentByProviderRef(ctx context.Context, provider, ref string) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ref == "" {
		return nil, store.ErrNotFound
	}
	for _, payment := range s.payments {
		if payment.Provider == provider && payment.ProviderRef == ref {
			clone := *payment
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id, status string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !models.CanPaymentTransition(payment.Status, status) {
		return nil, store.ErrInvalidTransition
	}
	payment.Status = status
	if status == models.PaymentCompleted {
		now := time.Now()
		payment.CompletedAt = &now
	}
	clone := *payment
	return &clone, nil
}

// --- coupons ---

func (s *Store) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.coupons[coupon.Code]; ok && !existing.IsDeleted {
		return store.ErrConflict
	}
	clone := *coupon
	s.coupons[coupon.Code] = &clone
	return nil
}

func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coupon, ok := s.coupons[strings.ToUpper(code)]
	if !ok || coupon.IsDeleted {
		return nil, store.ErrNotFound
	}
	clone := *coupon
	return &clone, nil
}

func (s *Store) ListCoupons(ctx context.Context) ([]*models.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var coupons []*models.Coupon
	for _, coupon := range s.coupons {
		if coupon.IsDeleted {
			continue
		}
		clone := *coupon
		coupons = append(coupons, &clone)
	}
	sort.Slice(coupons, func(i, j int) bool { return coupons[i].CreatedAt.After(coupons[j].CreatedAt) })
	return coupons, nil
}

func (s *Store) UpdateCoupon(ctx context.Context, code string, req *models.UpdateCouponRequest) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coupon, ok := s.coupons[strings.ToUpper(code)]
	if !ok || coupon.IsDeleted {
		return nil, store.ErrNotFound
	}
	if req.Percent != nil {
		coupon.Percent = *req.Percent
	}
	if req.ValidFrom != nil {
		coupon.ValidFrom = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		coupon.ValidUntil = *req.ValidUntil
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	coupon.UpdatedAt = time.Now()
	clone := *coupon
	return &clone, nil
}

func (s *Store) SoftDeleteCoupon(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coupon, ok := s.coupons[strings.ToUpper(code)]
	if !ok || coupon.IsDeleted {
		return store.ErrNotFound
	}
	coupon.IsDeleted = true
	coupon.UpdatedAt = time.Now()
	return nil
}

// --- reviews ---

func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[review.ProductID]; !ok {
		return store.ErrNotFound
	}
	clone := *review
	s.reviews[review.ID] = &clone
	return nil
}

func (s *Store) GetReview(ctx context.Context, id string) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	review, ok := s.reviews[id]
	if !ok || review.IsDeleted {
		return nil, store.ErrNotFound
	}
	clone := *review
	return &clone, nil
}

func (s *Store) ListReviewsByProduct(ctx context.Context, productID string, includeUnapproved bool) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var reviews []models.Review
	for _, review := range s.reviews {
		if review.IsDeleted || review.ProductID != productID {
			continue
		}
		if !includeUnapproved && !review.Approved {
			continue
		}
		reviews = append(reviews, *review)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}

func (s *Store) ApproveReview(ctx context.Context, id string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[id]
	if !ok || review.IsDeleted {
		return nil, store.ErrNotFound
	}
	review.Approved = true
	review.UpdatedAt = time.Now()
	clone := *review
	return &clone, nil
}

func (s *Store) SoftDeleteReview(ctx context.Context, id string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[id]
	if !ok || review.IsDeleted {
		return nil, store.ErrNotFound
	}
	review.IsDeleted = true
	review.UpdatedAt = time.Now()
	clone := *review
	return &clone, nil
}

// --- cart and wishlist ---

func (s *Store) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []models.CartItem
	for _, item := range s.cart[userID] {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AddedAt.Before(items[j].AddedAt) })
	return items, nil
}

func (s *Store) UpsertCartItem(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart[userID] == nil {
		s.cart[userID] = make(map[string]*models.CartItem)
	}
	if item, ok := s.cart[userID][productID]; ok {
		item.Quantity += quantity
		clone := *item
		return &clone, nil
	}
	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}
	s.cart[userID][productID] = item
	clone := *item
	return &clone, nil
}

func (s *Store) RemoveCartItem(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cart[userID][productID]; !ok {
		return store.ErrNotFound
	}
	delete(s.cart[userID], productID)
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cart, userID)
	return nil
}

func (s *Store) GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []models.WishlistItem
	for _, item := range s.wishlist[userID] {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AddedAt.Before(items[j].AddedAt) })
	return items, nil
}

func (s *Store) AddWishlistItem(ctx context.Context, userID, productID string) (*models.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wishlist[userID] == nil {
		s.wishlist[userID] = make(map[string]*models.WishlistItem)
	}
	if _, ok := s.wishlist[userID][productID]; ok {
		return nil, store.ErrConflict
	}
	item := &models.WishlistItem{UserID: userID, ProductID: productID, AddedAt: time.Now()}
	s.wishlist[userID][productID] = item
	clone := *item
	return &clone, nil
}

func (s *Store) RemoveWishlistItem(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wishlist[userID][productID]; !ok {
		return store.ErrNotFound
	}
	delete(s.wishlist[userID], productID)
	return nil
}

// --- logs ---

func (s *Store) AppendStockHistory(ctx context.Context, entry *models.StockHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	clone := *entry
	s.stockHistory = append(s.stockHistory, &clone)
	return nil
}

func (s *Store) ListStockHistory(ctx context.Context, productID string, limit int) ([]*models.StockHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	var entries []*models.StockHistory
	for i := len(s.stockHistory) - 1; i >= 0 && len(entries) < limit; i-- {
		entry := s.stockHistory[i]
		if productID != "" && entry.ProductID != productID {
			continue
		}
		clone := *entry
		entries = append(entries, &clone)
	}
	return entries, nil
}

func (s *Store) AppendAuditLog(ctx context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	clone := *entry
	s.auditLog = append(s.auditLog, &clone)
	return nil
}

func (s *Store) ListAuditLog(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	var entries []*models.AuditLog
	for i := len(s.auditLog) - 1; i >= 0 && len(entries) < limit; i-- {
		clone := *s.auditLog[i]
		entries = append(entries, &clone)
	}
	return entries, nil
}

func (s *Store) AppendWebhookLog(ctx context.Context, entry *models.WebhookLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	clone := *entry
	s.webhookLog = append(s.webhookLog, &clone)
	return nil
}

func (s *Store) ListWebhookLog(ctx context.Context, limit int) ([]*models.WebhookLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	var entries []*models.WebhookLog
	for i := len(s.webhookLog) - 1; i >= 0 && len(entries) < limit; i-- {
		clone := *s.webhookLog[i]
		entries = append(entries, &clone)
	}
	return entries, nil
}
