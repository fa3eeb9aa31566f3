package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kentci/backoffice/internal/events"
	"github.com/kentci/backoffice/pkg/models"
)

func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	now := time.Now()
	category := &models.Category{
		ID:        uuid.New().String(),
		Slug:      req.Slug,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCategory(r.Context(), category); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(r.Context(), r, "category.created", "category", category.ID, category.Slug)
	s.respondWithJSON(w, http.StatusCreated, category)
}

func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.store.GetCategory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, category)
}

func (s *Server) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req models.UpdateCategoryRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	category, err := s.store.UpdateCategory(r.Context(), id, &req)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(r.Context(), r, "category.updated", "category", id, "")
	s.respondWithJSON(w, http.StatusOK, category)
}

func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.SoftDeleteCategory(r.Context(), id); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(r.Context(), r, "category.deleted", "category", id, "")
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Category deleted",
	})
}

// productView decorates a product with its derived stock status.
type productView struct {
	*models.Product
	StockStatus string `json:"stock_status"`
}

func viewProduct(p *models.Product) productView {
	return productView{Product: p, StockStatus: p.StockStatus()}
}

func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := s.store.GetCategory(r.Context(), req.CategoryID); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	now := time.Now()
	product := &models.Product{
		ID:                uuid.New().String(),
		CategoryID:        req.CategoryID,
		SKU:               req.SKU,
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
		Tags:              req.Tags,
		ImageURLs:         req.ImageURLs,
		VideoURLs:         req.VideoURLs,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreateProduct(r.Context(), product); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"sku":        product.SKU,
		"quantity":   product.Quantity,
	}).Info("Product created")

	s.recordAudit(r.Context(), r, "product.created", "product", product.ID, product.SKU)
	s.respondWithJSON(w, http.StatusCreated, viewProduct(product))
}

func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	filter := models.ProductFilter{
		CategoryID:  query.Get("category_id"),
		Tag:         query.Get("tag"),
		StockStatus: query.Get("stock_status"),
		Page:        page,
		PageSize:    pageSize,
	}

	products, total, err := s.store.ListProducts(r.Context(), filter)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, viewProduct(product))
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": views,
		"count":    len(views),
		"total":    total,
	})
}

func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.store.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, viewProduct(product))
}

func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req models.UpdateProductRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if req.CategoryID != nil {
		if _, err := s.store.GetCategory(r.Context(), *req.CategoryID); err != nil {
			s.respondWithStoreError(w, err)
			return
		}
	}

	product, err := s.store.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(r.Context(), r, "product.updated", "product", id, "")
	s.respondWithJSON(w, http.StatusOK, viewProduct(product))
}

func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.SoftDeleteProduct(r.Context(), id); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(r.Context(), r, "product.deleted", "product", id, "")
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Product deleted",
	})
}

func (s *Server) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req models.AdjustStockRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	adjustment, err := s.store.AdjustStock(r.Context(), id, req.Delta, req.Reason)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	if err := s.producer.PublishStockAdjusted(events.StockAdjustedEvent{
		ProductID:     adjustment.ProductID,
		Delta:         adjustment.Delta,
		QuantityAfter: adjustment.QuantityAfter,
		Reason:        adjustment.Reason,
	}); err != nil {
		s.logger.WithError(err).Error("Failed to publish stock adjusted event")
	}

	s.recordAudit(r.Context(), r, "product.stock_adjusted", "product", id, req.Reason)
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"product_id":     adjustment.ProductID,
		"delta":          adjustment.Delta,
		"quantity_after": adjustment.QuantityAfter,
	})
}
