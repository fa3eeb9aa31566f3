package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentci/backoffice/pkg/models"
)

func TestCreateProductRequiresCategory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/products", models.CreateProductRequest{
		CategoryID: "6ba7b810-9dad-41d1-80b4-00c04fd430c8", // no such category
		SKU:        "SKU-001",
		Name:       models.LocalizedText{"en": "Widget"},
		Price:      9.99,
		Quantity:   5,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory(t)

	req := models.CreateProductRequest{
		CategoryID: category.ID,
		SKU:        "SKU-DUP",
		Name:       models.LocalizedText{"en": "Widget"},
		Price:      9.99,
		Quantity:   5,
	}
	rec := env.do(t, http.MethodPost, "/api/v1/products", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/products", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetProductReportsStockStatus(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, 10.00, 1) // threshold is 2

	rec := env.do(t, http.MethodGet, "/api/v1/products/"+product.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		StockStatus string `json:"stock_status"`
	}
	decodeBody(t, rec, &view)
	assert.Equal(t, models.StockLowStock, view.StockStatus)
}

func TestListProductsFilterByStockStatus(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, 10.00, 0)
	env.seedProduct(t, 10.00, 1)
	env.seedProduct(t, 10.00, 50)

	rec := env.do(t, http.MethodGet, "/api/v1/products?stock_status=out_of_stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []struct {
			Quantity int `json:"quantity"`
		} `json:"products"`
		Count int `json:"count"`
	}
	decodeBody(t, rec, &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, 0, body.Products[0].Quantity)
}

func TestListProductsStockStatusFilterPaginates(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, 10.00, 1) // low_stock, threshold is 2
	env.seedProduct(t, 10.00, 2)
	env.seedProduct(t, 10.00, 1)
	env.seedProduct(t, 10.00, 50) // in_stock

	rec := env.do(t, http.MethodGet, "/api/v1/products?stock_status=low_stock&page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Pages are full and the total counts only matching products.
	var body struct {
		Count int `json:"count"`
		Total int `json:"total"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, 3, body.Total)

	rec = env.do(t, http.MethodGet, "/api/v1/products?stock_status=low_stock&page=2&page_size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 3, body.Total)
}

func TestAdjustStockPublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, 10.00, 5)

	rec := env.do(t, http.MethodPost, "/api/v1/products/"+product.ID+"/stock", models.AdjustStockRequest{
		Delta:  10,
		Reason: "restock from supplier",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		QuantityAfter int `json:"quantity_after"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 15, body.QuantityAfter)

	require.Len(t, env.producer.stockAdjusted, 1)
	assert.Equal(t, 10, env.producer.stockAdjusted[0].Delta)
	assert.Equal(t, "restock from supplier", env.producer.stockAdjusted[0].Reason)
}

func TestAdjustStockCannotGoNegative(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, 10.00, 3)

	rec := env.do(t, http.MethodPost, "/api/v1/products/"+product.ID+"/stock", models.AdjustStockRequest{
		Delta:  -5,
		Reason: "damaged goods",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, env.producer.stockAdjusted)
}

func TestDeletedProductCannotBeOrdered(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 10.00, 5)

	rec := env.do(t, http.MethodDelete, "/api/v1/products/"+product.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", models.CreateOrderRequest{
		UserID: user.ID,
		Items:  []models.CreateOrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
