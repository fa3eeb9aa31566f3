package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentci/backoffice/pkg/models"
)

func TestCreateReviewStartsUnapproved(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 10.00, 5)

	rec := env.do(t, http.MethodPost, "/api/v1/products/"+product.ID+"/reviews", models.CreateReviewRequest{
		UserID:  user.ID,
		Rating:  4,
		Comment: "solid build quality",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var review models.Review
	decodeBody(t, rec, &review)
	assert.False(t, review.Approved)

	require.Len(t, env.producer.reviewsSaved, 1)
	assert.Equal(t, product.ID, env.producer.reviewsSaved[0].ProductID)
	assert.False(t, env.producer.reviewsSaved[0].Approved)
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 10.00, 5)

	rec := env.do(t, http.MethodPost, "/api/v1/products/"+product.ID+"/reviews", models.CreateReviewRequest{
		UserID: user.ID,
		Rating: 6,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReviewsHidesUnapprovedByDefault(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 10.00, 5)

	rec := env.do(t, http.MethodPost, "/api/v1/products/"+product.ID+"/reviews", models.CreateReviewRequest{
		UserID: user.ID,
		Rating: 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var review models.Review
	decodeBody(t, rec, &review)

	rec = env.do(t, http.MethodGet, "/api/v1/products/"+product.ID+"/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 0, body.Count)

	rec = env.do(t, http.MethodGet, "/api/v1/products/"+product.ID+"/reviews?all=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, 1, body.Count)

	// Approval makes it visible to everyone.
	rec = env.do(t, http.MethodPost, "/api/v1/reviews/"+review.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/products/"+product.ID+"/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, 1, body.Count)
}

func TestApproveAndDeleteReviewPublish(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 10.00, 5)

	rec := env.do(t, http.MethodPost, "/api/v1/products/"+product.ID+"/reviews", models.CreateReviewRequest{
		UserID: user.ID,
		Rating: 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var review models.Review
	decodeBody(t, rec, &review)

	rec = env.do(t, http.MethodPost, "/api/v1/reviews/"+review.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var approved models.Review
	decodeBody(t, rec, &approved)
	assert.True(t, approved.Approved)

	rec = env.do(t, http.MethodDelete, "/api/v1/reviews/"+review.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// create, approve, delete each publish once
	assert.Len(t, env.producer.reviewsSaved, 3)
}
