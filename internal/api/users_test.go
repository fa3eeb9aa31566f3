package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentci/backoffice/pkg/models"
)

func TestCreateUserDefaultsToCustomer(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/users", models.CreateUserRequest{
		Username: "aruzhan",
		Email:    "aruzhan@example.com",
		Password: "s3cret-pass",
		Phone:    "+77011234567",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user models.User
	decodeBody(t, rec, &user)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Equal(t, "aruzhan", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/users", models.CreateUserRequest{
		Username: "ab", // too short
		Email:    "not-an-email",
		Password: "short",
		Role:     "superuser", // not a valid role
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []map[string]string `json:"errors"`
	}
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body.Errors)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	req := models.CreateUserRequest{
		Username: "duplicate",
		Email:    "first@example.com",
		Password: "s3cret-pass",
	}
	rec := env.do(t, http.MethodPost, "/api/v1/users", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req.Email = "second@example.com"
	rec = env.do(t, http.MethodPost, "/api/v1/users", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateUserRole(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	role := models.RoleModerator
	rec := env.do(t, http.MethodPut, "/api/v1/users/"+user.ID, models.UpdateUserRequest{Role: &role})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.User
	decodeBody(t, rec, &updated)
	assert.Equal(t, models.RoleModerator, updated.Role)
}

func TestDeleteUserHidesFromReads(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/users/"+user.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/users/"+user.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deleting twice is a 404, not a silent success.
	rec = env.do(t, http.MethodDelete, "/api/v1/users/"+user.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMutationsAreAudited(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/users", models.CreateUserRequest{
		Username: "audited",
		Email:    "audited@example.com",
		Password: "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/audit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Entries []models.AuditLog `json:"entries"`
	}
	decodeBody(t, rec, &body)
	require.NotEmpty(t, body.Entries)
	assert.Equal(t, "user.created", body.Entries[0].Action)
	assert.Equal(t, "test-admin", body.Entries[0].Actor)
}

func TestAuditEntriesAccumulate(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	role := models.RoleModerator
	rec := env.do(t, http.MethodPut, "/api/v1/users/"+user.ID, models.UpdateUserRequest{Role: &role})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/v1/users/"+user.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/audit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Every mutation lands as its own row with its own ID.
	var body struct {
		Entries []models.AuditLog `json:"entries"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Entries, 2)
	assert.NotEmpty(t, body.Entries[0].ID)
	assert.NotEmpty(t, body.Entries[1].ID)
	assert.NotEqual(t, body.Entries[0].ID, body.Entries[1].ID)
	assert.Equal(t, "user.deleted", body.Entries[0].Action)
	assert.Equal(t, "user.updated", body.Entries[1].Action)
}
