package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/kentci/backoffice/internal/store"
	"github.com/kentci/backoffice/pkg/models"
)

const uniqueViolation = "23505"

func translateErr(err error) error {
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return store.ErrConflict
	}
	return err
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, phone, address,
			loyalty_points, is_active, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query, user.ID, user.Username, user.Email,
		user.PasswordHash, user.Role, user.Phone, user.Address,
		user.LoyaltyPoints, user.IsActive, user.IsDeleted, user.CreatedAt, user.UpdatedAt)
	return translateErr(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, phone, address,
			loyalty_points, is_active, is_deleted, created_at, updated_at
		FROM users WHERE id = $1 AND is_deleted = FALSE
	`
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role,
		&user.Phone, &user.Address, &user.LoyaltyPoints, &user.IsActive,
		&user.IsDeleted, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, phone, address,
			loyalty_points, is_active, is_deleted, created_at, updated_at
		FROM users WHERE is_deleted = FALSE ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role,
			&user.Phone, &user.Address, &user.LoyaltyPoints, &user.IsActive,
			&user.IsDeleted, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
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

	query := `
		UPDATE users SET email = $2, role = $3, phone = $4, address = $5,
			is_active = $6, updated_at = $7
		WHERE id = $1 AND is_deleted = FALSE
	`
	_, err = s.db.ExecContext(ctx, query, id, user.Email, user.Role, user.Phone,
		user.Address, user.IsActive, user.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return user, nil
}

func (s *Store) SoftDeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_deleted = TRUE, updated_at = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, time.Now())
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (s *Store) AddLoyaltyPoints(ctx context.Context, userID string, points int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET loyalty_points = loyalty_points + $2, updated_at = $3
		 WHERE id = $1 AND is_deleted = FALSE`,
		userID, points, time.Now())
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
