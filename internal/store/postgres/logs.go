package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/kentci/backoffice/pkg/models"
)

func (s *Store) AppendStockHistory(ctx context.Context, entry *models.StockHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_history (id, product_id, delta, quantity_after, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, entry.ID, entry.ProductID, entry.Delta,
		entry.QuantityAfter, entry.Reason, entry.CreatedAt)
	return err
}

func (s *Store) ListStockHistory(ctx context.Context, productID string, limit int) ([]*models.StockHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, product_id, delta, quantity_after, reason, created_at
		FROM stock_history
	`
	args := []interface{}{limit}
	if productID != "" {
		query += ` WHERE product_id = $2`
		args = append(args, productID)
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.StockHistory
	for rows.Next() {
		entry := &models.StockHistory{}
		err := rows.Scan(&entry.ID, &entry.ProductID, &entry.Delta,
			&entry.QuantityAfter, &entry.Reason, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) AppendAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_log (id, actor, action, entity_type, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query, entry.ID, entry.Actor, entry.Action,
		entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLog(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, actor, action, entity_type, entity_id, detail, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.EntityType,
			&entry.EntityID, &entry.Detail, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) AppendWebhookLog(ctx context.Context, entry *models.WebhookLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO webhook_log (id, provider, event_type, payload, status, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, entry.ID, entry.Provider, entry.EventType,
		[]byte(entry.Payload), entry.Status, entry.ReceivedAt)
	return err
}

func (s *Store) ListWebhookLog(ctx context.Context, limit int) ([]*models.WebhookLog, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, provider, event_type, payload, status, received_at
		FROM webhook_log ORDER BY received_at DESC LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.WebhookLog
	for rows.Next() {
		entry := &models.WebhookLog{}
		var payload []byte
		err := rows.Scan(&entry.ID, &entry.Provider, &entry.EventType, &payload,
			&entry.Status, &entry.ReceivedAt)
		if err != nil {
			return nil, err
		}
		entry.Payload = payload
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
