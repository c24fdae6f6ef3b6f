package postgres

import (
	"context"
	"fmt"

	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
)

var _ repository.EmailLogRepository = (*EmailLogRepo)(nil)

// EmailLogRepo implementación del puerto EmailLogRepository sobre PostgreSQL.
// La tabla es append-only: solo INSERT y SELECT.
type EmailLogRepo struct {
	q Querier
}

// NewEmailLogRepository construye el adaptador de la bitácora de correos.
func NewEmailLogRepository(q Querier) *EmailLogRepo {
	return &EmailLogRepo{q: q}
}

// Create persiste un registro de la bitácora.
func (r *EmailLogRepo) Create(log *entity.EmailLog) error {
	query := `
		INSERT INTO email_logs (id, type, recipients, outcome, error, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.Type, log.Recipients, log.Outcome, nullIfEmpty(log.Error),
		log.Summary, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert email log: %w", err)
	}
	return nil
}

// List lista registros con filtros, más recientes primero. Limit <= 0 usa 100.
func (r *EmailLogRepo) List(filter repository.EmailLogFilter) ([]*entity.EmailLog, error) {
	query := `
		SELECT id, type, recipients, outcome, COALESCE(error, ''), summary, created_at
		FROM email_logs WHERE 1=1`
	args := []any{}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if filter.Summary != "" {
		args = append(args, "%"+filter.Summary+"%")
		query += fmt.Sprintf(" AND summary ILIKE $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.EmailLog
	for rows.Next() {
		var l entity.EmailLog
		if err := rows.Scan(&l.ID, &l.Type, &l.Recipients, &l.Outcome, &l.Error, &l.Summary, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan email log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
