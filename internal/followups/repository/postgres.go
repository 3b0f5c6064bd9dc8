package repository

import (
	"context"

	"visa_leads_backend/internal/followups/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists follow-ups in the follow_ups table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const followUpColumns = `id, lead_id, date_time, method, staff_id, staff_name, notes, status, created_at, updated_at`

func (s *PostgresStore) Load(ctx context.Context) ([]domain.FollowUp, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+followUpColumns+` FROM follow_ups ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.FollowUp, 0)
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

func (s *PostgresStore) Save(ctx context.Context, f domain.FollowUp) (domain.FollowUp, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO follow_ups (`+followUpColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			date_time = EXCLUDED.date_time,
			method = EXCLUDED.method,
			staff_id = EXCLUDED.staff_id,
			staff_name = EXCLUDED.staff_name,
			notes = EXCLUDED.notes,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`,
		f.ID, f.LeadID, f.DateTime, string(f.Method), f.StaffID, f.StaffName, f.Notes, string(f.Status),
		f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return domain.FollowUp{}, err
	}
	return f, nil
}

func (s *PostgresStore) Remove(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM follow_ups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanFollowUp(row pgx.Row) (domain.FollowUp, error) {
	var (
		f              domain.FollowUp
		method, status string
	)
	if err := row.Scan(
		&f.ID, &f.LeadID, &f.DateTime, &method, &f.StaffID, &f.StaffName, &f.Notes, &status,
		&f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return domain.FollowUp{}, err
	}
	f.Method = domain.Method(method)
	f.Status = domain.Status(status)
	return f, nil
}
