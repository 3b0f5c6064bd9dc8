package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"visa_leads_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists leads in the leads table; custom fields live in a
// JSONB column.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const leadColumns = `id, full_name, email, phone, nationality, visa_types, destination_country,
	inquiry_date, lead_source, current_location, preferred_program, assigned_to, notes,
	additional_notes, status, stage, lead_score, next_follow_up_date, follow_up_method,
	last_updated, custom_fields, created_at, updated_at`

func (s *PostgresStore) Load(ctx context.Context) ([]domain.Lead, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return leads, nil
}

func (s *PostgresStore) Save(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	customFields, err := json.Marshal(nonNilFields(lead.CustomFields))
	if err != nil {
		return domain.Lead{}, fmt.Errorf("encode custom fields: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21::jsonb, $22, $23)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			nationality = EXCLUDED.nationality,
			visa_types = EXCLUDED.visa_types,
			destination_country = EXCLUDED.destination_country,
			inquiry_date = EXCLUDED.inquiry_date,
			lead_source = EXCLUDED.lead_source,
			current_location = EXCLUDED.current_location,
			preferred_program = EXCLUDED.preferred_program,
			assigned_to = EXCLUDED.assigned_to,
			notes = EXCLUDED.notes,
			additional_notes = EXCLUDED.additional_notes,
			status = EXCLUDED.status,
			stage = EXCLUDED.stage,
			lead_score = EXCLUDED.lead_score,
			next_follow_up_date = EXCLUDED.next_follow_up_date,
			follow_up_method = EXCLUDED.follow_up_method,
			last_updated = EXCLUDED.last_updated,
			custom_fields = EXCLUDED.custom_fields,
			updated_at = EXCLUDED.updated_at
	`,
		lead.ID, lead.FullName, lead.Email, lead.Phone, lead.Nationality, lead.VisaTypes, lead.DestinationCountry,
		lead.InquiryDate, lead.LeadSource, lead.CurrentLocation, lead.PreferredProgram, lead.AssignedTo, lead.Notes,
		lead.AdditionalNotes, string(lead.Status), string(lead.Stage), lead.LeadScore, lead.NextFollowUpDate, string(lead.FollowUpMethod),
		lead.LastUpdated, string(customFields), lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

func (s *PostgresStore) Remove(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var (
		lead           domain.Lead
		status, stage  string
		followUpMethod string
		customFields   []byte
	)
	err := row.Scan(
		&lead.ID, &lead.FullName, &lead.Email, &lead.Phone, &lead.Nationality, &lead.VisaTypes, &lead.DestinationCountry,
		&lead.InquiryDate, &lead.LeadSource, &lead.CurrentLocation, &lead.PreferredProgram, &lead.AssignedTo, &lead.Notes,
		&lead.AdditionalNotes, &status, &stage, &lead.LeadScore, &lead.NextFollowUpDate, &followUpMethod,
		&lead.LastUpdated, &customFields, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	lead.Status = domain.Status(status)
	lead.Stage = domain.Stage(stage)
	lead.FollowUpMethod = domain.ContactMethod(followUpMethod)
	if err := json.Unmarshal(customFields, &lead.CustomFields); err != nil {
		return domain.Lead{}, fmt.Errorf("decode custom fields of %s: %w", lead.ID, err)
	}
	return lead, nil
}

func nonNilFields(fields []domain.CustomField) []domain.CustomField {
	if fields == nil {
		return []domain.CustomField{}
	}
	return fields
}
