// Package repository provides the persistence collaborators for follow-ups.
package repository

import (
	"context"
	"errors"

	"visa_leads_backend/internal/followups/domain"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("follow-up not found")

// Store persists follow-ups. Load returns them in first-save order.
type Store interface {
	Load(ctx context.Context) ([]domain.FollowUp, error)
	Save(ctx context.Context, f domain.FollowUp) (domain.FollowUp, error)
	Remove(ctx context.Context, id uuid.UUID) error
}
