// Package repository provides the persistence collaborators for leads.
// The management service owns the canonical collection and only calls
// Load once at startup, then Save/Remove per mutation.
package repository

import (
	"context"
	"errors"

	"visa_leads_backend/internal/leads/domain"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("lead not found")

// Store persists leads. Implementations must return Load results in
// first-save order.
type Store interface {
	Load(ctx context.Context) ([]domain.Lead, error)
	Save(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	Remove(ctx context.Context, id uuid.UUID) error
}
