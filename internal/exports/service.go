// Package exports writes filtered lead lists to CSV in object storage and
// hands back a short-lived download link.
package exports

import (
	"bytes"
	"context"
	"time"

	"visa_leads_backend/internal/adapters/storage"
	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/internal/leads/query"
	"visa_leads_backend/platform/apperr"
	"visa_leads_backend/platform/logger"
)

const exportFolder = "lead-exports"

// LeadSource is the read side of the lead collection.
type LeadSource interface {
	Query(ctx context.Context, c query.Criteria) []domain.Lead
}

// Result describes a finished export.
type Result struct {
	ObjectKey string
	URL       string
	Rows      int
	ExpiresAt time.Time
}

// Service exports lead snapshots.
type Service struct {
	leads   LeadSource
	storage storage.StorageService
	bucket  string
	log     *logger.Logger
	now     func() time.Time
}

func NewService(leads LeadSource, store storage.StorageService, bucket string, log *logger.Logger) *Service {
	return &Service{leads: leads, storage: store, bucket: bucket, log: log, now: time.Now}
}

// ExportLeads writes the leads matching c as CSV and returns a presigned link.
func (s *Service) ExportLeads(ctx context.Context, c query.Criteria, staffID string) (Result, error) {
	leads := s.leads.Query(ctx, c)

	var buf bytes.Buffer
	if err := WriteLeadsCSV(&buf, leads); err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "failed to render export", err)
	}

	folder := exportFolder + "/" + s.now().UTC().Format("2006-01-02")
	size := int64(buf.Len())
	key, err := s.storage.UploadFile(ctx, s.bucket, folder, "leads.csv", "text/csv", &buf, size)
	if err != nil {
		s.log.Error("lead export upload failed", "error", err, "staffId", staffID)
		return Result{}, apperr.Wrap(apperr.KindInternal, "failed to store export", err)
	}

	link, err := s.storage.GenerateDownloadURL(ctx, s.bucket, key)
	if err != nil {
		s.log.Error("lead export presign failed", "error", err, "objectKey", key)
		return Result{}, apperr.Wrap(apperr.KindInternal, "failed to create download link", err)
	}

	s.log.Info("leads exported", "rows", len(leads), "objectKey", key, "staffId", staffID)
	return Result{ObjectKey: key, URL: link.URL, Rows: len(leads), ExpiresAt: link.ExpiresAt}, nil
}
