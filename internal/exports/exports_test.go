package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"testing"
	"time"

	"visa_leads_backend/internal/adapters/storage"
	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/internal/leads/query"
	"visa_leads_backend/platform/apperr"
	"visa_leads_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportLeads() []domain.Lead {
	next := time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC)
	return []domain.Lead{
		{
			ID:               uuid.New(),
			FullName:         "John Doe",
			Email:            "john@x.com",
			VisaTypes:        []string{"student", "work"},
			InquiryDate:      time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
			Status:           domain.StatusNew,
			Stage:            domain.StageNew,
			LeadScore:        85,
			NextFollowUpDate: &next,
			CustomFields: []domain.CustomField{
				{Name: "ielts", Type: domain.FieldNumber, Value: domain.NumberValue{Number: 7.5, Valid: true}},
			},
		},
		{
			ID:       uuid.New(),
			FullName: "Maria Garcia",
			CustomFields: []domain.CustomField{
				{Name: "passport", Type: domain.FieldSwitch, Value: domain.SwitchValue(false)},
			},
		},
	}
}

func TestWriteLeadsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeadsCSV(&buf, exportLeads()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Equal(t, "custom:ielts", header[len(header)-2])
	assert.Equal(t, "custom:passport", header[len(header)-1])

	john := rows[1]
	assert.Equal(t, "John Doe", john[1])
	assert.Equal(t, "student;work", john[5])
	assert.Equal(t, "2024-04-15", john[7])
	assert.Equal(t, "hot", john[15])
	assert.Equal(t, "2024-04-22", john[16])
	assert.Equal(t, "7.5", john[len(john)-2])
	assert.Equal(t, "", john[len(john)-1])

	maria := rows[2]
	assert.Equal(t, "", maria[7])
	assert.Equal(t, "false", maria[len(maria)-1])
}

func TestWriteLeadsCSVGuardsFormulas(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeadsCSV(&buf, []domain.Lead{{
		ID:       uuid.New(),
		FullName: "=HYPERLINK(\"http://evil\")",
		Phone:    "+15551234567",
		Notes:    "<b>call</b> after 5",
	}}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	row := rows[1]
	assert.Equal(t, "'=HYPERLINK(\"http://evil\")", row[1])
	assert.Equal(t, "+15551234567", row[3])
	assert.Equal(t, "call after 5", row[18])
}

type fakeStorage struct {
	uploaded  []byte
	key       string
	uploadErr error
}

func (f *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }

func (f *fakeStorage) UploadFile(_ context.Context, _, folder, fileName, _ string, r io.Reader, _ int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, _ := io.ReadAll(r)
	f.uploaded = data
	f.key = folder + "/" + fileName
	return f.key, nil
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, key string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://minio.local/" + bucket + "/" + key, FileKey: key}, nil
}

type staticLeads []domain.Lead

func (s staticLeads) Query(_ context.Context, c query.Criteria) []domain.Lead {
	return query.Filter(s, c)
}

func TestExportLeadsUploadsFilteredRows(t *testing.T) {
	store := &fakeStorage{}
	svc := NewService(staticLeads(exportLeads()), store, "lead-exports", logger.Nop())
	svc.now = func() time.Time { return time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC) }

	res, err := svc.ExportLeads(context.Background(), query.Criteria{SearchText: "maria"}, "staff-1")

	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, "lead-exports/2024-04-15/leads.csv", res.ObjectKey)
	assert.Contains(t, res.URL, "lead-exports/2024-04-15")
	assert.Contains(t, string(store.uploaded), "Maria Garcia")
	assert.NotContains(t, string(store.uploaded), "John Doe")
}

func TestExportLeadsUploadFailure(t *testing.T) {
	store := &fakeStorage{uploadErr: errors.New("bucket missing")}
	svc := NewService(staticLeads(exportLeads()), store, "lead-exports", logger.Nop())

	_, err := svc.ExportLeads(context.Background(), query.Criteria{}, "staff-1")

	assert.True(t, apperr.Is(err, apperr.KindInternal))
}
