package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
	"github.com/ecotown/biomarker-atlas/pkg/services/summary"
	"github.com/ecotown/biomarker-atlas/pkg/store/memory"
)

var generatedAt = time.Date(2026, 5, 20, 8, 15, 0, 0, time.UTC)

func newTestBuilder() *Builder {
	b := NewBuilder(summary.NewAggregator(catalog.Default()))
	b.Now = func() time.Time { return generatedAt }
	return b
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "ecotown-health-MR.-MANJUNATH-SWAMY-2026-05-20.json", Filename("MR. MANJUNATH  SWAMY", generatedAt))
	assert.Equal(t, "ecotown-health-patient-2026-05-20.json", Filename("  ", generatedAt))
}

func TestRender_Shape(t *testing.T) {
	record := memory.SeedRecord(catalog.Default())

	artifact, filename, data, err := newTestBuilder().Render(record)
	require.NoError(t, err)

	assert.Equal(t, "ecotown-health-MR.-MANJUNATH-SWAMY-2026-05-20.json", filename)
	assert.Len(t, artifact.Biomarkers, 9)
	assert.Equal(t, 9, artifact.Summary.Total)
	assert.Equal(t, []string{"MR. MANJUNATH SWAMY Health Report", "Date: 2025-06-16"}, artifact.ReportMetadata.SourceReports)
	assert.Contains(t, artifact.ReportMetadata.ClinicalSummary.RiskFactors, catalog.LDLCholesterol)
	assert.NotContains(t, artifact.ReportMetadata.ClinicalSummary.RiskFactors, catalog.HDLCholesterol)
	assert.NotContains(t, artifact.ReportMetadata.ClinicalSummary.Improvements, catalog.HbA1c)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"patient", "biomarkers", "summary", "reportMetadata"} {
		assert.Contains(t, decoded, key)
	}
	meta := decoded["reportMetadata"].(map[string]any)
	assert.Equal(t, "2026-05-20T08:15:00Z", meta["generatedAt"])
	assert.Contains(t, meta["clinicalSummary"], "riskFactors")
	assert.Contains(t, meta["clinicalSummary"], "improvements")
}

func TestBuild_SourceReportsFromUploads(t *testing.T) {
	record := memory.SeedRecord(catalog.Default())
	record.Reports = []domain.ReportRef{{Filename: "june.pdf", ReportID: "LAB-1", ReportDate: "2026-06-01"}}

	artifact := newTestBuilder().Build(record)

	assert.Equal(t, []string{"june.pdf (Report ID: LAB-1, Date: 2026-06-01)"}, artifact.ReportMetadata.SourceReports)
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	loc, err := FileSink{Dir: dir}.Write(context.Background(), "a.json", []byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "a.json"), loc)
	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
}

type mockS3 struct{ mock.Mock }

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Sink(t *testing.T) {
	client := &mockS3{}
	var captured *s3.PutObjectInput
	client.On("PutObject", mock.Anything, mock.AnythingOfType("*s3.PutObjectInput")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*s3.PutObjectInput) }).
		Return(&s3.PutObjectOutput{}, nil)

	loc, err := NewS3Sink(client, "reports", "exports").Write(context.Background(), "a.json", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/exports/a.json", loc)

	require.NotNil(t, captured)
	assert.Equal(t, "reports", aws.ToString(captured.Bucket))
	assert.Equal(t, "exports/a.json", aws.ToString(captured.Key))
	assert.Equal(t, "application/json", aws.ToString(captured.ContentType))
	body, err := io.ReadAll(captured.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))
	client.AssertExpectations(t)
}

func TestS3Sink_Error(t *testing.T) {
	client := &mockS3{}
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := NewS3Sink(client, "reports", "").Write(context.Background(), "a.json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://reports/a.json")
}
