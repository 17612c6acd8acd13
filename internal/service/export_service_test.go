package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestacad/academia-api/internal/dto"
	"github.com/gestacad/academia-api/internal/models"
	appErrors "github.com/gestacad/academia-api/pkg/errors"
)

type mockSummaryProvider struct {
	summary dto.ReportSummary
	err     error
}

func (m *mockSummaryProvider) Summary(ctx context.Context) (*dto.ReportSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &m.summary, nil
}

func newExportService(provider *mockSummaryProvider) *ExportService {
	svc := NewExportService(provider, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestExportServiceRenderSummaryCSV(t *testing.T) {
	provider := &mockSummaryProvider{summary: dto.ReportSummary{
		CoursesPerProfessor: []models.CoursesPerProfessor{{ProfessorName: "Carla Mora", CourseCount: 2}},
		StudentsPerTerm:     []models.StudentsPerTerm{{AcademicTerm: "2026-1", StudentCount: 12}},
	}}
	svc := newExportService(provider)

	file, err := svc.RenderSummary(context.Background(), " CSV ")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "report_summary_20260315_120000.csv", file.Filename)

	body := string(file.Body)
	assert.True(t, strings.HasPrefix(body, "Report,Label,Value"))
	assert.Contains(t, body, "Courses per Professor,Carla Mora,2")
	assert.Contains(t, body, "Students per Term,2026-1,12")
}

func TestExportServiceRenderSummaryPDF(t *testing.T) {
	svc := newExportService(&mockSummaryProvider{summary: dto.ReportSummary{
		TopCourses: []models.CourseAverageGrade{{CourseName: "Algebra", AverageGrade: 81.5}},
	}})

	file, err := svc.RenderSummary(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Body), "%PDF"))
}

func TestExportServiceRenderSummaryBadFormat(t *testing.T) {
	svc := newExportService(&mockSummaryProvider{})

	_, err := svc.RenderSummary(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceRenderSummaryPropagatesReportError(t *testing.T) {
	svc := newExportService(&mockSummaryProvider{err: appErrors.Clone(appErrors.ErrInternal, "boom")})

	_, err := svc.RenderSummary(context.Background(), "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
