package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gestacad/academia-api/internal/dto"
	"github.com/gestacad/academia-api/pkg/export"
	appErrors "github.com/gestacad/academia-api/pkg/errors"
)

// Export formats accepted by the summary download endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type summaryProvider interface {
	Summary(ctx context.Context) (*dto.ReportSummary, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered report ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the report summary into downloadable files.
type ExportService struct {
	reports summaryProvider
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(reports summaryProvider, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{reports: reports, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// RenderSummary computes the report summary and renders it in the requested
// format. The format must be csv or pdf.
func (s *ExportService) RenderSummary(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	summary, err := s.reports.Summary(ctx)
	if err != nil {
		return nil, err
	}
	dataset := summaryDataset(summary)

	var payload []byte
	var contentType string
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Academic Report Summary")
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report summary")
	}

	filename := fmt.Sprintf("report_summary_%s.%s", s.now().UTC().Format("20060102_150405"), format)
	return &ExportFile{Filename: filename, ContentType: contentType, Body: payload}, nil
}

func summaryDataset(summary *dto.ReportSummary) export.Dataset {
	rows := make([]map[string]string, 0,
		len(summary.CoursesPerProfessor)+len(summary.AverageGradePerCourse)+
			len(summary.StudentsPerTerm)+len(summary.TopCourses))
	for _, row := range summary.CoursesPerProfessor {
		rows = append(rows, map[string]string{
			"Report": "Courses per Professor",
			"Label":  row.ProfessorName,
			"Value":  fmt.Sprintf("%d", row.CourseCount),
		})
	}
	for _, row := range summary.AverageGradePerCourse {
		rows = append(rows, map[string]string{
			"Report": "Average Grade per Course",
			"Label":  row.CourseName,
			"Value":  fmt.Sprintf("%.2f", row.AverageGrade),
		})
	}
	for _, row := range summary.StudentsPerTerm {
		rows = append(rows, map[string]string{
			"Report": "Students per Term",
			"Label":  row.AcademicTerm,
			"Value":  fmt.Sprintf("%d", row.StudentCount),
		})
	}
	for _, row := range summary.TopCourses {
		rows = append(rows, map[string]string{
			"Report": "Top Courses",
			"Label":  row.CourseName,
			"Value":  fmt.Sprintf("%.2f", row.AverageGrade),
		})
	}
	return export.Dataset{
		Headers: []string{"Report", "Label", "Value"},
		Rows:    rows,
	}
}
