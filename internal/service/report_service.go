package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gestacad/academia-api/internal/dto"
	"github.com/gestacad/academia-api/internal/models"
	appErrors "github.com/gestacad/academia-api/pkg/errors"
)

// topCoursesLimit caps the ranked-courses report.
const topCoursesLimit = 3

type reportRepository interface {
	CoursesPerProfessor(ctx context.Context) ([]models.CoursesPerProfessor, error)
	AverageGradePerCourse(ctx context.Context) ([]models.CourseAverageGrade, error)
	StudentsPerTerm(ctx context.Context) ([]models.StudentsPerTerm, error)
	TopCoursesByAverage(ctx context.Context, limit int) ([]models.CourseAverageGrade, error)
}

// ReportService computes the aggregate reports. Results are derived on every
// call; nothing is cached.
type ReportService struct {
	repo    reportRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewReportService constructs the report service. metrics may be nil.
func NewReportService(repo reportRepository, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, metrics: metrics, logger: logger}
}

// CoursesPerProfessor counts courses taught per professor.
func (s *ReportService) CoursesPerProfessor(ctx context.Context) ([]models.CoursesPerProfessor, error) {
	start := time.Now()
	rows, err := s.repo.CoursesPerProfessor(ctx)
	s.metrics.ObserveDBQuery("report_courses_per_professor", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute courses per professor")
	}
	return rows, nil
}

// AverageGradePerCourse averages final grades per course over graded
// enrollments only.
func (s *ReportService) AverageGradePerCourse(ctx context.Context) ([]models.CourseAverageGrade, error) {
	start := time.Now()
	rows, err := s.repo.AverageGradePerCourse(ctx)
	s.metrics.ObserveDBQuery("report_average_grade_per_course", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute average grades")
	}
	return rows, nil
}

// StudentsPerTerm counts distinct students per academic term.
func (s *ReportService) StudentsPerTerm(ctx context.Context) ([]models.StudentsPerTerm, error) {
	start := time.Now()
	rows, err := s.repo.StudentsPerTerm(ctx)
	s.metrics.ObserveDBQuery("report_students_per_term", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute students per term")
	}
	return rows, nil
}

// TopCourses returns the best-averaging courses, at most three rows.
func (s *ReportService) TopCourses(ctx context.Context) ([]models.CourseAverageGrade, error) {
	start := time.Now()
	rows, err := s.repo.TopCoursesByAverage(ctx, topCoursesLimit)
	s.metrics.ObserveDBQuery("report_top_courses", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute top courses")
	}
	if len(rows) > topCoursesLimit {
		rows = rows[:topCoursesLimit]
	}
	return rows, nil
}

// Summary bundles the four reports into one payload.
func (s *ReportService) Summary(ctx context.Context) (*dto.ReportSummary, error) {
	perProfessor, err := s.CoursesPerProfessor(ctx)
	if err != nil {
		return nil, err
	}
	averages, err := s.AverageGradePerCourse(ctx)
	if err != nil {
		return nil, err
	}
	perTerm, err := s.StudentsPerTerm(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.TopCourses(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ReportSummary{
		CoursesPerProfessor:   perProfessor,
		AverageGradePerCourse: averages,
		StudentsPerTerm:       perTerm,
		TopCourses:            top,
	}, nil
}
