package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/common"
	"github.com/dmitrijs2005/essaydesk/internal/logging"
	"github.com/dmitrijs2005/essaydesk/internal/server/metrics"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
	"github.com/dmitrijs2005/essaydesk/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// EssayEvaluator scores an essay on the rubric.
type EssayEvaluator interface {
	Evaluate(ctx context.Context, essay string) (models.ScoreSet, string, error)
}

// StatsExporter publishes group statistics and returns a download link.
type StatsExporter interface {
	Export(ctx context.Context, teacherID string, rows []models.StudentStats) (string, error)
}

// SubmissionService is the submission ledger.
type SubmissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	evaluator   EssayEvaluator
	exporter    StatsExporter
	metrics     *metrics.Metrics
	logger      logging.Logger
	now         func() time.Time
}

// NewSubmissionService wires the ledger. A nil exporter disables
// ExportGroupStats.
func NewSubmissionService(db *sql.DB, m repomanager.RepositoryManager, ev EssayEvaluator, ex StatsExporter,
	mt *metrics.Metrics, l logging.Logger) *SubmissionService {
	return &SubmissionService{
		db:          db,
		repomanager: m,
		evaluator:   ev,
		exporter:    ex,
		metrics:     mt,
		logger:      l.With("module", "submission_service"),
		now:         time.Now,
	}
}

// Submit scores and records an essay. A repeat of an essay the student has
// already submitted is rejected before the evaluator runs; an evaluation
// failure rejects the submission and records nothing.
func (s *SubmissionService) Submit(ctx context.Context, studentID, teacherID, essay string) (*models.Submission, error) {
	if strings.TrimSpace(studentID) == "" || strings.TrimSpace(teacherID) == "" || strings.TrimSpace(essay) == "" {
		s.metrics.Submission("invalid")
		return nil, fmt.Errorf("%w: student, teacher and essay are required", common.ErrorValidation)
	}

	repo := s.repomanager.Submissions(s.db)

	exists, err := repo.Exists(ctx, studentID, essay)
	if err != nil {
		s.metrics.Submission("error")
		return nil, fmt.Errorf("error checking for duplicates: %w", err)
	}
	if exists {
		s.metrics.Submission("duplicate")
		return nil, common.ErrorDuplicateSubmission
	}

	scores, feedback, err := s.evaluator.Evaluate(ctx, essay)
	if err != nil {
		s.metrics.Submission("evaluation_failed")
		return nil, err
	}

	created, err := repo.Create(ctx, &models.Submission{
		ID:        uuid.NewString(),
		StudentID: studentID,
		TeacherID: teacherID,
		CreatedAt: s.now(),
		Essay:     essay,
		Scores:    scores,
		Feedback:  feedback,
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateSubmission) {
			s.metrics.Submission("duplicate")
			return nil, common.ErrorDuplicateSubmission
		}
		s.metrics.Submission("error")
		return nil, fmt.Errorf("error saving submission: %w", err)
	}

	s.metrics.Submission("ok")
	s.logger.Info(ctx, "essay submitted", "submission_id", created.ID, "student_id", studentID, "teacher_id", teacherID)
	return created, nil
}

// Progress returns the student's submissions oldest first with per-criterion
// averages, or nil when the student has not submitted anything.
func (s *SubmissionService) Progress(ctx context.Context, studentID string) (*models.Progress, error) {
	subs, err := s.repomanager.Submissions(s.db).ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	if len(subs) == 0 {
		return nil, nil
	}

	return &models.Progress{
		StudentID:   studentID,
		Submissions: subs,
		Averages:    models.AverageScores(subs),
	}, nil
}

// GroupStats summarises every student who addressed essays to teacherID,
// ordered by student id.
func (s *SubmissionService) GroupStats(ctx context.Context, teacherID string) ([]models.StudentStats, error) {
	subs, err := s.repomanager.Submissions(s.db).ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}

	byStudent := make(map[string][]*models.Submission)
	for _, sub := range subs {
		byStudent[sub.StudentID] = append(byStudent[sub.StudentID], sub)
	}

	stats := make([]models.StudentStats, 0, len(byStudent))
	for id, list := range byStudent {
		stats = append(stats, models.StudentStats{
			StudentID:   id,
			Submissions: len(list),
			Averages:    models.AverageScores(list),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].StudentID < stats[j].StudentID })

	return stats, nil
}

// ExportGroupStats publishes GroupStats through the configured exporter.
func (s *SubmissionService) ExportGroupStats(ctx context.Context, teacherID string) (string, error) {
	if s.exporter == nil {
		return "", common.ErrorExportDisabled
	}

	stats, err := s.GroupStats(ctx, teacherID)
	if err != nil {
		return "", err
	}

	url, err := s.exporter.Export(ctx, teacherID, stats)
	if err != nil {
		s.logger.Error(ctx, "export failed", "teacher_id", teacherID, "error", err)
		return "", fmt.Errorf("error exporting group stats: %w", err)
	}

	s.logger.Info(ctx, "group stats exported", "teacher_id", teacherID, "students", len(stats))
	return url, nil
}
