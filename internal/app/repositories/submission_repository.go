package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/db"
	"github.com/yigit/campus/internal/pkg/apperrors"
	"github.com/yigit/campus/internal/pkg/dberrors"
	"github.com/yigit/campus/internal/pkg/logger"
)

// SubmissionRepository handles database operations for assignment submissions
type SubmissionRepository struct {
	db db.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(pool db.Pool) *SubmissionRepository {
	return &SubmissionRepository{db: pool}
}

// selectSubmissions joins the parent assignment as "a" so visibility predicates can reference it.
func (r *SubmissionRepository) selectSubmissions() squirrel.SelectBuilder {
	return squirrel.Select("s.id", "s.assignment_id", "s.student_id", "s.file_url", "s.submitted_at").
		From("submissions s").
		Join("assignments a ON a.id = s.assignment_id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	if err := row.Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.FileURL, &s.SubmittedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a submission. A second submission by the same student for the
// same assignment is rejected by the unique constraint, so concurrent double
// submits resolve to exactly one row and one ErrSubmissionExists.
func (r *SubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	sql, args, err := squirrel.Insert("submissions").
		Columns("assignment_id", "student_id", "file_url").
		Values(s.AssignmentID, s.StudentID, s.FileURL).
		Suffix("RETURNING id, submitted_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create submission query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.SubmittedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, dberrors.SubmissionsAssignmentKey):
			return apperrors.ErrSubmissionExists
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrAssignmentNotFound
		}
		logger.Error().Err(err).Int64("assignmentID", s.AssignmentID).Msg("Error creating submission")
		return fmt.Errorf("error creating submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission by ID
func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*models.Submission, error) {
	return r.getOne(ctx, squirrel.Eq{"s.id": id})
}

// GetByAssignmentAndStudent retrieves a student's submission for an assignment.
func (r *SubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	return r.getOne(ctx, squirrel.Eq{"s.assignment_id": assignmentID, "s.student_id": studentID})
}

func (r *SubmissionRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Submission, error) {
	sql, args, err := r.selectSubmissions().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get submission query: %w", err)
	}

	s, err := scanSubmission(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error retrieving submission: %w", err)
	}
	return s, nil
}

// List returns submissions matching visibility, optionally narrowed to one
// assignment, newest first.
func (r *SubmissionRepository) List(ctx context.Context, visibility squirrel.Sqlizer, assignmentID *int64) ([]*models.Submission, error) {
	builder := r.selectSubmissions().Where(visibility)
	if assignmentID != nil {
		builder = builder.Where(squirrel.Eq{"s.assignment_id": *assignmentID})
	}
	sql, args, err := builder.OrderBy("s.submitted_at DESC", "s.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list submissions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]*models.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return submissions, nil
}
