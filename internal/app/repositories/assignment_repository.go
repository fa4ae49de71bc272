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
)

// AssignmentRepository handles database operations for assignments
type AssignmentRepository struct {
	db db.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(pool db.Pool) *AssignmentRepository {
	return &AssignmentRepository{db: pool}
}

func (r *AssignmentRepository) selectAssignments() squirrel.SelectBuilder {
	return squirrel.Select(
		"a.id", "a.course_id", "a.title", "a.description", "a.due_date", "a.created_by", "a.created_at", "a.updated_at",
	).From("assignments a").PlaceholderFormat(squirrel.Dollar)
}

func scanAssignment(row pgx.Row) (*models.Assignment, error) {
	var a models.Assignment
	if err := row.Scan(&a.ID, &a.CourseID, &a.Title, &a.Description, &a.DueDate, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new assignment
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	sql, args, err := squirrel.Insert("assignments").
		Columns("course_id", "title", "description", "due_date", "created_by").
		Values(a.CourseID, a.Title, a.Description, a.DueDate, a.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create assignment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating assignment: %w", err)
	}
	return nil
}

// GetByID retrieves an assignment by ID
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	sql, args, err := r.selectAssignments().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get assignment query: %w", err)
	}

	a, err := scanAssignment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error retrieving assignment: %w", err)
	}
	return a, nil
}

// ListByCourse returns a course's assignments ordered by due date.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Assignment, error) {
	return r.list(ctx, r.selectAssignments().Where(squirrel.Eq{"a.course_id": courseID}))
}

// ListForStudent returns the assignments of every course studentID is enrolled in.
func (r *AssignmentRepository) ListForStudent(ctx context.Context, studentID int64) ([]*models.Assignment, error) {
	return r.list(ctx, r.selectAssignments().
		Join("course_enrollments ce ON ce.course_id = a.course_id").
		Where(squirrel.Eq{"ce.student_id": studentID}))
}

func (r *AssignmentRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Assignment, error) {
	sql, args, err := builder.OrderBy("a.due_date ASC", "a.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list assignments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]*models.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return assignments, nil
}

// Update writes the editable fields of an assignment
func (r *AssignmentRepository) Update(ctx context.Context, a *models.Assignment) error {
	sql, args, err := squirrel.Update("assignments").
		Set("title", a.Title).
		Set("description", a.Description).
		Set("due_date", a.DueDate).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update assignment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrAssignmentNotFound
		}
		return fmt.Errorf("error updating assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment and, by cascade, its submissions
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}
