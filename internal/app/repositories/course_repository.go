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

// CourseRepository handles database operations for courses and their enrollment sets
type CourseRepository struct {
	db db.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(pool db.Pool) *CourseRepository {
	return &CourseRepository{db: pool}
}

// selectCourses aggregates the enrollment join table into a sorted id array.
func (r *CourseRepository) selectCourses() squirrel.SelectBuilder {
	return squirrel.Select(
		"c.id", "c.course_code", "c.course_name", "c.department", "c.year", "c.created_by",
		"COALESCE(ARRAY_AGG(ce.student_id ORDER BY ce.student_id) FILTER (WHERE ce.student_id IS NOT NULL), '{}') AS enrolled_students",
		"c.created_at", "c.updated_at",
	).From("courses c").
		LeftJoin("course_enrollments ce ON ce.course_id = c.id").
		GroupBy("c.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID, &c.CourseCode, &c.CourseName, &c.Department, &c.Year, &c.CreatedBy,
		&c.EnrolledStudents, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.EnrolledStudents == nil {
		c.EnrolledStudents = []int64{}
	}
	return &c, nil
}

func mapCourseWriteError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, dberrors.CoursesIdentityKey) {
		return apperrors.ErrCourseAlreadyExists
	}
	return err
}

// replaceEnrollment overwrites the enrolled set of courseID with studentIDs.
func replaceEnrollment(ctx context.Context, tx db.DBTX, courseID int64, studentIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM course_enrollments WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error clearing enrollment: %w", err)
	}
	if len(studentIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO course_enrollments (course_id, student_id) SELECT $1, UNNEST($2::bigint[])`,
		courseID, studentIDs)
	if err != nil {
		return fmt.Errorf("error writing enrollment: %w", err)
	}
	return nil
}

// Create inserts c together with its enrolled set in one transaction.
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	sql, args, err := squirrel.Insert("courses").
		Columns("course_code", "course_name", "department", "year", "created_by").
		Values(c.CourseCode, c.CourseName, c.Department, c.Year, c.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create course query: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			if mapped := mapCourseWriteError(err); mapped != err {
				return mapped
			}
			logger.Error().Err(err).Str("courseCode", c.CourseCode).Msg("Error creating course")
			return fmt.Errorf("error creating course: %w", err)
		}
		return replaceEnrollment(ctx, tx, c.ID, c.EnrolledStudents)
	})
}

// GetByID retrieves a course by ID with its enrolled set
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.selectCourses().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get course query: %w", err)
	}

	c, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return c, nil
}

// List returns the courses matching where, ordered by year then code.
func (r *CourseRepository) List(ctx context.Context, where squirrel.Sqlizer) ([]*models.Course, error) {
	builder := r.selectCourses()
	if where != nil {
		builder = builder.Where(where)
	}
	sql, args, err := builder.OrderBy("c.year ASC", "c.course_code ASC", "c.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, err
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return courses, nil
}

// Update writes the course fields. When resync is true the enrolled set is
// replaced with c.EnrolledStudents in the same transaction.
func (r *CourseRepository) Update(ctx context.Context, c *models.Course, resync bool) error {
	sql, args, err := squirrel.Update("courses").
		Set("course_code", c.CourseCode).
		Set("course_name", c.CourseName).
		Set("department", c.Department).
		Set("year", c.Year).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update course query: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&c.UpdatedAt); err != nil {
			if dberrors.IsNoRows(err) {
				return apperrors.ErrCourseNotFound
			}
			if mapped := mapCourseWriteError(err); mapped != err {
				return mapped
			}
			return fmt.Errorf("error updating course: %w", err)
		}
		if !resync {
			return nil
		}
		return replaceEnrollment(ctx, tx, c.ID, c.EnrolledStudents)
	})
}

// ReplaceEnrollment atomically overwrites a course's enrolled set.
func (r *CourseRepository) ReplaceEnrollment(ctx context.Context, courseID int64, studentIDs []int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE courses SET updated_at = NOW() WHERE id = $1`, courseID); err != nil {
			return fmt.Errorf("error touching course: %w", err)
		}
		return replaceEnrollment(ctx, tx, courseID, studentIDs)
	})
}

// Delete removes a course; enrollment, materials and assignments cascade.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// IsStudentTaughtBy reports whether studentID is enrolled in any course created by facultyID.
func (r *CourseRepository) IsStudentTaughtBy(ctx context.Context, facultyID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM course_enrollments ce
			JOIN courses c ON c.id = ce.course_id
			WHERE c.created_by = $1 AND ce.student_id = $2
		)`, facultyID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}
