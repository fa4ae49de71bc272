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

// MaterialRepository handles database operations for course materials
type MaterialRepository struct {
	db db.Pool
}

// NewMaterialRepository creates a new MaterialRepository
func NewMaterialRepository(pool db.Pool) *MaterialRepository {
	return &MaterialRepository{db: pool}
}

func (r *MaterialRepository) selectMaterials() squirrel.SelectBuilder {
	return squirrel.Select(
		"m.id", "m.course_id", "m.title", "m.description", "m.file_url", "m.uploaded_by", "m.created_at", "m.updated_at",
	).From("course_materials m").PlaceholderFormat(squirrel.Dollar)
}

func scanMaterial(row pgx.Row) (*models.CourseMaterial, error) {
	var m models.CourseMaterial
	if err := row.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.FileURL, &m.UploadedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new course material
func (r *MaterialRepository) Create(ctx context.Context, m *models.CourseMaterial) error {
	sql, args, err := squirrel.Insert("course_materials").
		Columns("course_id", "title", "description", "file_url", "uploaded_by").
		Values(m.CourseID, m.Title, m.Description, m.FileURL, m.UploadedBy).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create material query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating course material: %w", err)
	}
	return nil
}

// GetByID retrieves a course material by ID
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*models.CourseMaterial, error) {
	sql, args, err := r.selectMaterials().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get material query: %w", err)
	}

	m, err := scanMaterial(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("error retrieving course material: %w", err)
	}
	return m, nil
}

// ListByCourse returns a course's materials, newest first.
func (r *MaterialRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.CourseMaterial, error) {
	sql, args, err := r.selectMaterials().
		Where(squirrel.Eq{"m.course_id": courseID}).
		OrderBy("m.created_at DESC", "m.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list materials query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing course materials: %w", err)
	}
	defer rows.Close()

	materials := make([]*models.CourseMaterial, 0)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course material: %w", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return materials, nil
}

// Update writes the editable fields of a material
func (r *MaterialRepository) Update(ctx context.Context, m *models.CourseMaterial) error {
	sql, args, err := squirrel.Update("course_materials").
		Set("title", m.Title).
		Set("description", m.Description).
		Set("file_url", m.FileURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": m.ID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update material query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrMaterialNotFound
		}
		return fmt.Errorf("error updating course material: %w", err)
	}
	return nil
}

// Delete removes a course material
func (r *MaterialRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM course_materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}
	return nil
}
