package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/db"
	"github.com/yigit/campus/internal/pkg/apperrors"
	"github.com/yigit/campus/internal/pkg/dberrors"
	"github.com/yigit/campus/internal/pkg/helpers"
	"github.com/yigit/campus/internal/pkg/logger"
)

// PlacementListParams holds parameters for filtering and pagination.
type PlacementListParams struct {
	Department *string
	BatchYear  *int
	Company    *string
	Type       *models.PlacementType
	StudentID  *string
	Page       int
	Size       int
}

func (p PlacementListParams) where() squirrel.And {
	var where squirrel.And
	if p.Department != nil && *p.Department != "" {
		where = append(where, squirrel.Eq{"p.department": *p.Department})
	}
	if p.BatchYear != nil {
		where = append(where, squirrel.Eq{"p.batch_year": *p.BatchYear})
	}
	if p.Company != nil && *p.Company != "" {
		where = append(where, squirrel.ILike{"p.company": "%" + *p.Company + "%"})
	}
	if p.Type != nil {
		where = append(where, squirrel.Eq{"p.type": *p.Type})
	}
	if p.StudentID != nil && *p.StudentID != "" {
		where = append(where, squirrel.Eq{"p.student_id": *p.StudentID})
	}
	return where
}

// PlacementRepository handles database operations for placement records
type PlacementRepository struct {
	db db.Pool
}

// NewPlacementRepository creates a new PlacementRepository
func NewPlacementRepository(pool db.Pool) *PlacementRepository {
	return &PlacementRepository{db: pool}
}

func (r *PlacementRepository) selectPlacements() squirrel.SelectBuilder {
	return squirrel.Select(
		"p.id", "p.student_id", "p.name", "p.email", "p.department", "p.batch_year", "p.company", "p.role",
		"p.package", "p.type", "p.drive_date", "p.location", "p.created_by", "p.created_by_role",
		"p.created_at", "p.updated_at",
	).From("placements p").PlaceholderFormat(squirrel.Dollar)
}

func scanPlacement(row pgx.Row) (*models.Placement, error) {
	var p models.Placement
	err := row.Scan(
		&p.ID, &p.StudentID, &p.Name, &p.Email, &p.Department, &p.BatchYear, &p.Company, &p.Role,
		&p.Package, &p.Type, &p.DriveDate, &p.Location, &p.CreatedBy, &p.CreatedByRole,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new placement record
func (r *PlacementRepository) Create(ctx context.Context, p *models.Placement) error {
	sql, args, err := squirrel.Insert("placements").
		Columns("student_id", "name", "email", "department", "batch_year", "company", "role",
			"package", "type", "drive_date", "location", "created_by", "created_by_role").
		Values(p.StudentID, p.Name, p.Email, p.Department, p.BatchYear, p.Company, p.Role,
			p.Package, p.Type, p.DriveDate, p.Location, p.CreatedBy, p.CreatedByRole).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create placement query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("studentId", p.StudentID).Msg("Error creating placement record")
		return fmt.Errorf("error creating placement record: %w", err)
	}
	return nil
}

// GetByID retrieves a placement record by ID
func (r *PlacementRepository) GetByID(ctx context.Context, id int64) (*models.Placement, error) {
	sql, args, err := r.selectPlacements().Where(squirrel.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get placement query: %w", err)
	}

	p, err := scanPlacement(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrPlacementNotFound
		}
		return nil, fmt.Errorf("error retrieving placement record: %w", err)
	}
	return p, nil
}

// List returns a paginated list of placements matching visibility (unrestricted
// when nil) and params, most recent drive first.
func (r *PlacementRepository) List(ctx context.Context, visibility squirrel.Sqlizer, params PlacementListParams) ([]*models.Placement, dto.PaginationInfo, error) {
	where := params.where()
	if visibility != nil {
		where = append(where, visibility)
	}

	countBuilder := squirrel.Select("count(*)").From("placements p").PlaceholderFormat(squirrel.Dollar)
	listBuilder := r.selectPlacements()
	if len(where) > 0 {
		countBuilder = countBuilder.Where(where)
		listBuilder = listBuilder.Where(where)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("build count placements query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count placements query")
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(total, params.Page, params.Size)
	if total == 0 {
		return []*models.Placement{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sql, args, err := listBuilder.OrderBy("p.drive_date DESC", "p.id DESC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("build list placements query: %w", err)
	}

	placements, err := r.query(ctx, sql, args)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return placements, pagination, nil
}

// ListAll returns every placement matching params, ignoring pagination.
func (r *PlacementRepository) ListAll(ctx context.Context, params PlacementListParams) ([]*models.Placement, error) {
	builder := r.selectPlacements()
	if where := params.where(); len(where) > 0 {
		builder = builder.Where(where)
	}
	sql, args, err := builder.OrderBy("p.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list placements query: %w", err)
	}
	return r.query(ctx, sql, args)
}

func (r *PlacementRepository) query(ctx context.Context, sql string, args []interface{}) ([]*models.Placement, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing placements: %w", err)
	}
	defer rows.Close()

	placements := make([]*models.Placement, 0)
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning placement: %w", err)
		}
		placements = append(placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return placements, nil
}

// Update writes the offer fields of a placement record
func (r *PlacementRepository) Update(ctx context.Context, p *models.Placement) error {
	sql, args, err := squirrel.Update("placements").
		Set("company", p.Company).
		Set("role", p.Role).
		Set("package", p.Package).
		Set("type", p.Type).
		Set("drive_date", p.DriveDate).
		Set("location", p.Location).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update placement query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrPlacementNotFound
		}
		return fmt.Errorf("error updating placement record: %w", err)
	}
	return nil
}

// Delete removes a placement record
func (r *PlacementRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM placements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting placement record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPlacementNotFound
	}
	return nil
}
