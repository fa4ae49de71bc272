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

// AnnouncementRepository handles database operations for announcements
type AnnouncementRepository struct {
	db db.Pool
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(pool db.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{db: pool}
}

func (r *AnnouncementRepository) selectAnnouncements() squirrel.SelectBuilder {
	return squirrel.Select(
		"a.id", "a.title", "a.description", "a.type", "a.date", "a.time", "a.location", "a.attachment_url",
		"a.audience", "a.department", "a.year", "a.created_by", "a.created_by_role", "a.created_at",
	).From("announcements a").PlaceholderFormat(squirrel.Dollar)
}

func scanAnnouncement(row pgx.Row) (*models.Announcement, error) {
	var a models.Announcement
	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.Type, &a.Date, &a.Time, &a.Location, &a.AttachmentURL,
		&a.Tags.Audience, &a.Tags.Department, &a.Tags.Year, &a.CreatedBy, &a.CreatedByRole, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new announcement. Absent department or year tags are stored as NULL.
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	sql, args, err := squirrel.Insert("announcements").
		Columns("title", "description", "type", "date", "time", "location", "attachment_url",
			"audience", "department", "year", "created_by", "created_by_role").
		Values(a.Title, a.Description, a.Type, a.Date, a.Time, a.Location, a.AttachmentURL,
			a.Tags.Audience, a.Tags.Department, a.Tags.Year, a.CreatedBy, a.CreatedByRole).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create announcement query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("createdBy", a.CreatedBy).Msg("Error creating announcement")
		return fmt.Errorf("error creating announcement: %w", err)
	}
	return nil
}

// GetByID retrieves an announcement by ID
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	sql, args, err := r.selectAnnouncements().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get announcement query: %w", err)
	}

	a, err := scanAnnouncement(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("error retrieving announcement: %w", err)
	}
	return a, nil
}

// List returns the announcements matching where (all announcements when nil),
// newest first.
func (r *AnnouncementRepository) List(ctx context.Context, where squirrel.Sqlizer) ([]*models.Announcement, error) {
	builder := r.selectAnnouncements()
	if where != nil {
		builder = builder.Where(where)
	}
	sql, args, err := builder.OrderBy("a.created_at DESC", "a.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list announcements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list announcements query")
		return nil, err
	}
	defer rows.Close()

	announcements := make([]*models.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning announcement: %w", err)
		}
		announcements = append(announcements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return announcements, nil
}

// Delete removes an announcement
func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAnnouncementNotFound
	}
	return nil
}
