package repositories

import (
	"context"
	"fmt"
	"strings"

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

var userColumns = []string{
	"u.id", "u.name", "u.email", "u.password_hash", "u.role", "u.department", "u.admission_year",
	"u.student_id", "u.faculty_id", "u.phone", "u.status", "u.created_at", "u.updated_at",
}

// UserListParams holds parameters for filtering and pagination.
type UserListParams struct {
	Role       *models.RoleType
	Department *string
	Status     *models.UserStatus
	Search     *string
	Page       int
	Size       int
}

// UserRepository handles database operations for users
type UserRepository struct {
	db db.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool db.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

func (r *UserRepository) selectUsers() squirrel.SelectBuilder {
	return squirrel.Select(userColumns...).From("users u").PlaceholderFormat(squirrel.Dollar)
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Department, &u.AdmissionYear,
		&u.StudentID, &u.FacultyID, &u.Phone, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// mapUserWriteError translates unique violations into domain conflicts.
func mapUserWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, dberrors.UsersEmailKey):
		return apperrors.ErrEmailAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, dberrors.UsersStudentIDKey):
		return apperrors.ErrStudentIDExists
	}
	return err
}

// Create inserts a new user and fills in its generated fields.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	sql, args, err := squirrel.Insert("users").
		Columns("name", "email", "password_hash", "role", "department", "admission_year",
			"student_id", "faculty_id", "phone", "status").
		Values(u.Name, u.Email, u.Password, u.Role, u.Department, u.AdmissionYear,
			u.StudentID, u.FacultyID, u.Phone, u.Status).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if mapped := mapUserWriteError(err); mapped != err {
			return mapped
		}
		logger.Error().Err(err).Str("email", u.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer, notFound error) (*models.User, error) {
	sql, args, err := r.selectUsers().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query: %w", err)
	}

	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, notFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id}, apperrors.ErrUserNotFound)
}

// GetByEmail retrieves a user by email. Emails are stored lower-cased.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.email": strings.ToLower(email)}, apperrors.ErrUserNotFound)
}

// GetStudentByRollNumber retrieves a student by their institutional student ID.
func (r *UserRepository) GetStudentByRollNumber(ctx context.Context, studentID string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.student_id": studentID, "u.role": models.RoleStudent}, apperrors.ErrStudentNotFound)
}

// List retrieves a filtered, paginated list of users ordered by id.
func (r *UserRepository) List(ctx context.Context, params UserListParams) ([]*models.User, dto.PaginationInfo, error) {
	var where squirrel.And
	if params.Role != nil {
		where = append(where, squirrel.Eq{"u.role": *params.Role})
	}
	if params.Department != nil && *params.Department != "" {
		where = append(where, squirrel.Eq{"u.department": *params.Department})
	}
	if params.Status != nil {
		where = append(where, squirrel.Eq{"u.status": *params.Status})
	}
	if params.Search != nil && *params.Search != "" {
		term := "%" + *params.Search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"u.name": term},
			squirrel.ILike{"u.email": term},
		})
	}

	countBuilder := squirrel.Select("count(*)").From("users u").PlaceholderFormat(squirrel.Dollar)
	listBuilder := r.selectUsers()
	if len(where) > 0 {
		countBuilder = countBuilder.Where(where)
		listBuilder = listBuilder.Where(where)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("build count users query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count users query")
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(total, params.Page, params.Size)
	if total == 0 {
		return []*models.User{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sql, args, err := listBuilder.OrderBy("u.id ASC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("build list users query: %w", err)
	}

	users, err := r.queryUsers(ctx, sql, args)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return users, pagination, nil
}

func (r *UserRepository) queryUsers(ctx context.Context, sql string, args []interface{}) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing users query")
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return users, nil
}

// GetByIDs retrieves the given users ordered by id. Unknown ids are skipped.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	sql, args, err := r.selectUsers().Where(squirrel.Eq{"u.id": ids}).OrderBy("u.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get users query: %w", err)
	}
	return r.queryUsers(ctx, sql, args)
}

// FindStudentIDsByCohort returns the ids of all students in department admitted
// in admissionYear, in ascending order.
func (r *UserRepository) FindStudentIDsByCohort(ctx context.Context, department string, admissionYear int) ([]int64, error) {
	sql, args, err := squirrel.Select("id").From("users").
		Where(squirrel.Eq{"role": models.RoleStudent, "department": department, "admission_year": admissionYear}).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cohort query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying cohort: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning cohort: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// Update writes every mutable profile field of u.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	sql, args, err := squirrel.Update("users").
		Set("name", u.Name).
		Set("email", u.Email).
		Set("role", u.Role).
		Set("department", u.Department).
		Set("admission_year", u.AdmissionYear).
		Set("student_id", u.StudentID).
		Set("faculty_id", u.FacultyID).
		Set("phone", u.Phone).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": u.ID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&u.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrUserNotFound
		}
		if mapped := mapUserWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// UpdateStatus activates or deactivates an account.
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewConflictError("user still owns records that cannot be removed")
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
