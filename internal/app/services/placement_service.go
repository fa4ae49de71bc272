package services

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/app/repositories"
	"github.com/yigit/campus/internal/pkg/apperrors"
	"github.com/yigit/campus/internal/pkg/helpers"
	"github.com/yigit/campus/internal/pkg/validation"
)

// PlacementService handles placement records
type PlacementService struct {
	placements PlacementStore
	users      UserStore
	authz      *auth.AuthorizationService
	logger     zerolog.Logger
}

// NewPlacementService creates a new PlacementService
func NewPlacementService(placements PlacementStore, users UserStore, authz *auth.AuthorizationService, logger zerolog.Logger) *PlacementService {
	return &PlacementService{
		placements: placements,
		users:      users,
		authz:      authz,
		logger:     logger,
	}
}

// placementMismatches lists the identity fields of req that differ from the student profile.
// Names must match exactly after trimming; emails compare in their normalized form.
func placementMismatches(req *dto.CreatePlacementRequest, student *models.User) []string {
	var fields []string
	if strings.TrimSpace(req.Name) != strings.TrimSpace(student.Name) {
		fields = append(fields, "name")
	}
	if validation.NormalizeEmail(req.Email) != validation.NormalizeEmail(student.Email) {
		fields = append(fields, "email")
	}
	if strings.TrimSpace(req.Department) != student.DepartmentValue() {
		fields = append(fields, "department")
	}
	if student.AdmissionYear == nil || *student.AdmissionYear != req.BatchYear {
		fields = append(fields, "batchYear")
	}
	return fields
}

// Create records an offer after checking the identity fields against the
// student's current profile. Nothing is stored on a mismatch.
func (s *PlacementService) Create(ctx context.Context, p auth.Principal, req *dto.CreatePlacementRequest) (*models.Placement, error) {
	if err := s.authz.CanManagePlacements(p); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationError("type", "type must be fulltime or internship")
	}
	if req.Package < 0 {
		return nil, apperrors.NewValidationError("package", "package cannot be negative")
	}
	driveDate, err := helpers.ParseDate(req.DriveDate)
	if err != nil {
		return nil, apperrors.NewValidationError("driveDate", "driveDate must be YYYY-MM-DD or RFC3339")
	}

	rollNumber := strings.TrimSpace(req.StudentID)
	student, err := s.users.GetStudentByRollNumber(ctx, rollNumber)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrPlacementMismatch, "no student with this studentId").
				WithDetails(map[string]interface{}{"field": "studentId"})
		}
		return nil, err
	}
	if fields := placementMismatches(req, student); len(fields) > 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrPlacementMismatch, "placement details do not match the student profile").
			WithDetails(map[string]interface{}{"fields": fields})
	}

	rec := &models.Placement{
		StudentID:     rollNumber,
		Name:          student.Name,
		Email:         validation.NormalizeEmail(student.Email),
		Department:    student.DepartmentValue(),
		BatchYear:     req.BatchYear,
		Company:       strings.TrimSpace(req.Company),
		Role:          strings.TrimSpace(req.Role),
		Package:       req.Package,
		Type:          req.Type,
		DriveDate:     driveDate,
		Location:      strings.TrimSpace(req.Location),
		CreatedBy:     p.ID,
		CreatedByRole: p.Role,
	}
	if err := s.placements.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("placementId", rec.ID).Str("studentId", rec.StudentID).Msg("Placement recorded")
	return rec, nil
}

// ownProfile loads the user record behind a student principal.
func (s *PlacementService) ownProfile(ctx context.Context, p auth.Principal) (*models.User, error) {
	if p.Role != models.RoleStudent {
		return nil, nil
	}
	return s.users.GetByID(ctx, p.ID)
}

// GetByID returns a record to an admin or to the student it belongs to.
func (s *PlacementService) GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Placement, error) {
	rec, err := s.placements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	student, err := s.ownProfile(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanReadPlacement(p, rec, student); err != nil {
		return nil, err
	}
	return rec, nil
}

func listParams(filter *dto.PlacementFilterRequest) repositories.PlacementListParams {
	return repositories.PlacementListParams{
		Department: filter.Department,
		BatchYear:  filter.BatchYear,
		Company:    filter.Company,
		Type:       filter.Type,
		StudentID:  filter.StudentID,
		Page:       filter.Page,
		Size:       filter.Size,
	}
}

// List returns a filtered page of all records. Admins only.
func (s *PlacementService) List(ctx context.Context, p auth.Principal, filter *dto.PlacementFilterRequest) ([]*models.Placement, dto.PaginationInfo, error) {
	if err := s.authz.CanManagePlacements(p); err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return s.placements.List(ctx, nil, listParams(filter))
}

// ListMine returns the records matching the student's roll number and email.
func (s *PlacementService) ListMine(ctx context.Context, p auth.Principal, page, size int) ([]*models.Placement, dto.PaginationInfo, error) {
	if err := s.authz.Authorize(p, models.RoleStudent); err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	student, err := s.ownProfile(ctx, p)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	visibility, err := s.authz.PlacementFilter(p, student)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return s.placements.List(ctx, visibility, repositories.PlacementListParams{Page: page, Size: size})
}

// Update applies the provided offer fields. Admins only.
func (s *PlacementService) Update(ctx context.Context, p auth.Principal, id int64, req *dto.UpdatePlacementRequest) (*models.Placement, error) {
	if err := s.authz.CanManagePlacements(p); err != nil {
		return nil, err
	}
	rec, err := s.placements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Company != nil {
		rec.Company = strings.TrimSpace(*req.Company)
	}
	if req.Role != nil {
		rec.Role = strings.TrimSpace(*req.Role)
	}
	if req.Package != nil {
		if *req.Package < 0 {
			return nil, apperrors.NewValidationError("package", "package cannot be negative")
		}
		rec.Package = *req.Package
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, apperrors.NewValidationError("type", "type must be fulltime or internship")
		}
		rec.Type = *req.Type
	}
	if req.DriveDate != nil {
		driveDate, err := helpers.ParseDate(*req.DriveDate)
		if err != nil {
			return nil, apperrors.NewValidationError("driveDate", "driveDate must be YYYY-MM-DD or RFC3339")
		}
		rec.DriveDate = driveDate
	}
	if req.Location != nil {
		rec.Location = strings.TrimSpace(*req.Location)
	}

	if err := s.placements.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a record. Admins only.
func (s *PlacementService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if err := s.authz.CanManagePlacements(p); err != nil {
		return err
	}
	return s.placements.Delete(ctx, id)
}

// Summary returns each student's best offer among the filtered records.
func (s *PlacementService) Summary(ctx context.Context, p auth.Principal, filter *dto.PlacementFilterRequest) ([]dto.PlacementSummary, error) {
	if err := s.authz.CanManagePlacements(p); err != nil {
		return nil, err
	}
	records, err := s.placements.ListAll(ctx, listParams(filter))
	if err != nil {
		return nil, err
	}
	return SummarizePlacements(records), nil
}

// SummarizePlacements folds records by studentId, keeping the highest package.
// Ties keep the earlier record. The result is ordered by package descending,
// then studentId.
func SummarizePlacements(records []*models.Placement) []dto.PlacementSummary {
	best := make(map[string]*dto.PlacementSummary)
	for _, r := range records {
		cur, ok := best[r.StudentID]
		if !ok {
			best[r.StudentID] = &dto.PlacementSummary{
				StudentID:  r.StudentID,
				Name:       r.Name,
				Email:      r.Email,
				Department: r.Department,
				BatchYear:  r.BatchYear,
				Company:    r.Company,
				Role:       r.Role,
				Package:    r.Package,
				Type:       r.Type,
				Offers:     1,
			}
			continue
		}
		cur.Offers++
		if r.Package > cur.Package {
			cur.Company = r.Company
			cur.Role = r.Role
			cur.Package = r.Package
			cur.Type = r.Type
		}
	}

	out := make([]dto.PlacementSummary, 0, len(best))
	for _, s := range best {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Package != out[j].Package {
			return out[i].Package > out[j].Package
		}
		return out[i].StudentID < out[j].StudentID
	})
	return out
}
