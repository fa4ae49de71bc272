package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
)

func newPlacementFixture() (*PlacementService, *fakePlacements) {
	users := newFakeUsers(
		&models.User{ID: 2, Name: "Asha Kumar", Email: "asha@college.edu", Role: models.RoleStudent,
			Department: strPtr("CSE"), AdmissionYear: intPtr(2021), StudentID: strPtr("21CS045")},
		&models.User{ID: 3, Name: "Ravi Shah", Email: "ravi@college.edu", Role: models.RoleStudent,
			Department: strPtr("CSE"), AdmissionYear: intPtr(2021), StudentID: strPtr("21CS046")},
	)
	store := &fakePlacements{}
	return NewPlacementService(store, users, testAuthz(), nopLogger()), store
}

func placementRequest() *dto.CreatePlacementRequest {
	return &dto.CreatePlacementRequest{
		StudentID:  "21CS045",
		Name:       "Asha Kumar",
		Email:      "Asha@College.edu",
		Department: "CSE",
		BatchYear:  2021,
		Company:    "Acme",
		Role:       "SDE",
		Package:    12.5,
		Type:       models.PlacementFullTime,
		DriveDate:  "2025-02-10",
		Location:   "Bengaluru",
	}
}

func TestPlacementService_CreateChecksIdentity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.CreatePlacementRequest)
		field  string
	}{
		{"name", func(r *dto.CreatePlacementRequest) { r.Name = "Someone Else" }, "name"},
		{"name case", func(r *dto.CreatePlacementRequest) { r.Name = "asha kumar" }, "name"},
		{"email", func(r *dto.CreatePlacementRequest) { r.Email = "other@college.edu" }, "email"},
		{"department", func(r *dto.CreatePlacementRequest) { r.Department = "ECE" }, "department"},
		{"batch year", func(r *dto.CreatePlacementRequest) { r.BatchYear = 2022 }, "batchYear"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newPlacementFixture()
			req := placementRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), adminPrincipal(t, 1), req)
			require.ErrorIs(t, err, apperrors.ErrPlacementMismatch)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

			var custom *apperrors.CustomError
			require.ErrorAs(t, err, &custom)
			assert.Equal(t, []string{tt.field}, custom.Details["fields"])
			assert.Empty(t, store.rows, "nothing is stored on mismatch")
		})
	}
}

func TestPlacementService_CreateUnknownStudent(t *testing.T) {
	svc, store := newPlacementFixture()
	req := placementRequest()
	req.StudentID = "99XX000"

	_, err := svc.Create(context.Background(), adminPrincipal(t, 1), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, store.rows)
}

func TestPlacementService_CreateAndRead(t *testing.T) {
	svc, _ := newPlacementFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, studentPrincipal(t, 2, "CSE", 2021), placementRequest())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	rec, err := svc.Create(ctx, adminPrincipal(t, 1), placementRequest())
	require.NoError(t, err)
	assert.Equal(t, "asha@college.edu", rec.Email)
	assert.Equal(t, models.RoleAdmin, rec.CreatedByRole)

	got, err := svc.GetByID(ctx, studentPrincipal(t, 2, "CSE", 2021), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = svc.GetByID(ctx, studentPrincipal(t, 3, "CSE", 2021), rec.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.GetByID(ctx, facultyPrincipal(t, 10, "CSE"), rec.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.GetByID(ctx, adminPrincipal(t, 1), 999)
	assert.ErrorIs(t, err, apperrors.ErrPlacementNotFound)
}

func TestPlacementService_ListMineScopesToStudent(t *testing.T) {
	svc, store := newPlacementFixture()
	ctx := context.Background()

	_, _, err := svc.ListMine(ctx, studentPrincipal(t, 2, "CSE", 2021), 1, 20)
	require.NoError(t, err)
	sql, args, err := store.lastWhere.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(p.student_id = ? AND LOWER(p.email) = LOWER(?))", sql)
	assert.Equal(t, []interface{}{"21CS045", "asha@college.edu"}, args)

	_, _, err = svc.ListMine(ctx, adminPrincipal(t, 1), 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, _, err = svc.List(ctx, studentPrincipal(t, 2, "CSE", 2021), &dto.PlacementFilterRequest{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestPlacementService_UpdateKeepsIdentity(t *testing.T) {
	svc, _ := newPlacementFixture()
	ctx := context.Background()
	admin := adminPrincipal(t, 1)

	rec, err := svc.Create(ctx, admin, placementRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, admin, rec.ID, &dto.UpdatePlacementRequest{Package: func() *float64 { v := 18.0; return &v }()})
	require.NoError(t, err)
	assert.Equal(t, 18.0, updated.Package)
	assert.Equal(t, "Asha Kumar", updated.Name)

	_, err = svc.Update(ctx, admin, rec.ID, &dto.UpdatePlacementRequest{DriveDate: strPtr("tomorrow")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	require.NoError(t, svc.Delete(ctx, admin, rec.ID))
	assert.ErrorIs(t, svc.Delete(ctx, admin, rec.ID), apperrors.ErrPlacementNotFound)
}

func TestSummarizePlacements(t *testing.T) {
	records := []*models.Placement{
		{StudentID: "21CS046", Name: "Ravi", Company: "Beta", Package: 8, Type: models.PlacementInternship},
		{StudentID: "21CS045", Name: "Asha", Company: "Acme", Package: 12.5, Type: models.PlacementFullTime},
		{StudentID: "21CS045", Name: "Asha", Company: "Globex", Package: 20, Type: models.PlacementFullTime},
		{StudentID: "21CS045", Name: "Asha", Company: "Initech", Package: 20, Type: models.PlacementFullTime},
		{StudentID: "21CS047", Name: "Meera", Company: "Umbrella", Package: 8, Type: models.PlacementFullTime},
	}

	summary := SummarizePlacements(records)
	require.Len(t, summary, 3)

	assert.Equal(t, "21CS045", summary[0].StudentID)
	assert.Equal(t, "Globex", summary[0].Company, "ties keep the earlier record")
	assert.Equal(t, 20.0, summary[0].Package)
	assert.Equal(t, 3, summary[0].Offers)

	assert.Equal(t, "21CS046", summary[1].StudentID)
	assert.Equal(t, "21CS047", summary[2].StudentID)
	assert.Equal(t, 1, summary[2].Offers)

	assert.Empty(t, SummarizePlacements(nil))
}
