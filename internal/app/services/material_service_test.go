package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
)

func newMaterialFixture() (*MaterialService, *fakeMaterials, *fakeStorage) {
	courses := newFakeCourses(&models.Course{ID: 1, CourseCode: "CS201", Department: "CSE", Year: 2, CreatedBy: 10, EnrolledStudents: []int64{2}})
	materials := newFakeMaterials()
	storage := &fakeStorage{}
	return NewMaterialService(materials, courses, storage, testAuthz(), nopLogger()), materials, storage
}

func TestMaterialService_CreateWithUploadOrLink(t *testing.T) {
	svc, _, storage := newMaterialFixture()
	ctx := context.Background()
	owner := facultyPrincipal(t, 10, "CSE")

	uploaded, err := svc.Create(ctx, owner, 1, &dto.CreateMaterialRequest{Title: "Slides"}, &multipart.FileHeader{Filename: "week1.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/materials/1/week1.pdf", uploaded.FileURL)
	assert.Equal(t, int64(10), uploaded.UploadedBy)

	linked, err := svc.Create(ctx, owner, 1, &dto.CreateMaterialRequest{Title: "Reading", FileURL: strPtr("https://example.com/paper.pdf")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/paper.pdf", linked.FileURL)

	_, err = svc.Create(ctx, owner, 1, &dto.CreateMaterialRequest{Title: "Nothing"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	assert.Len(t, storage.saved, 1)
}

func TestMaterialService_FailedInsertRemovesUpload(t *testing.T) {
	svc, materials, storage := newMaterialFixture()
	materials.failCreate = errors.New("connection reset")

	_, err := svc.Create(context.Background(), facultyPrincipal(t, 10, "CSE"), 1,
		&dto.CreateMaterialRequest{Title: "Slides"}, &multipart.FileHeader{Filename: "week1.pdf"})
	require.Error(t, err)
	assert.Equal(t, storage.saved, storage.deleted)
}

func TestMaterialService_Ownership(t *testing.T) {
	svc, _, storage := newMaterialFixture()
	ctx := context.Background()
	owner := facultyPrincipal(t, 10, "CSE")
	other := facultyPrincipal(t, 11, "CSE")

	m, err := svc.Create(ctx, owner, 1, &dto.CreateMaterialRequest{Title: "Slides"}, &multipart.FileHeader{Filename: "week1.pdf"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, other, 1, &dto.CreateMaterialRequest{Title: "Spam", FileURL: strPtr("https://example.com/x")}, nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Create(ctx, other, 42, &dto.CreateMaterialRequest{Title: "Spam", FileURL: strPtr("https://example.com/x")}, nil)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	_, err = svc.Update(ctx, other, m.ID, &dto.UpdateMaterialRequest{Title: strPtr("Mine")})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, svc.Delete(ctx, other, m.ID), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, svc.Delete(ctx, other, 999), apperrors.ErrMaterialNotFound)

	list, err := svc.ListByCourse(ctx, studentPrincipal(t, 2, "CSE", 2024), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListByCourse(ctx, studentPrincipal(t, 5, "CSE", 2024), 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	updated, err := svc.Update(ctx, owner, m.ID, &dto.UpdateMaterialRequest{FileURL: strPtr("https://example.com/v2.pdf")})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v2.pdf", updated.FileURL)
	assert.Equal(t, []string{"/uploads/materials/1/week1.pdf"}, storage.deleted, "replaced upload is removed")

	require.NoError(t, svc.Delete(ctx, owner, m.ID))
	assert.Len(t, storage.deleted, 1, "external links are not deleted from storage")
}

func TestMaterialService_FileFollowsCourseAccess(t *testing.T) {
	svc, _, _ := newMaterialFixture()
	ctx := context.Background()
	owner := facultyPrincipal(t, 10, "CSE")

	uploaded, err := svc.Create(ctx, owner, 1, &dto.CreateMaterialRequest{Title: "Slides"}, &multipart.FileHeader{Filename: "week1.pdf"})
	require.NoError(t, err)
	linked, err := svc.Create(ctx, owner, 1, &dto.CreateMaterialRequest{Title: "Reading", FileURL: strPtr("https://example.com/paper.pdf")}, nil)
	require.NoError(t, err)

	loc, err := svc.File(ctx, studentPrincipal(t, 2, "CSE", 2024), uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, "/srv/campus/materials/1/week1.pdf", loc.Path)

	loc, err = svc.File(ctx, owner, linked.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/paper.pdf", loc.URL)
	assert.Empty(t, loc.Path)

	_, err = svc.File(ctx, studentPrincipal(t, 3, "CSE", 2024), uploaded.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.File(ctx, facultyPrincipal(t, 11, "CSE"), uploaded.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.File(ctx, owner, 999)
	assert.ErrorIs(t, err, apperrors.ErrMaterialNotFound)
}
