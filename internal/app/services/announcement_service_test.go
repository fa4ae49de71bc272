package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
)

func newAnnouncementFixture() (*AnnouncementService, *fakeAnnouncements) {
	store := &fakeAnnouncements{}
	return NewAnnouncementService(store, testAuthz(), nopLogger()), store
}

func announce(title string, tags *dto.AnnouncementTagsRequest) *dto.CreateAnnouncementRequest {
	return &dto.CreateAnnouncementRequest{
		Title:       title,
		Description: title + " details",
		Type:        models.AnnouncementAcademic,
		Date:        "2025-03-14",
		Tags:        tags,
	}
}

func TestAnnouncementService_CreateRoleGate(t *testing.T) {
	svc, store := newAnnouncementFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, studentPrincipal(t, 2, "CSE", 2023), announce("Exam", nil))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, store.rows)

	a, err := svc.Create(ctx, facultyPrincipal(t, 10, "CSE"), announce("Exam", nil))
	require.NoError(t, err)
	assert.Equal(t, models.AudienceAll, a.Tags.Audience, "missing tags default to everyone")
	assert.Nil(t, a.Tags.Department)
	assert.Nil(t, a.Tags.Year)
	assert.Equal(t, models.RoleFaculty, a.CreatedByRole)
	assert.Equal(t, int64(10), a.CreatedBy)

	_, err = svc.Create(ctx, adminPrincipal(t, 1), &dto.CreateAnnouncementRequest{
		Title: "Bad", Description: "x", Type: models.AnnouncementNotice, Date: "14/03/2025",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Create(ctx, adminPrincipal(t, 1), announce("Bad year", &dto.AnnouncementTagsRequest{Audience: models.AudienceStudents, Year: intPtr(6)}))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestAnnouncementService_FeedScenario(t *testing.T) {
	svc, store := newAnnouncementFixture()
	ctx := context.Background()
	admin := adminPrincipal(t, 1)

	cse3, err := svc.Create(ctx, admin, announce("CSE third years", &dto.AnnouncementTagsRequest{
		Audience: models.AudienceStudents, Department: strPtr("CSE"), Year: intPtr(3),
	}))
	require.NoError(t, err)
	ece, err := svc.Create(ctx, admin, announce("ECE only", &dto.AnnouncementTagsRequest{
		Audience: models.AudienceStudents, Department: strPtr("ECE"),
	}))
	require.NoError(t, err)

	// admitted 2023, so year 3 in 2025
	student := studentPrincipal(t, 2, "CSE", 2023)
	feed, err := svc.Feed(ctx, student)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	want, err := auth.FeedPredicate(student, 2025)
	require.NoError(t, err)
	wantSQL, wantArgs, err := want.ToSql()
	require.NoError(t, err)
	sql, args, err := store.lastWhere.ToSql()
	require.NoError(t, err)
	assert.Equal(t, wantSQL, sql)
	assert.Equal(t, wantArgs, args)

	assert.True(t, auth.AnnouncementVisible(student, cse3, 2025))
	assert.False(t, auth.AnnouncementVisible(student, ece, 2025))

	_, err = svc.GetByID(ctx, student, cse3.ID)
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, student, ece.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = svc.GetByID(ctx, student, 999)
	assert.ErrorIs(t, err, apperrors.ErrAnnouncementNotFound)
}

func TestAnnouncementService_AdminOnlyOperations(t *testing.T) {
	svc, store := newAnnouncementFixture()
	ctx := context.Background()

	a, err := svc.Create(ctx, facultyPrincipal(t, 10, "CSE"), announce("Seminar", &dto.AnnouncementTagsRequest{Audience: models.AudienceFaculty}))
	require.NoError(t, err)

	_, err = svc.ListAll(ctx, facultyPrincipal(t, 10, "CSE"))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	all, err := svc.ListAll(ctx, adminPrincipal(t, 1))
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Nil(t, store.lastWhere)

	assert.ErrorIs(t, svc.Delete(ctx, facultyPrincipal(t, 10, "CSE"), a.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.Delete(ctx, adminPrincipal(t, 1), a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, adminPrincipal(t, 1), a.ID), apperrors.ErrAnnouncementNotFound)
}
