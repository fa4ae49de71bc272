package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/app/repositories"
	"github.com/yigit/campus/internal/pkg/apperrors"
	jwtauth "github.com/yigit/campus/internal/pkg/auth"
	"github.com/yigit/campus/internal/pkg/filestorage"
	"github.com/yigit/campus/internal/pkg/helpers"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	jwtauth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var fixedNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func testAuthz() *auth.AuthorizationService {
	return auth.NewAuthorizationService().WithClock(func() time.Time { return fixedNow })
}

func studentPrincipal(t *testing.T, id int64, dept string, admissionYear int) auth.Principal {
	t.Helper()
	p, err := auth.NewPrincipal(id, models.RoleStudent, &dept, &admissionYear)
	require.NoError(t, err)
	return p
}

func facultyPrincipal(t *testing.T, id int64, dept string) auth.Principal {
	t.Helper()
	p, err := auth.NewPrincipal(id, models.RoleFaculty, &dept, nil)
	require.NoError(t, err)
	return p
}

func adminPrincipal(t *testing.T, id int64) auth.Principal {
	t.Helper()
	p, err := auth.NewPrincipal(id, models.RoleAdmin, nil, nil)
	require.NoError(t, err)
	return p
}

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{nextID: 1000, byID: map[int64]*models.User{}}
	for _, u := range users {
		cp := *u
		if cp.Status == "" {
			cp.Status = models.StatusActive
		}
		f.byID[u.ID] = &cp
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = fixedNow
	u.UpdatedAt = fixedNow
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetStudentByRollNumber(_ context.Context, studentID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Role == models.RoleStudent && u.StudentID != nil && *u.StudentID == studentID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeUsers) GetByIDs(_ context.Context, ids []int64) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) List(_ context.Context, params repositories.UserListParams) ([]*models.User, dto.PaginationInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.User, 0)
	for _, u := range f.byID {
		if params.Role != nil && u.Role != *params.Role {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, helpers.NewPaginationInfo(int64(len(out)), params.Page, params.Size), nil
}

func (f *fakeUsers) FindStudentIDsByCohort(_ context.Context, department string, admissionYear int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []int64{}
	// map iteration order is random; Compute must sort.
	for _, u := range f.byID {
		if u.Role == models.RoleStudent && u.DepartmentValue() == department &&
			u.AdmissionYear != nil && *u.AdmissionYear == admissionYear {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdateStatus(_ context.Context, id int64, status models.UserStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeCourses is an in-memory CourseStore. Reads return copies so services
// cannot mutate stored state without going through the store.
type fakeCourses struct {
	mu           sync.Mutex
	nextID       int64
	byID         map[int64]*models.Course
	lastWhere    squirrel.Sqlizer
	replaceCalls int
}

func newFakeCourses(courses ...*models.Course) *fakeCourses {
	f := &fakeCourses{nextID: 100, byID: map[int64]*models.Course{}}
	for _, c := range courses {
		f.byID[c.ID] = copyCourse(c)
	}
	return f
}

func copyCourse(c *models.Course) *models.Course {
	cp := *c
	cp.EnrolledStudents = append([]int64{}, c.EnrolledStudents...)
	return &cp
}

func (f *fakeCourses) Create(_ context.Context, c *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.CourseCode == c.CourseCode && existing.Department == c.Department &&
			existing.Year == c.Year && existing.CreatedBy == c.CreatedBy {
			return apperrors.ErrCourseAlreadyExists
		}
	}
	f.nextID++
	c.ID = f.nextID
	f.byID[c.ID] = copyCourse(c)
	return nil
}

func (f *fakeCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return copyCourse(c), nil
}

func (f *fakeCourses) List(_ context.Context, where squirrel.Sqlizer) ([]*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastWhere = where
	out := make([]*models.Course, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, copyCourse(c))
	}
	return out, nil
}

func (f *fakeCourses) Update(_ context.Context, c *models.Course, resync bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[c.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	enrolled := stored.EnrolledStudents
	cp := copyCourse(c)
	if !resync {
		cp.EnrolledStudents = enrolled
	}
	f.byID[c.ID] = cp
	return nil
}

func (f *fakeCourses) ReplaceEnrollment(_ context.Context, courseID int64, studentIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	f.replaceCalls++
	c.EnrolledStudents = append([]int64{}, studentIDs...)
	return nil
}

func (f *fakeCourses) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCourses) IsStudentTaughtBy(_ context.Context, facultyID, studentID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if c.CreatedBy == facultyID && c.HasStudent(studentID) {
			return true, nil
		}
	}
	return false, nil
}

// fakeMaterials is an in-memory MaterialStore.
type fakeMaterials struct {
	mu         sync.Mutex
	nextID     int64
	byID       map[int64]*models.CourseMaterial
	failCreate error
}

func newFakeMaterials() *fakeMaterials {
	return &fakeMaterials{byID: map[int64]*models.CourseMaterial{}}
}

func (f *fakeMaterials) Create(_ context.Context, m *models.CourseMaterial) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	m.ID = f.nextID
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMaterials) GetByID(_ context.Context, id int64) (*models.CourseMaterial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrMaterialNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMaterials) ListByCourse(_ context.Context, courseID int64) ([]*models.CourseMaterial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.CourseMaterial, 0)
	for _, m := range f.byID {
		if m.CourseID == courseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMaterials) Update(_ context.Context, m *models.CourseMaterial) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[m.ID]; !ok {
		return apperrors.ErrMaterialNotFound
	}
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMaterials) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrMaterialNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeAssignments is an in-memory AssignmentStore.
type fakeAssignments struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*models.Assignment
	courses *fakeCourses
}

func newFakeAssignments(courses *fakeCourses, assignments ...*models.Assignment) *fakeAssignments {
	f := &fakeAssignments{byID: map[int64]*models.Assignment{}, courses: courses}
	for _, a := range assignments {
		cp := *a
		f.byID[a.ID] = &cp
		if a.ID > f.nextID {
			f.nextID = a.ID
		}
	}
	return f
}

func (f *fakeAssignments) Create(_ context.Context, a *models.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAssignments) GetByID(_ context.Context, id int64) (*models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrAssignmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssignments) ListByCourse(_ context.Context, courseID int64) ([]*models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Assignment, 0)
	for _, a := range f.byID {
		if a.CourseID == courseID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAssignments) ListForStudent(ctx context.Context, studentID int64) ([]*models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Assignment, 0)
	for _, a := range f.byID {
		c, err := f.courses.GetByID(ctx, a.CourseID)
		if err == nil && c.HasStudent(studentID) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAssignments) Update(_ context.Context, a *models.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[a.ID]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAssignments) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeSubmissions is an in-memory SubmissionStore whose Create enforces
// (assignment, student) uniqueness atomically, like the database constraint.
type fakeSubmissions struct {
	mu        sync.Mutex
	nextID    int64
	rows      []*models.Submission
	now       time.Time
	lastWhere squirrel.Sqlizer
}

func newFakeSubmissions(now time.Time, subs ...*models.Submission) *fakeSubmissions {
	f := &fakeSubmissions{now: now}
	for _, s := range subs {
		cp := *s
		f.rows = append(f.rows, &cp)
		if s.ID > f.nextID {
			f.nextID = s.ID
		}
	}
	return f
}

func (f *fakeSubmissions) Create(_ context.Context, s *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.AssignmentID == s.AssignmentID && existing.StudentID == s.StudentID {
			return apperrors.ErrSubmissionExists
		}
	}
	f.nextID++
	s.ID = f.nextID
	s.SubmittedAt = f.now
	cp := *s
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeSubmissions) GetByID(_ context.Context, id int64) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrSubmissionNotFound
}

func (f *fakeSubmissions) GetByAssignmentAndStudent(_ context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrSubmissionNotFound
}

// List applies the assignment narrowing only; visibility predicates are SQL
// and are recorded for assertions.
func (f *fakeSubmissions) List(_ context.Context, visibility squirrel.Sqlizer, assignmentID *int64) ([]*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastWhere = visibility
	out := make([]*models.Submission, 0)
	for _, s := range f.rows {
		if assignmentID != nil && s.AssignmentID != *assignmentID {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeSubmissions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// fakeAnnouncements is an in-memory AnnouncementStore.
type fakeAnnouncements struct {
	mu        sync.Mutex
	nextID    int64
	rows      []*models.Announcement
	lastWhere squirrel.Sqlizer
}

func (f *fakeAnnouncements) Create(_ context.Context, a *models.Announcement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = fixedNow.Add(time.Duration(f.nextID) * time.Minute)
	cp := *a
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeAnnouncements) GetByID(_ context.Context, id int64) (*models.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrAnnouncementNotFound
}

func (f *fakeAnnouncements) List(_ context.Context, where squirrel.Sqlizer) ([]*models.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastWhere = where
	out := make([]*models.Announcement, 0, len(f.rows))
	for i := len(f.rows) - 1; i >= 0; i-- {
		cp := *f.rows[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeAnnouncements) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.rows {
		if a.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrAnnouncementNotFound
}

// fakePlacements is an in-memory PlacementStore.
type fakePlacements struct {
	mu        sync.Mutex
	nextID    int64
	rows      []*models.Placement
	lastWhere squirrel.Sqlizer
}

func (f *fakePlacements) Create(_ context.Context, p *models.Placement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakePlacements) GetByID(_ context.Context, id int64) (*models.Placement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.ErrPlacementNotFound
}

func (f *fakePlacements) List(_ context.Context, visibility squirrel.Sqlizer, params repositories.PlacementListParams) ([]*models.Placement, dto.PaginationInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastWhere = visibility
	out := make([]*models.Placement, 0, len(f.rows))
	for _, p := range f.rows {
		cp := *p
		out = append(out, &cp)
	}
	return out, helpers.NewPaginationInfo(int64(len(out)), params.Page, params.Size), nil
}

func (f *fakePlacements) ListAll(_ context.Context, _ repositories.PlacementListParams) ([]*models.Placement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Placement, 0, len(f.rows))
	for _, p := range f.rows {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakePlacements) Update(_ context.Context, p *models.Placement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.rows {
		if existing.ID == p.ID {
			cp := *p
			f.rows[i] = &cp
			return nil
		}
	}
	return apperrors.ErrPlacementNotFound
}

func (f *fakePlacements) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.rows {
		if p.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrPlacementNotFound
}

// fakeStorage records saved and deleted URLs.
type fakeStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
}

func (f *fakeStorage) Save(fh *multipart.FileHeader, subPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	url := fmt.Sprintf("/uploads/%s/%s", subPath, fh.Filename)
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStorage) Resolve(fileURL string) (string, error) {
	rel, ok := strings.CutPrefix(fileURL, "/uploads/")
	if !ok {
		return "", filestorage.ErrOutsideStorage
	}
	return "/srv/campus/" + rel, nil
}

func (f *fakeStorage) Delete(fileURL string) error {
	if !strings.HasPrefix(fileURL, "/uploads/") {
		return filestorage.ErrOutsideStorage
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, fileURL)
	return nil
}
