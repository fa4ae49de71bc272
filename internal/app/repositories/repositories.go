package repositories

import (
	"github.com/yigit/campus/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	AnnouncementRepository *AnnouncementRepository
	CourseRepository       *CourseRepository
	MaterialRepository     *MaterialRepository
	AssignmentRepository   *AssignmentRepository
	SubmissionRepository   *SubmissionRepository
	PlacementRepository    *PlacementRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool db.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(pool),
		AnnouncementRepository: NewAnnouncementRepository(pool),
		CourseRepository:       NewCourseRepository(pool),
		MaterialRepository:     NewMaterialRepository(pool),
		AssignmentRepository:   NewAssignmentRepository(pool),
		SubmissionRepository:   NewSubmissionRepository(pool),
		PlacementRepository:    NewPlacementRepository(pool),
	}
}
