package models

import "time"

// AnnouncementType classifies an announcement for display.
type AnnouncementType string

const (
	AnnouncementAcademic AnnouncementType = "academic"
	AnnouncementEvent    AnnouncementType = "event"
	AnnouncementNotice   AnnouncementType = "notice"
	AnnouncementHoliday  AnnouncementType = "holiday"
)

// Valid reports whether t is a known announcement type.
func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementAcademic, AnnouncementEvent, AnnouncementNotice, AnnouncementHoliday:
		return true
	}
	return false
}

// Audience is the recipient class an announcement is addressed to.
type Audience string

const (
	AudienceAll      Audience = "all"
	AudienceStudents Audience = "students"
	AudienceFaculty  Audience = "faculty"
	AudienceAdmin    Audience = "admin"
)

// Valid reports whether a is a known audience.
func (a Audience) Valid() bool {
	switch a {
	case AudienceAll, AudienceStudents, AudienceFaculty, AudienceAdmin:
		return true
	}
	return false
}

// AnnouncementTags narrow an announcement's audience. A nil Department or Year
// means the announcement is not restricted on that dimension.
type AnnouncementTags struct {
	Audience   Audience `json:"audience" db:"audience"`
	Department *string  `json:"department,omitempty" db:"department"`
	Year       *int     `json:"year,omitempty" db:"year"`
}

// Announcement defines the announcement model based on the 'announcements' table
type Announcement struct {
	ID            int64            `json:"id" db:"id"`
	Title         string           `json:"title" db:"title"`
	Description   string           `json:"description" db:"description"`
	Type          AnnouncementType `json:"type" db:"type"`
	Date          time.Time        `json:"date" db:"date"`
	Time          *string          `json:"time,omitempty" db:"time"`
	Location      *string          `json:"location,omitempty" db:"location"`
	AttachmentURL *string          `json:"attachmentUrl,omitempty" db:"attachment_url"`
	Tags          AnnouncementTags `json:"tags"`
	CreatedBy     int64            `json:"createdBy" db:"created_by"`
	CreatedByRole RoleType         `json:"createdByRole" db:"created_by_role"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
}
