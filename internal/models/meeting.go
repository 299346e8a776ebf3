package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MeetingStatusScheduled  = "scheduled"
	MeetingStatusInProgress = "in_progress"
	MeetingStatusCompleted  = "completed"
	MeetingStatusCancelled  = "cancelled"
)

const (
	AttendanceInvited  = "invited"
	AttendanceAccepted = "accepted"
	AttendanceDeclined = "declined"
	AttendanceAttended = "attended"
	AttendanceNoShow   = "no_show"
)

type Meeting struct {
	BaseModel

	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;default:scheduled"`

	// Scheduling
	StartTime time.Time `gorm:"not null"`
	EndTime   time.Time `gorm:"not null"`
	Timezone  string    `gorm:"default:UTC"`

	// Participants
	OrganizerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	TeamID      *uuid.UUID `gorm:"type:uuid;index"`

	// Integration
	ZoomMeetingID string
	MeetingURL    string

	// Relationships
	Organizer   User                `gorm:"foreignKey:OrganizerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Team        *Team               `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Attendances []MeetingAttendance `gorm:"foreignKey:MeetingID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type MeetingAttendance struct {
	BaseModel

	MeetingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_meeting_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_meeting_user"`
	Status    string    `gorm:"not null;default:invited"`

	// Attendance tracking
	JoinedAt        *time.Time
	LeftAt          *time.Time
	DurationMinutes int `gorm:"default:0"`

	// Engagement metrics from monitoring
	EngagementScore float64 `gorm:"default:0"`
	AttentionScore  float64 `gorm:"default:0"`

	// Relationships
	Meeting Meeting `gorm:"foreignKey:MeetingID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
