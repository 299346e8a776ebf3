package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityMetrics struct {
	BaseModel

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_date"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_date"`

	// Time tracking
	TotalWorkMinutes int `gorm:"default:0"`
	ActiveMinutes    int `gorm:"default:0"`
	IdleMinutes      int `gorm:"default:0"`

	// Productivity counters
	TasksCompleted   int `gorm:"default:0"`
	TasksStarted     int `gorm:"default:0"`
	MeetingsAttended int `gorm:"default:0"`
	ChatMessagesSent int `gorm:"default:0"`

	// Monitoring data
	ScreenshotsTaken int            `gorm:"default:0"`
	ApplicationsUsed datatypes.JSON `gorm:"type:jsonb"`
	WebsitesVisited  datatypes.JSON `gorm:"type:jsonb"`

	// Scores
	ProductivityScore  float64 `gorm:"default:0"`
	EngagementScore    float64 `gorm:"default:0"`
	CollaborationScore float64 `gorm:"default:0"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// EfficiencyRatio is the share of tracked work time spent active, as a
// percentage. Days without tracked work report 0.
func (m ActivityMetrics) EfficiencyRatio() float64 {
	if m.TotalWorkMinutes <= 0 {
		return 0
	}

	return float64(m.ActiveMinutes) / float64(m.TotalWorkMinutes) * 100
}
