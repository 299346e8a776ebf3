package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
	TaskStatusBlocked    = "blocked"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

type Task struct {
	BaseModel

	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;default:todo"`
	Priority    string `gorm:"not null;default:medium"`

	// Assignments
	AssigneeID *uuid.UUID `gorm:"type:uuid;index"`
	ReporterID uuid.UUID  `gorm:"type:uuid;not null;index"`
	TeamID     uuid.UUID  `gorm:"type:uuid;not null;index"`

	// Time tracking
	EstimatedHours *float64
	ActualHours    float64 `gorm:"default:0"`

	DueDate     *time.Time
	CompletedAt *time.Time

	// Relationships
	Assignee    *User           `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Reporter    User            `gorm:"foreignKey:ReporterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Team        Team            `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TimeEntries []TaskTimeEntry `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// ProgressPercentage reports actual hours against the estimate, capped at
// 100. Tasks without a positive estimate report 0.
func (t Task) ProgressPercentage() float64 {
	if t.EstimatedHours == nil || *t.EstimatedHours <= 0 {
		return 0
	}

	progress := t.ActualHours / *t.EstimatedHours * 100

	if progress > 100 {
		return 100
	}

	return progress
}

type TaskTimeEntry struct {
	BaseModel

	TaskID          uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	StartTime       time.Time `gorm:"not null"`
	EndTime         *time.Time
	DurationMinutes int `gorm:"default:0"`
	Description     string

	// Linked monitoring data
	ActivityScore   float64 `gorm:"default:0"`
	ScreenshotCount int     `gorm:"default:0"`

	// Relationships
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
