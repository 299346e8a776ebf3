package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	NotificationTaskAssigned      = "task_assigned"
	NotificationTaskCompleted     = "task_completed"
	NotificationMeetingReminder   = "meeting_reminder"
	NotificationChatMention       = "chat_mention"
	NotificationActivityAlert     = "activity_alert"
	NotificationProjectInvitation = "project_invitation"
	NotificationSystem            = "system"
)

type Notification struct {
	BaseModel

	RecipientID      uuid.UUID `gorm:"type:uuid;not null;index"`
	NotificationType string    `gorm:"not null"`
	Title            string    `gorm:"not null"`
	Message          string

	IsRead bool `gorm:"default:false"`
	ReadAt *time.Time

	// Project invitations
	ProjectID         *uuid.UUID `gorm:"type:uuid;index"`
	InvitationTokenID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	// Links and actions
	RelatedObjectID   *uuid.UUID `gorm:"type:uuid"`
	RelatedObjectType string
	ActionURL         string

	Data datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Recipient       User                    `gorm:"foreignKey:RecipientID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project         *Project                `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	InvitationToken *ProjectInvitationToken `gorm:"foreignKey:InvitationTokenID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
