package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ChannelTypeTeam    = "team"
	ChannelTypeProject = "project"
	ChannelTypeDirect  = "direct"
	ChannelTypeGeneral = "general"
)

type ChatChannel struct {
	BaseModel

	Name        string `gorm:"not null"`
	Description string
	ChannelType string     `gorm:"not null;default:team"`
	TeamID      *uuid.UUID `gorm:"type:uuid;index"`
	IsPrivate   bool       `gorm:"default:false"`

	// Relationships
	Team     *Team         `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members  []User        `gorm:"many2many:channel_members"`
	Messages []ChatMessage `gorm:"foreignKey:ChannelID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type ChatMessage struct {
	BaseModel

	ChannelID uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"not null"`

	// One level of threading
	ParentMessageID *uuid.UUID `gorm:"type:uuid;index"`

	IsEdited bool `gorm:"default:false"`
	EditedAt *time.Time

	// {emoji: [user ids]}
	Reactions datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Channel       ChatChannel   `gorm:"foreignKey:ChannelID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Sender        User          `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ParentMessage *ChatMessage  `gorm:"foreignKey:ParentMessageID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Replies       []ChatMessage `gorm:"foreignKey:ParentMessageID"`
}
