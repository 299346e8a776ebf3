package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleMember = "member"
	RoleLead   = "lead"
	RoleAdmin  = "admin"
)

type Team struct {
	BaseModel

	Name           string `gorm:"not null"`
	Description    string
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	LeadID         *uuid.UUID `gorm:"type:uuid"`

	// Relationships
	Organization Organization     `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Lead         *User            `gorm:"foreignKey:LeadID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Memberships  []TeamMembership `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks        []Task           `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type TeamMembership struct {
	BaseModel

	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_team"`
	TeamID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_team"`
	Role     string    `gorm:"not null;default:member"` // "member", "lead", "admin"
	JoinedAt time.Time `gorm:"not null"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Team Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
