package models

import "github.com/google/uuid"

// Project and its invitation tokens are owned by a separate projects
// module; they are modeled here only as far as invitation acceptance
// needs them.
type Project struct {
	BaseModel

	Name        string `gorm:"not null"`
	Description string
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`

	// Relationships
	Owner       User                `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []ProjectMembership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type ProjectMembership struct {
	BaseModel

	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_project"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_project"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type ProjectInvitationToken struct {
	BaseModel

	Key         string    `gorm:"uniqueIndex;not null"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ManagerID   uuid.UUID `gorm:"type:uuid;not null"`
	NewMemberID uuid.UUID `gorm:"type:uuid;not null"`
	Accepted    bool      `gorm:"default:false"`

	// Relationships
	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Manager   User    `gorm:"foreignKey:ManagerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	NewMember User    `gorm:"foreignKey:NewMemberID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
