package models

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionLogin  = "login"
	AuditActionLogout = "logout"
	AuditActionView   = "view"
)

// ErrAuditLogImmutable is returned by the GORM hooks below when code
// attempts to change an audit row after it has been written.
var ErrAuditLogImmutable = errors.New("audit logs are append-only")

type AuditLog struct {
	BaseModel

	UserID       *uuid.UUID `gorm:"type:uuid;index"`
	Action       string     `gorm:"not null"`
	ResourceType string     `gorm:"not null"`
	ResourceID   *uuid.UUID `gorm:"type:uuid"`

	// Details
	Description string
	IPAddress   string
	UserAgent   string

	// Changes
	OldValues datatypes.JSON `gorm:"type:jsonb"`
	NewValues datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

func (AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditLogImmutable
}

func (AuditLog) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditLogImmutable
}
