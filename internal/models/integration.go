package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	IntegrationZoom           = "zoom"
	IntegrationSlack          = "slack"
	IntegrationGitHub         = "github"
	IntegrationJira           = "jira"
	IntegrationGoogleCalendar = "google_calendar"
)

type Integration struct {
	BaseModel

	OrganizationID  uuid.UUID `gorm:"type:uuid;not null;index"`
	IntegrationType string    `gorm:"not null"`
	Name            string    `gorm:"not null"`

	// Configuration. Credentials are sensitive and never serialized to
	// API responses.
	Config      datatypes.JSON `gorm:"type:jsonb"`
	Credentials datatypes.JSON `gorm:"type:jsonb"`

	IsActive bool `gorm:"default:true"`
	LastSync *time.Time

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
