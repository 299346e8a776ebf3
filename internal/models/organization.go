package models

type Organization struct {
	BaseModel

	Name        string `gorm:"not null"`
	Description string

	// Relationships
	Teams        []Team        `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Integrations []Integration `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
