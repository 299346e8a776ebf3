package models

type User struct {
	BaseModel

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsStaff      bool   `gorm:"default:false"`

	// Relationships
	TeamMemberships []TeamMembership  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTasks   []Task            `gorm:"foreignKey:AssigneeID"`
	ReportedTasks   []Task            `gorm:"foreignKey:ReporterID"`
	Notifications   []Notification    `gorm:"foreignKey:RecipientID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ActivityMetrics []ActivityMetrics `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
