package db

import (
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Organization{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Task{},
		&models.TaskTimeEntry{},
		&models.ChatChannel{},
		&models.ChatMessage{},
		&models.Meeting{},
		&models.MeetingAttendance{},
		&models.Project{},
		&models.ProjectMembership{},
		&models.ProjectInvitationToken{},
		&models.Notification{},
		&models.ActivityMetrics{},
		&models.Integration{},
		&models.AuditLog{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
