// Package scope implements the shared list-visibility rule: staff
// principals see every row of a resource, everyone else sees only rows
// reached through one of the resource's user relations.
package scope

import (
	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/middleware"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memberTeamIDs is the subquery of team IDs the user belongs to.
func memberTeamIDs(userID uuid.UUID) *gorm.DB {
	return db.DB.Model(&models.TeamMembership{}).
		Select("team_id").
		Where("user_id = ?", userID)
}

// Teams scopes teams to membership.
func Teams(user middleware.AuthenticatedUser) *gorm.DB {
	query := db.DB.Model(&models.Team{})

	if user.IsStaff {
		return query
	}

	return query.Where("id IN (?)", memberTeamIDs(user.ID))
}

// Tasks scopes tasks to assignee OR reporter OR team member.
func Tasks(user middleware.AuthenticatedUser) *gorm.DB {
	query := db.DB.Model(&models.Task{})

	if user.IsStaff {
		return query
	}

	return query.Where(
		"assignee_id = ? OR reporter_id = ? OR team_id IN (?)",
		user.ID, user.ID, memberTeamIDs(user.ID),
	)
}

// Meetings scopes meetings to organizer OR attendee OR team member.
func Meetings(user middleware.AuthenticatedUser) *gorm.DB {
	query := db.DB.Model(&models.Meeting{})

	if user.IsStaff {
		return query
	}

	attending := db.DB.Model(&models.MeetingAttendance{}).
		Select("meeting_id").
		Where("user_id = ?", user.ID)

	return query.Where(
		"organizer_id = ? OR id IN (?) OR team_id IN (?)",
		user.ID, attending, memberTeamIDs(user.ID),
	)
}

// ChatChannels scopes channels to membership. There is no staff bypass:
// private conversations stay private.
func ChatChannels(user middleware.AuthenticatedUser) *gorm.DB {
	memberChannels := db.DB.Table("channel_members").
		Select("chat_channel_id").
		Where("user_id = ?", user.ID)

	return db.DB.Model(&models.ChatChannel{}).
		Where("id IN (?)", memberChannels)
}

// Notifications scopes notifications to the recipient, staff included.
func Notifications(user middleware.AuthenticatedUser) *gorm.DB {
	return db.DB.Model(&models.Notification{}).
		Where("recipient_id = ?", user.ID)
}

// ActivityMetrics scopes metrics to the owning user.
func ActivityMetrics(user middleware.AuthenticatedUser) *gorm.DB {
	query := db.DB.Model(&models.ActivityMetrics{})

	if user.IsStaff {
		return query
	}

	return query.Where("user_id = ?", user.ID)
}

// Integrations scopes integrations to organizations the user belongs to
// through a team.
func Integrations(user middleware.AuthenticatedUser) *gorm.DB {
	query := db.DB.Model(&models.Integration{})

	if user.IsStaff {
		return query
	}

	memberOrgs := db.DB.Model(&models.Team{}).
		Select("organization_id").
		Where("id IN (?)", memberTeamIDs(user.ID))

	return query.Where("organization_id IN (?)", memberOrgs)
}
