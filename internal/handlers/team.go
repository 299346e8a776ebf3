package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/aswathiir/worksyncpluspro/internal/scope"
	"github.com/aswathiir/worksyncpluspro/internal/services"
	"github.com/aswathiir/worksyncpluspro/internal/types"
	"github.com/aswathiir/worksyncpluspro/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateTeamRequest struct {
	Name           string     `json:"name" binding:"required"`
	Description    string     `json:"description"`
	OrganizationID uuid.UUID  `json:"organization_id" binding:"required"`
	LeadID         *uuid.UUID `json:"lead_id"`
}

type UpdateTeamRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	LeadID      *uuid.UUID `json:"lead_id"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role"`
}

type MembershipResponse struct {
	User     types.UserResponse `json:"user"`
	Role     string             `json:"role"`
	JoinedAt time.Time          `json:"joined_at"`
}

type TeamResponse struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Organization OrganizationResponse `json:"organization"`
	Lead         *types.UserResponse  `json:"lead"`
	Memberships  []MembershipResponse `json:"memberships"`
	MemberCount  int                  `json:"member_count"`
	CreatedAt    time.Time            `json:"created_at"`
}

type ActivitySummaryResponse struct {
	TaskCompletionRate float64 `json:"task_completion_rate"`
	AvgProductivity    float64 `json:"avg_productivity"`
	MeetingAttendance  float64 `json:"meeting_attendance"`
	ChatActivity       int64   `json:"chat_activity"`
}

func teamResponse(team models.Team) TeamResponse {
	memberships := make([]MembershipResponse, 0, len(team.Memberships))

	for _, membership := range team.Memberships {
		memberships = append(memberships, MembershipResponse{
			User:     userResponse(membership.User),
			Role:     membership.Role,
			JoinedAt: membership.JoinedAt,
		})
	}

	response := TeamResponse{
		ID:           team.ID,
		Name:         team.Name,
		Description:  team.Description,
		Organization: organizationResponse(team.Organization),
		Memberships:  memberships,
		MemberCount:  len(memberships),
		CreatedAt:    team.CreatedAt,
	}

	if team.Lead != nil {
		lead := userResponse(*team.Lead)
		response.Lead = &lead
	}

	return response
}

func preloadTeam(query *gorm.DB) *gorm.DB {
	return query.Preload("Organization").Preload("Lead").Preload("Memberships.User")
}

func CreateTeam(ctx *gin.Context) {
	var body CreateTeamRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var org models.Organization

	if err := db.DB.First(&org, "id = ?", body.OrganizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organization"})
		}
		return
	}

	team := models.Team{
		Name:           body.Name,
		Description:    body.Description,
		OrganizationID: body.OrganizationID,
		LeadID:         body.LeadID,
	}

	if err := db.DB.Create(&team).Error; err != nil {
		log.Printf("Failed to create team: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	// The creator joins as admin so the team is visible to them.
	membership := models.TeamMembership{
		UserID:   userID,
		TeamID:   team.ID,
		Role:     models.RoleAdmin,
		JoinedAt: time.Now(),
	}

	if err := db.DB.Create(&membership).Error; err != nil {
		log.Printf("Failed to create team membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionCreate,
		ResourceType: "team",
		ResourceID:   &team.ID,
		Description:  "Created team " + team.Name,
		NewValues:    gin.H{"name": team.Name, "organization_id": team.OrganizationID},
	})

	if err := preloadTeam(db.DB).First(&team, "id = ?", team.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team"})
		return
	}

	ctx.JSON(http.StatusCreated, teamResponse(team))
}

func ListTeams(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var teams []models.Team

	if err := preloadTeam(scope.Teams(currentUser)).Find(&teams).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve teams"})
		return
	}

	response := make([]TeamResponse, 0, len(teams))

	for _, team := range teams {
		response = append(response, teamResponse(team))
	}

	ctx.JSON(http.StatusOK, response)
}

func findScopedTeam(ctx *gin.Context) (models.Team, bool) {
	var team models.Team

	teamID, err := utils.GetUUIDParam(ctx, "team_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return team, false
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return team, false
	}

	if err := preloadTeam(scope.Teams(currentUser)).Where("teams.id = ?", teamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team"})
		}
		return team, false
	}

	return team, true
}

func GetTeam(ctx *gin.Context) {
	team, ok := findScopedTeam(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, teamResponse(team))
}

func UpdateTeam(ctx *gin.Context) {
	var body UpdateTeamRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	team, ok := findScopedTeam(ctx)

	if !ok {
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)
	oldValues := gin.H{"name": team.Name, "description": team.Description}

	team.Name = body.Name
	team.Description = body.Description
	team.LeadID = body.LeadID

	if err := db.DB.Save(&team).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team"})
		return
	}

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionUpdate,
		ResourceType: "team",
		ResourceID:   &team.ID,
		Description:  "Updated team " + team.Name,
		OldValues:    oldValues,
		NewValues:    gin.H{"name": team.Name, "description": team.Description},
	})

	ctx.JSON(http.StatusOK, teamResponse(team))
}

func DeleteTeam(ctx *gin.Context) {
	team, ok := findScopedTeam(ctx)

	if !ok {
		return
	}

	if err := db.DB.Delete(&team).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team"})
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionDelete,
		ResourceType: "team",
		ResourceID:   &team.ID,
		Description:  "Deleted team " + team.Name,
		OldValues:    gin.H{"name": team.Name},
	})

	ctx.Status(http.StatusNoContent)
}

func AddTeamMember(ctx *gin.Context) {
	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	team, ok := findScopedTeam(ctx)

	if !ok {
		return
	}

	var user models.User

	if err := db.DB.First(&user, "id = ?", body.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	role := body.Role

	if role == "" {
		role = models.RoleMember
	}

	var existing models.TeamMembership

	err := db.DB.Where("user_id = ? AND team_id = ?", user.ID, team.ID).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}

	membership := models.TeamMembership{
		UserID:   user.ID,
		TeamID:   team.ID,
		Role:     role,
		JoinedAt: time.Now(),
	}

	if err := db.DB.Create(&membership).Error; err != nil {
		log.Printf("Failed to add team member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member added successfully"})
}

// GetTeamActivitySummary rolls up a team's last-N-days activity. Every rate
// returns 0 instead of dividing by zero.
func GetTeamActivitySummary(ctx *gin.Context) {
	team, ok := findScopedTeam(ctx)

	if !ok {
		return
	}

	days := parseDays(ctx, 7)
	start := windowStart(days)

	memberIDs := db.DB.Model(&models.TeamMembership{}).Select("user_id").Where("team_id = ?", team.ID)

	summary := ActivitySummaryResponse{
		TaskCompletionRate: taskCompletionRate(team.ID, start),
		AvgProductivity:    averageProductivity(memberIDs, start),
		MeetingAttendance:  meetingAttendanceRate(team.ID, start),
	}

	db.DB.Model(&models.ChatMessage{}).
		Joins("JOIN chat_channels ON chat_channels.id = chat_messages.channel_id").
		Where("chat_channels.team_id = ? AND chat_messages.created_at >= ?", team.ID, start).
		Count(&summary.ChatActivity)

	ctx.JSON(http.StatusOK, summary)
}

func taskCompletionRate(teamID uuid.UUID, start time.Time) float64 {
	var total, completed int64

	db.DB.Model(&models.Task{}).
		Where("team_id = ? AND created_at >= ?", teamID, start).
		Count(&total)

	if total == 0 {
		return 0
	}

	db.DB.Model(&models.Task{}).
		Where("team_id = ? AND status = ? AND completed_at >= ?", teamID, models.TaskStatusDone, start).
		Count(&completed)

	return float64(completed) / float64(total) * 100
}

func averageProductivity(userIDs *gorm.DB, start time.Time) float64 {
	var avg sql.NullFloat64

	db.DB.Model(&models.ActivityMetrics{}).
		Select("AVG(productivity_score)").
		Where("user_id IN (?) AND date >= ?", userIDs, start).
		Scan(&avg)

	if avg.Valid {
		return avg.Float64
	}

	return 0
}

func meetingAttendanceRate(teamID uuid.UUID, start time.Time) float64 {
	meetings := db.DB.Model(&models.Meeting{}).
		Select("id").
		Where("team_id = ? AND start_time >= ?", teamID, start)

	var invited, attended int64

	db.DB.Model(&models.MeetingAttendance{}).
		Where("meeting_id IN (?)", meetings).
		Count(&invited)

	if invited == 0 {
		return 0
	}

	db.DB.Model(&models.MeetingAttendance{}).
		Where("meeting_id IN (?) AND status = ?", meetings, models.AttendanceAttended).
		Count(&attended)

	return float64(attended) / float64(invited) * 100
}
