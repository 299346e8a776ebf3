package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/aswathiir/worksyncpluspro/internal/services"
	"github.com/aswathiir/worksyncpluspro/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type OrganizationResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TeamCount   int64     `json:"team_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrganizationStatsResponse struct {
	Teams                int64   `json:"teams"`
	TotalMembers         int64   `json:"total_members"`
	ActiveTasks          int64   `json:"active_tasks"`
	CompletedTasks30d    int64   `json:"completed_tasks_30d"`
	Meetings30d          int64   `json:"meetings_30d"`
	AvgProductivityScore float64 `json:"avg_productivity_score"`
}

func organizationResponse(org models.Organization) OrganizationResponse {
	var teamCount int64
	db.DB.Model(&models.Team{}).Where("organization_id = ?", org.ID).Count(&teamCount)

	return OrganizationResponse{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		TeamCount:   teamCount,
		CreatedAt:   org.CreatedAt,
	}
}

func CreateOrganization(ctx *gin.Context) {
	var body CreateOrganizationRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	org := models.Organization{
		Name:        body.Name,
		Description: body.Description,
	}

	if err := db.DB.Create(&org).Error; err != nil {
		log.Printf("Failed to create organization: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
		return
	}

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionCreate,
		ResourceType: "organization",
		ResourceID:   &org.ID,
		Description:  "Created organization " + org.Name,
		NewValues:    gin.H{"name": org.Name, "description": org.Description},
	})

	ctx.JSON(http.StatusCreated, organizationResponse(org))
}

func ListOrganizations(ctx *gin.Context) {
	var orgs []models.Organization

	if err := db.DB.Find(&orgs).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organizations"})
		return
	}

	response := make([]OrganizationResponse, 0, len(orgs))

	for _, org := range orgs {
		response = append(response, organizationResponse(org))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetOrganization(ctx *gin.Context) {
	orgID, err := utils.GetUUIDParam(ctx, "org_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var org models.Organization

	if err := db.DB.First(&org, "id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organization"})
		}
		return
	}

	ctx.JSON(http.StatusOK, organizationResponse(org))
}

func UpdateOrganization(ctx *gin.Context) {
	orgID, err := utils.GetUUIDParam(ctx, "org_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateOrganizationRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var org models.Organization

	if err := db.DB.First(&org, "id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organization"})
		}
		return
	}

	oldValues := gin.H{"name": org.Name, "description": org.Description}

	org.Name = body.Name
	org.Description = body.Description

	if err := db.DB.Save(&org).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update organization"})
		return
	}

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionUpdate,
		ResourceType: "organization",
		ResourceID:   &org.ID,
		Description:  "Updated organization " + org.Name,
		OldValues:    oldValues,
		NewValues:    gin.H{"name": org.Name, "description": org.Description},
	})

	ctx.JSON(http.StatusOK, organizationResponse(org))
}

func DeleteOrganization(ctx *gin.Context) {
	orgID, err := utils.GetUUIDParam(ctx, "org_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var org models.Organization

	if err := db.DB.First(&org, "id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organization"})
		}
		return
	}

	if err := db.DB.Delete(&org).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete organization"})
		return
	}

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionDelete,
		ResourceType: "organization",
		ResourceID:   &org.ID,
		Description:  "Deleted organization " + org.Name,
		OldValues:    gin.H{"name": org.Name, "description": org.Description},
	})

	ctx.Status(http.StatusNoContent)
}

// GetOrganizationDashboardStats aggregates the last 30 days of activity
// across an organization's teams.
func GetOrganizationDashboardStats(ctx *gin.Context) {
	orgID, err := utils.GetUUIDParam(ctx, "org_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var org models.Organization

	if err := db.DB.First(&org, "id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organization"})
		}
		return
	}

	days := parseDays(ctx, 30)
	start := windowStart(days)

	orgTeams := db.DB.Model(&models.Team{}).Select("id").Where("organization_id = ?", org.ID)

	var stats OrganizationStatsResponse

	db.DB.Model(&models.Team{}).Where("organization_id = ?", org.ID).Count(&stats.Teams)

	db.DB.Model(&models.TeamMembership{}).Where("team_id IN (?)", orgTeams).Count(&stats.TotalMembers)

	db.DB.Model(&models.Task{}).
		Where("team_id IN (?) AND status IN ?", orgTeams, []string{models.TaskStatusTodo, models.TaskStatusInProgress}).
		Count(&stats.ActiveTasks)

	db.DB.Model(&models.Task{}).
		Where("team_id IN (?) AND status = ? AND completed_at >= ?", orgTeams, models.TaskStatusDone, start).
		Count(&stats.CompletedTasks30d)

	db.DB.Model(&models.Meeting{}).
		Where("team_id IN (?) AND start_time >= ?", orgTeams, start).
		Count(&stats.Meetings30d)

	memberIDs := db.DB.Model(&models.TeamMembership{}).Select("user_id").Where("team_id IN (?)", orgTeams)
	stats.AvgProductivityScore = averageProductivity(memberIDs, start)

	ctx.JSON(http.StatusOK, stats)
}
