package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/aswathiir/worksyncpluspro/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type InviteToProjectRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func projectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
	}
}

func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := models.Project{
		Name:        body.Name,
		Description: body.Description,
		OwnerID:     userID,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	memberProjects := db.DB.Model(&models.ProjectMembership{}).
		Select("project_id").
		Where("user_id = ?", userID)

	var projects []models.Project

	if err := db.DB.Where("owner_id = ? OR id IN (?)", userID, memberProjects).
		Find(&projects).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, projectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

// InviteToProject issues an invitation token and a project_invitation
// notification carrying it. Only the project owner can invite.
func InviteToProject(ctx *gin.Context) {
	var body InviteToProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	projectID, err := utils.GetUUIDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	if project.OwnerID != currentUser.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can invite members"})
		return
	}

	var invitee models.User

	if err := db.DB.First(&invitee, "id = ?", body.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	var notification models.Notification

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		token := models.ProjectInvitationToken{
			Key:         uuid.NewString(),
			ProjectID:   project.ID,
			ManagerID:   currentUser.ID,
			NewMemberID: invitee.ID,
		}

		if err := tx.Create(&token).Error; err != nil {
			return err
		}

		notification = models.Notification{
			RecipientID:       invitee.ID,
			NotificationType:  models.NotificationProjectInvitation,
			Title:             "Project invitation",
			Message:           currentUser.Name + " invited you to join " + project.Name,
			ProjectID:         &project.ID,
			InvitationTokenID: &token.ID,
		}

		return tx.Create(&notification).Error
	})

	if err != nil {
		log.Printf("Failed to create invitation for project %s: %v", project.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":         "Invitation sent",
		"notification_id": notification.ID,
	})
}
