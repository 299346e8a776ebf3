package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/aswathiir/worksyncpluspro/internal/scope"
	"github.com/aswathiir/worksyncpluspro/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// errInvitationAccepted distinguishes the precondition failure from store
// errors inside the acceptance transaction.
var errInvitationAccepted = errors.New("invitation has already been accepted")

type NotificationProjectPreview struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type NotificationInvitationPreview struct {
	Token    string `json:"token"`
	Accepted bool   `json:"accepted"`
}

type NotificationResponse struct {
	ID                uuid.UUID                      `json:"id"`
	NotificationType  string                         `json:"notification_type"`
	Title             string                         `json:"title"`
	Message           string                         `json:"message"`
	Project           *NotificationProjectPreview    `json:"project"`
	Invitation        *NotificationInvitationPreview `json:"invitation"`
	Data              map[string]interface{}         `json:"data"`
	IsRead            bool                           `json:"is_read"`
	ReadAt            *time.Time                     `json:"read_at"`
	CreatedAt         time.Time                      `json:"created_at"`
	RelatedObjectID   *uuid.UUID                     `json:"related_object_id"`
	RelatedObjectType string                         `json:"related_object_type"`
	ActionURL         string                         `json:"action_url"`
}

func notificationResponse(notification models.Notification) NotificationResponse {
	response := NotificationResponse{
		ID:                notification.ID,
		NotificationType:  notification.NotificationType,
		Title:             notification.Title,
		Message:           notification.Message,
		IsRead:            notification.IsRead,
		ReadAt:            notification.ReadAt,
		CreatedAt:         notification.CreatedAt,
		RelatedObjectID:   notification.RelatedObjectID,
		RelatedObjectType: notification.RelatedObjectType,
		ActionURL:         notification.ActionURL,
	}

	if len(notification.Data) > 0 {
		if err := json.Unmarshal(notification.Data, &response.Data); err != nil {
			log.Printf("Failed to parse notification data for %s: %v", notification.ID, err)
		}
	}

	if notification.Project != nil {
		response.Project = &NotificationProjectPreview{
			ID:   notification.Project.ID,
			Name: notification.Project.Name,
		}
	}

	if notification.InvitationToken != nil {
		response.Invitation = &NotificationInvitationPreview{
			Token:    notification.InvitationToken.Key,
			Accepted: notification.InvitationToken.Accepted,
		}
	}

	return response
}

func findOwnNotification(ctx *gin.Context) (models.Notification, bool) {
	var notification models.Notification

	notificationID, err := utils.GetUUIDParam(ctx, "notification_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return notification, false
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return notification, false
	}

	if err := scope.Notifications(currentUser).
		Preload("Project").Preload("InvitationToken").
		Where("notifications.id = ?", notificationID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notification"})
		}
		return notification, false
	}

	return notification, true
}

func ListNotifications(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var notifications []models.Notification

	if err := scope.Notifications(currentUser).
		Preload("Project").Preload("InvitationToken").
		Order("created_at DESC").Find(&notifications).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	response := make([]NotificationResponse, 0, len(notifications))

	for _, notification := range notifications {
		response = append(response, notificationResponse(notification))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetNotification(ctx *gin.Context) {
	notification, ok := findOwnNotification(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, notificationResponse(notification))
}

// MarkNotificationRead is idempotent: read_at is set exactly once.
func MarkNotificationRead(ctx *gin.Context) {
	notification, ok := findOwnNotification(ctx)

	if !ok {
		return
	}

	if !notification.IsRead {
		if err := markRead(db.DB, &notification); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func markRead(tx *gorm.DB, notification *models.Notification) error {
	now := time.Now()

	return tx.Model(notification).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func MarkAllNotificationsRead(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := db.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", currentUser.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()}).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// AcceptInvitation accepts a project invitation. Token acceptance, project
// membership, the read mark and the manager's confirmation are applied in
// one transaction so the invitation can never be half-accepted.
func AcceptInvitation(ctx *gin.Context) {
	notification, ok := findOwnNotification(ctx)

	if !ok {
		return
	}

	if notification.NotificationType != models.NotificationProjectInvitation {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "This notification is not a project invitation"})
		return
	}

	if notification.InvitationTokenID == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No invitation token found"})
		return
	}

	var project models.Project

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var token models.ProjectInvitationToken

		if err := tx.First(&token, "id = ?", *notification.InvitationTokenID).Error; err != nil {
			return err
		}

		if token.Accepted {
			return errInvitationAccepted
		}

		// The accepted check is atomic with the flip so a concurrent
		// accept cannot apply the side effects twice.
		result := tx.Model(&models.ProjectInvitationToken{}).
			Where("id = ? AND accepted = ?", token.ID, false).
			Update("accepted", true)

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return errInvitationAccepted
		}

		if err := tx.First(&project, "id = ?", token.ProjectID).Error; err != nil {
			return err
		}

		membership := models.ProjectMembership{
			UserID:    token.NewMemberID,
			ProjectID: token.ProjectID,
		}

		if err := tx.Where(models.ProjectMembership{
			UserID:    token.NewMemberID,
			ProjectID: token.ProjectID,
		}).FirstOrCreate(&membership).Error; err != nil {
			return err
		}

		if err := markRead(tx, &notification); err != nil {
			return err
		}

		var newMember models.User

		if err := tx.First(&newMember, "id = ?", token.NewMemberID).Error; err != nil {
			return err
		}

		data, _ := json.Marshal(gin.H{"accepted_by": newMember.Name})

		confirmation := models.Notification{
			RecipientID:      token.ManagerID,
			NotificationType: models.NotificationSystem,
			Title:            "Project Invitation Accepted",
			Message:          newMember.Name + " has accepted the invitation to join " + project.Name + ".",
			ProjectID:        &project.ID,
			Data:             datatypes.JSON(data),
		}

		return tx.Create(&confirmation).Error
	})

	if err != nil {
		if errors.Is(err, errInvitationAccepted) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invitation has already been accepted"})
			return
		}
		log.Printf("Failed to accept invitation for notification %s: %v", notification.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":      "You have successfully joined " + project.Name,
		"project_id":   project.ID,
		"project_name": project.Name,
	})
}
