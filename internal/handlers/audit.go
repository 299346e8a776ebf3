package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/aswathiir/worksyncpluspro/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID           uuid.UUID              `json:"id"`
	UserID       *uuid.UUID             `json:"user_id"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   *uuid.UUID             `json:"resource_id"`
	Description  string                 `json:"description"`
	IPAddress    string                 `json:"ip_address"`
	UserAgent    string                 `json:"user_agent"`
	OldValues    map[string]interface{} `json:"old_values"`
	NewValues    map[string]interface{} `json:"new_values"`
	CreatedAt    time.Time              `json:"created_at"`
}

func auditLogResponse(entry models.AuditLog) AuditLogResponse {
	response := AuditLogResponse{
		ID:           entry.ID,
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Description:  entry.Description,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		CreatedAt:    entry.CreatedAt,
	}

	if len(entry.OldValues) > 0 {
		_ = json.Unmarshal(entry.OldValues, &response.OldValues)
	}

	if len(entry.NewValues) > 0 {
		_ = json.Unmarshal(entry.NewValues, &response.NewValues)
	}

	return response
}

// ListAuditLogs is staff-only. Supports optional action and resource_type
// query filters.
func ListAuditLogs(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if !currentUser.IsStaff {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
		return
	}

	query := db.DB.Model(&models.AuditLog{})

	if action := ctx.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	if resourceType := ctx.Query("resource_type"); resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}

	var entries []models.AuditLog

	if err := query.Order("created_at DESC").Limit(200).Find(&entries).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	response := make([]AuditLogResponse, 0, len(entries))

	for _, entry := range entries {
		response = append(response, auditLogResponse(entry))
	}

	ctx.JSON(http.StatusOK, response)
}
