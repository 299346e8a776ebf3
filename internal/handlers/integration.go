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
	"github.com/aswathiir/worksyncpluspro/internal/services"
	"github.com/aswathiir/worksyncpluspro/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateIntegrationRequest struct {
	OrganizationID  uuid.UUID              `json:"organization_id" binding:"required"`
	IntegrationType string                 `json:"integration_type" binding:"required"`
	Name            string                 `json:"name" binding:"required"`
	Config          map[string]interface{} `json:"config"`
	Credentials     map[string]interface{} `json:"credentials"`
}

type UpdateIntegrationRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Config      map[string]interface{} `json:"config"`
	Credentials map[string]interface{} `json:"credentials"`
	IsActive    *bool                  `json:"is_active"`
}

// IntegrationResponse deliberately omits credentials.
type IntegrationResponse struct {
	ID              uuid.UUID              `json:"id"`
	OrganizationID  uuid.UUID              `json:"organization_id"`
	IntegrationType string                 `json:"integration_type"`
	Name            string                 `json:"name"`
	Config          map[string]interface{} `json:"config"`
	IsActive        bool                   `json:"is_active"`
	LastSync        *time.Time             `json:"last_sync"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func integrationResponse(integration models.Integration) IntegrationResponse {
	config := make(map[string]interface{})

	if len(integration.Config) > 0 {
		if err := json.Unmarshal(integration.Config, &config); err != nil {
			log.Printf("Failed to parse config for integration %s: %v", integration.ID, err)
		}
	}

	return IntegrationResponse{
		ID:              integration.ID,
		OrganizationID:  integration.OrganizationID,
		IntegrationType: integration.IntegrationType,
		Name:            integration.Name,
		Config:          config,
		IsActive:        integration.IsActive,
		LastSync:        integration.LastSync,
		CreatedAt:       integration.CreatedAt,
		UpdatedAt:       integration.UpdatedAt,
	}
}

func findScopedIntegration(ctx *gin.Context) (models.Integration, bool) {
	var integration models.Integration

	integrationID, err := utils.GetUUIDParam(ctx, "integration_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return integration, false
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return integration, false
	}

	if err := scope.Integrations(currentUser).
		Where("integrations.id = ?", integrationID).First(&integration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Integration not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve integration"})
		}
		return integration, false
	}

	return integration, true
}

func marshalJSONField(values map[string]interface{}) datatypes.JSON {
	if values == nil {
		return nil
	}

	data, err := json.Marshal(values)

	if err != nil {
		return nil
	}

	return datatypes.JSON(data)
}

func CreateIntegration(ctx *gin.Context) {
	var body CreateIntegrationRequest

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

	integration := models.Integration{
		OrganizationID:  body.OrganizationID,
		IntegrationType: body.IntegrationType,
		Name:            body.Name,
		Config:          marshalJSONField(body.Config),
		Credentials:     marshalJSONField(body.Credentials),
		IsActive:        true,
	}

	if err := db.DB.Create(&integration).Error; err != nil {
		log.Printf("Failed to create integration: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create integration"})
		return
	}

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionCreate,
		ResourceType: "integration",
		ResourceID:   &integration.ID,
		Description:  "Created " + integration.IntegrationType + " integration " + integration.Name,
		NewValues:    gin.H{"name": integration.Name, "integration_type": integration.IntegrationType},
	})

	ctx.JSON(http.StatusCreated, integrationResponse(integration))
}

func ListIntegrations(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var integrations []models.Integration

	if err := scope.Integrations(currentUser).Find(&integrations).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve integrations"})
		return
	}

	response := make([]IntegrationResponse, 0, len(integrations))

	for _, integration := range integrations {
		response = append(response, integrationResponse(integration))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetIntegration(ctx *gin.Context) {
	integration, ok := findScopedIntegration(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, integrationResponse(integration))
}

func UpdateIntegration(ctx *gin.Context) {
	var body UpdateIntegrationRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	integration, ok := findScopedIntegration(ctx)

	if !ok {
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)
	oldValues := gin.H{"name": integration.Name, "is_active": integration.IsActive}

	integration.Name = body.Name

	if body.Config != nil {
		integration.Config = marshalJSONField(body.Config)
	}

	if body.Credentials != nil {
		integration.Credentials = marshalJSONField(body.Credentials)
	}

	if body.IsActive != nil {
		integration.IsActive = *body.IsActive
	}

	if err := db.DB.Save(&integration).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update integration"})
		return
	}

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionUpdate,
		ResourceType: "integration",
		ResourceID:   &integration.ID,
		Description:  "Updated integration " + integration.Name,
		OldValues:    oldValues,
		NewValues:    gin.H{"name": integration.Name, "is_active": integration.IsActive},
	})

	ctx.JSON(http.StatusOK, integrationResponse(integration))
}

func DeleteIntegration(ctx *gin.Context) {
	integration, ok := findScopedIntegration(ctx)

	if !ok {
		return
	}

	if err := db.DB.Delete(&integration).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete integration"})
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionDelete,
		ResourceType: "integration",
		ResourceID:   &integration.ID,
		Description:  "Deleted integration " + integration.Name,
		OldValues:    gin.H{"name": integration.Name, "integration_type": integration.IntegrationType},
	})

	ctx.Status(http.StatusNoContent)
}
