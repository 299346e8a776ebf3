package services

import (
	"encoding/json"
	"log"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditEntry struct {
	UserID       *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	Description  string
	OldValues    interface{}
	NewValues    interface{}
}

// RecordAudit appends an audit row. Audit failures are logged and never
// surfaced to the caller.
func RecordAudit(ctx *gin.Context, entry AuditEntry) {
	row := models.AuditLog{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Description:  entry.Description,
		OldValues:    marshalValues(entry.OldValues),
		NewValues:    marshalValues(entry.NewValues),
	}

	if ctx != nil {
		row.IPAddress = ctx.ClientIP()
		row.UserAgent = ctx.Request.UserAgent()
	}

	if err := db.DB.Create(&row).Error; err != nil {
		log.Printf("Failed to write audit log (%s %s): %v", entry.Action, entry.ResourceType, err)
	}
}

func marshalValues(values interface{}) datatypes.JSON {
	if values == nil {
		return nil
	}

	data, err := json.Marshal(values)

	if err != nil {
		log.Printf("Failed to marshal audit values: %v", err)
		return nil
	}

	return datatypes.JSON(data)
}
