package handlers

import (
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

type CreateTaskRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	TeamID         uuid.UUID  `json:"team_id" binding:"required"`
	AssigneeID     *uuid.UUID `json:"assignee_id"`
	EstimatedHours *float64   `json:"estimated_hours"`
	DueDate        *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssigneeID     *uuid.UUID `json:"assignee_id"`
	EstimatedHours *float64   `json:"estimated_hours"`
	DueDate        *time.Time `json:"due_date"`
}

type StopWorkRequest struct {
	TimeEntryID uuid.UUID `json:"time_entry_id" binding:"required"`
}

type TaskTeamSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type TaskResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Status             string              `json:"status"`
	Priority           string              `json:"priority"`
	Assignee           *types.UserResponse `json:"assignee"`
	Reporter           types.UserResponse  `json:"reporter"`
	Team               TaskTeamSummary     `json:"team"`
	EstimatedHours     *float64            `json:"estimated_hours"`
	ActualHours        float64             `json:"actual_hours"`
	ProgressPercentage float64             `json:"progress_percentage"`
	DueDate            *time.Time          `json:"due_date"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	CompletedAt        *time.Time          `json:"completed_at"`
}

func taskResponse(task models.Task) TaskResponse {
	response := TaskResponse{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		Status:             task.Status,
		Priority:           task.Priority,
		Reporter:           userResponse(task.Reporter),
		Team:               TaskTeamSummary{ID: task.TeamID, Name: task.Team.Name},
		EstimatedHours:     task.EstimatedHours,
		ActualHours:        task.ActualHours,
		ProgressPercentage: task.ProgressPercentage(),
		DueDate:            task.DueDate,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
		CompletedAt:        task.CompletedAt,
	}

	if task.Assignee != nil {
		assignee := userResponse(*task.Assignee)
		response.Assignee = &assignee
	}

	return response
}

func preloadTask(query *gorm.DB) *gorm.DB {
	return query.Preload("Assignee").Preload("Reporter").Preload("Team")
}

func findScopedTask(ctx *gin.Context) (models.Task, bool) {
	var task models.Task

	taskID, err := utils.GetUUIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return task, false
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return task, false
	}

	if err := preloadTask(scope.Tasks(currentUser)).Where("tasks.id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return task, false
	}

	return task, true
}

func CreateTask(ctx *gin.Context) {
	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// The reporter must be able to see the team they file the task under.
	var team models.Team

	if err := scope.Teams(currentUser).Where("teams.id = ?", body.TeamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team"})
		}
		return
	}

	priority := body.Priority

	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := models.Task{
		Title:          body.Title,
		Description:    body.Description,
		Status:         models.TaskStatusTodo,
		Priority:       priority,
		AssigneeID:     body.AssigneeID,
		ReporterID:     currentUser.ID,
		TeamID:         body.TeamID,
		EstimatedHours: body.EstimatedHours,
		DueDate:        body.DueDate,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	// Let the assignee know.
	if task.AssigneeID != nil && *task.AssigneeID != currentUser.ID {
		notification := models.Notification{
			RecipientID:       *task.AssigneeID,
			NotificationType:  models.NotificationTaskAssigned,
			Title:             "Task assigned",
			Message:           currentUser.Name + " assigned you " + task.Title,
			RelatedObjectID:   &task.ID,
			RelatedObjectType: "task",
		}

		if err := db.DB.Create(&notification).Error; err != nil {
			log.Printf("Failed to create assignment notification: %v", err)
		}
	}

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       models.AuditActionCreate,
		ResourceType: "task",
		ResourceID:   &task.ID,
		Description:  "Created task " + task.Title,
		NewValues:    gin.H{"title": task.Title, "team_id": task.TeamID, "priority": task.Priority},
	})

	if err := preloadTask(db.DB).First(&task, "id = ?", task.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

func ListTasks(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := preloadTask(scope.Tasks(currentUser))

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task

	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, taskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTask(ctx *gin.Context) {
	task, ok := findScopedTask(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func UpdateTask(ctx *gin.Context) {
	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, ok := findScopedTask(ctx)

	if !ok {
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)
	oldValues := gin.H{"title": task.Title, "status": task.Status, "priority": task.Priority}

	task.Title = body.Title
	task.Description = body.Description
	task.AssigneeID = body.AssigneeID
	task.EstimatedHours = body.EstimatedHours
	task.DueDate = body.DueDate

	if body.Priority != "" {
		task.Priority = body.Priority
	}

	if body.Status != "" && body.Status != task.Status {
		task.Status = body.Status

		if body.Status == models.TaskStatusDone {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	if err := db.DB.Save(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionUpdate,
		ResourceType: "task",
		ResourceID:   &task.ID,
		Description:  "Updated task " + task.Title,
		OldValues:    oldValues,
		NewValues:    gin.H{"title": task.Title, "status": task.Status, "priority": task.Priority},
	})

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func DeleteTask(ctx *gin.Context) {
	task, ok := findScopedTask(ctx)

	if !ok {
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)

	services.RecordAudit(ctx, services.AuditEntry{
		UserID:       &userID,
		Action:       models.AuditActionDelete,
		ResourceType: "task",
		ResourceID:   &task.ID,
		Description:  "Deleted task " + task.Title,
		OldValues:    gin.H{"title": task.Title, "status": task.Status},
	})

	ctx.Status(http.StatusNoContent)
}

// StartWork opens a time entry for the caller and promotes a todo task to
// in_progress.
func StartWork(ctx *gin.Context) {
	task, ok := findScopedTask(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entry := models.TaskTimeEntry{
		TaskID:    task.ID,
		UserID:    userID,
		StartTime: time.Now(),
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to create time entry: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start work"})
		return
	}

	if task.Status == models.TaskStatusTodo {
		if err := db.DB.Model(&task).Update("status", models.TaskStatusInProgress).Error; err != nil {
			log.Printf("Failed to update task status: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start work"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Work started", "time_entry_id": entry.ID})
}

// StopWork closes the caller's open time entry and folds the elapsed time
// into the task's actual hours. The close and the accumulation run in one
// transaction, and the open-entry check is atomic with the close so a
// concurrent duplicate stop cannot double-count the duration.
func StopWork(ctx *gin.Context) {
	var body StopWorkRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "time_entry_id is required"})
		return
	}

	task, ok := findScopedTask(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	now := time.Now()
	var durationMinutes int

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var entry models.TaskTimeEntry

		if err := tx.Where("id = ? AND task_id = ? AND user_id = ? AND end_time IS NULL",
			body.TimeEntryID, task.ID, userID).First(&entry).Error; err != nil {
			return err
		}

		durationMinutes = int(now.Sub(entry.StartTime).Minutes())

		result := tx.Model(&models.TaskTimeEntry{}).
			Where("id = ? AND end_time IS NULL", entry.ID).
			Updates(map[string]interface{}{
				"end_time":         now,
				"duration_minutes": durationMinutes,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", task.ID).
			Update("actual_hours", gorm.Expr("actual_hours + ?", float64(durationMinutes)/60)).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Time entry not found"})
			return
		}
		log.Printf("Failed to stop work on task %s: %v", task.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stop work"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Work stopped", "duration_minutes": durationMinutes})
}
