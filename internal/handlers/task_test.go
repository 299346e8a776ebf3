package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskNotifiesAssignee(t *testing.T) {
	engine := setupTest(t)

	reporter := createUser(t, "Reporter", "reporter@example.com", false)
	assignee := createUser(t, "Assignee", "assignee@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", reporter, assignee)

	w := doRequest(t, engine, reporter, "POST", "/api/collaboration/tasks", gin.H{
		"title":       "Ship the release",
		"team_id":     team.ID,
		"assignee_id": assignee.ID,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, models.TaskStatusTodo, body["status"])
	assert.Equal(t, models.TaskPriorityMedium, body["priority"])

	var notification models.Notification
	require.NoError(t, db.DB.Where("recipient_id = ?", assignee.ID).First(&notification).Error)
	assert.Equal(t, models.NotificationTaskAssigned, notification.NotificationType)
}

func TestCreateTaskRequiresVisibleTeam(t *testing.T) {
	engine := setupTest(t)

	outsider := createUser(t, "Outsider", "outsider@example.com", false)
	member := createUser(t, "Member", "member@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", member)

	w := doRequest(t, engine, outsider, "POST", "/api/collaboration/tasks", gin.H{
		"title":   "Sneaky task",
		"team_id": team.ID,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTasksStatusFilter(t *testing.T) {
	engine := setupTest(t)

	user := createUser(t, "Member", "member@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", user)

	for _, status := range []string{models.TaskStatusTodo, models.TaskStatusDone, models.TaskStatusDone} {
		task := models.Task{
			Title:      "Task " + status,
			Status:     status,
			Priority:   models.TaskPriorityMedium,
			ReporterID: user.ID,
			TeamID:     team.ID,
		}
		require.NoError(t, db.DB.Create(&task).Error)
	}

	w := doRequest(t, engine, user, "GET", "/api/collaboration/tasks?status=done", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)
}

func TestTaskHiddenFromUnrelatedUser(t *testing.T) {
	engine := setupTest(t)

	member := createUser(t, "Member", "member@example.com", false)
	unrelated := createUser(t, "Unrelated", "unrelated@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", member)

	task := models.Task{
		Title:      "Internal work",
		Status:     models.TaskStatusTodo,
		Priority:   models.TaskPriorityMedium,
		ReporterID: member.ID,
		TeamID:     team.ID,
	}
	require.NoError(t, db.DB.Create(&task).Error)

	w := doRequest(t, engine, unrelated, "GET", "/api/collaboration/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, engine, member, "GET", "/api/collaboration/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStaffSeesAllTasks(t *testing.T) {
	engine := setupTest(t)

	member := createUser(t, "Member", "member@example.com", false)
	staff := createUser(t, "Staff", "staff@example.com", true)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", member)

	task := models.Task{
		Title:      "Internal work",
		Status:     models.TaskStatusTodo,
		Priority:   models.TaskPriorityMedium,
		ReporterID: member.ID,
		TeamID:     team.ID,
	}
	require.NoError(t, db.DB.Create(&task).Error)

	w := doRequest(t, engine, staff, "GET", "/api/collaboration/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartWorkPromotesTodoTask(t *testing.T) {
	engine := setupTest(t)

	user := createUser(t, "Member", "member@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", user)

	task := models.Task{
		Title:      "Timed work",
		Status:     models.TaskStatusTodo,
		Priority:   models.TaskPriorityMedium,
		ReporterID: user.ID,
		TeamID:     team.ID,
	}
	require.NoError(t, db.DB.Create(&task).Error)

	w := doRequest(t, engine, user, "POST", "/api/collaboration/tasks/"+task.ID.String()+"/start-work", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["time_entry_id"])

	var reloaded models.Task
	require.NoError(t, db.DB.First(&reloaded, "id = ?", task.ID).Error)
	assert.Equal(t, models.TaskStatusInProgress, reloaded.Status)

	var entry models.TaskTimeEntry
	require.NoError(t, db.DB.Where("task_id = ?", task.ID).First(&entry).Error)
	assert.Nil(t, entry.EndTime)
}

func TestStopWorkAccumulatesActualHours(t *testing.T) {
	engine := setupTest(t)

	user := createUser(t, "Member", "member@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", user)

	estimate := 10.0

	task := models.Task{
		Title:          "Timed work",
		Status:         models.TaskStatusInProgress,
		Priority:       models.TaskPriorityMedium,
		ReporterID:     user.ID,
		TeamID:         team.ID,
		EstimatedHours: &estimate,
	}
	require.NoError(t, db.DB.Create(&task).Error)

	entry := models.TaskTimeEntry{
		TaskID:    task.ID,
		UserID:    user.ID,
		StartTime: time.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, db.DB.Create(&entry).Error)

	w := doRequest(t, engine, user, "POST", "/api/collaboration/tasks/"+task.ID.String()+"/stop-work", gin.H{
		"time_entry_id": entry.ID,
	})

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 120, body["duration_minutes"])

	var reloaded models.Task
	require.NoError(t, db.DB.First(&reloaded, "id = ?", task.ID).Error)
	assert.InDelta(t, 2.0, reloaded.ActualHours, 0.05)
	assert.InDelta(t, 20.0, reloaded.ProgressPercentage(), 0.5)

	var closed models.TaskTimeEntry
	require.NoError(t, db.DB.First(&closed, "id = ?", entry.ID).Error)
	require.NotNil(t, closed.EndTime)
	assert.Equal(t, 120, closed.DurationMinutes)
}

func TestStopWorkTwiceDoesNotDoubleCount(t *testing.T) {
	engine := setupTest(t)

	user := createUser(t, "Member", "member@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", user)

	task := models.Task{
		Title:      "Timed work",
		Status:     models.TaskStatusInProgress,
		Priority:   models.TaskPriorityMedium,
		ReporterID: user.ID,
		TeamID:     team.ID,
	}
	require.NoError(t, db.DB.Create(&task).Error)

	entry := models.TaskTimeEntry{
		TaskID:    task.ID,
		UserID:    user.ID,
		StartTime: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.DB.Create(&entry).Error)

	w := doRequest(t, engine, user, "POST", "/api/collaboration/tasks/"+task.ID.String()+"/stop-work", gin.H{
		"time_entry_id": entry.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var afterFirst models.Task
	require.NoError(t, db.DB.First(&afterFirst, "id = ?", task.ID).Error)

	w = doRequest(t, engine, user, "POST", "/api/collaboration/tasks/"+task.ID.String()+"/stop-work", gin.H{
		"time_entry_id": entry.ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var afterSecond models.Task
	require.NoError(t, db.DB.First(&afterSecond, "id = ?", task.ID).Error)
	assert.Equal(t, afterFirst.ActualHours, afterSecond.ActualHours)
}

func TestStopWorkUnknownEntry(t *testing.T) {
	engine := setupTest(t)

	user := createUser(t, "Member", "member@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", user)

	task := models.Task{
		Title:      "Timed work",
		Status:     models.TaskStatusTodo,
		Priority:   models.TaskPriorityMedium,
		ReporterID: user.ID,
		TeamID:     team.ID,
	}
	require.NoError(t, db.DB.Create(&task).Error)

	w := doRequest(t, engine, user, "POST", "/api/collaboration/tasks/"+task.ID.String()+"/stop-work", gin.H{
		"time_entry_id": uuid.New(),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTaskSetsAndClearsCompletedAt(t *testing.T) {
	engine := setupTest(t)

	user := createUser(t, "Member", "member@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", user)

	task := models.Task{
		Title:      "Finish me",
		Status:     models.TaskStatusInProgress,
		Priority:   models.TaskPriorityMedium,
		ReporterID: user.ID,
		TeamID:     team.ID,
	}
	require.NoError(t, db.DB.Create(&task).Error)

	w := doRequest(t, engine, user, "PUT", "/api/collaboration/tasks/"+task.ID.String(), gin.H{
		"title":  "Finish me",
		"status": models.TaskStatusDone,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var done models.Task
	require.NoError(t, db.DB.First(&done, "id = ?", task.ID).Error)
	require.NotNil(t, done.CompletedAt)

	w = doRequest(t, engine, user, "PUT", "/api/collaboration/tasks/"+task.ID.String(), gin.H{
		"title":  "Finish me",
		"status": models.TaskStatusInProgress,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reopened models.Task
	require.NoError(t, db.DB.First(&reopened, "id = ?", task.ID).Error)
	assert.Nil(t, reopened.CompletedAt)
}
