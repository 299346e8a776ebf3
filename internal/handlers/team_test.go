package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeamEnrollsCreatorAsAdmin(t *testing.T) {
	engine := setupTest(t)

	creator := createUser(t, "Creator", "creator@example.com", false)
	org := createOrganization(t, "Acme")

	w := doRequest(t, engine, creator, "POST", "/api/collaboration/teams", gin.H{
		"name":            "Platform",
		"organization_id": org.ID,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["member_count"])

	var membership models.TeamMembership
	require.NoError(t, db.DB.Where("user_id = ?", creator.ID).First(&membership).Error)
	assert.Equal(t, models.RoleAdmin, membership.Role)
}

func TestTeamsScopedToMembership(t *testing.T) {
	engine := setupTest(t)

	member := createUser(t, "Member", "member@example.com", false)
	outsider := createUser(t, "Outsider", "outsider@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", member)

	w := doRequest(t, engine, member, "GET", "/api/collaboration/teams", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	w = doRequest(t, engine, outsider, "GET", "/api/collaboration/teams", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))

	w = doRequest(t, engine, outsider, "GET", "/api/collaboration/teams/"+team.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddTeamMemberRejectsDuplicate(t *testing.T) {
	engine := setupTest(t)

	member := createUser(t, "Member", "member@example.com", false)
	newcomer := createUser(t, "Newcomer", "newcomer@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", member)

	path := "/api/collaboration/teams/" + team.ID.String() + "/add-member"

	w := doRequest(t, engine, member, "POST", path, gin.H{"user_id": newcomer.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, member, "POST", path, gin.H{"user_id": newcomer.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User is already a member", decodeBody(t, w)["error"])
}

func TestActivitySummaryEmptyTeamReportsZeroes(t *testing.T) {
	engine := setupTest(t)

	member := createUser(t, "Member", "member@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", member)

	w := doRequest(t, engine, member, "GET",
		"/api/collaboration/teams/"+team.ID.String()+"/activity-summary", nil)

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 0, body["task_completion_rate"])
	assert.EqualValues(t, 0, body["avg_productivity"])
	assert.EqualValues(t, 0, body["meeting_attendance"])
	assert.EqualValues(t, 0, body["chat_activity"])
}

func TestActivitySummaryRates(t *testing.T) {
	engine := setupTest(t)

	member := createUser(t, "Member", "member@example.com", false)
	org := createOrganization(t, "Acme")
	team := createTeam(t, org, "Core", member)

	now := time.Now()

	// Two tasks in the window, one completed.
	done := models.Task{
		Title:       "Done",
		Status:      models.TaskStatusDone,
		Priority:    models.TaskPriorityMedium,
		ReporterID:  member.ID,
		TeamID:      team.ID,
		CompletedAt: &now,
	}
	require.NoError(t, db.DB.Create(&done).Error)

	open := models.Task{
		Title:      "Open",
		Status:     models.TaskStatusTodo,
		Priority:   models.TaskPriorityMedium,
		ReporterID: member.ID,
		TeamID:     team.ID,
	}
	require.NoError(t, db.DB.Create(&open).Error)

	// One meeting with one attended and one invited row.
	other := createUser(t, "Other", "other@example.com", false)

	meeting := models.Meeting{
		Title:       "Standup",
		Status:      models.MeetingStatusCompleted,
		StartTime:   now,
		EndTime:     now.Add(time.Hour),
		OrganizerID: member.ID,
		TeamID:      &team.ID,
	}
	require.NoError(t, db.DB.Create(&meeting).Error)

	attended := models.MeetingAttendance{
		MeetingID: meeting.ID,
		UserID:    member.ID,
		Status:    models.AttendanceAttended,
	}
	require.NoError(t, db.DB.Create(&attended).Error)

	invited := models.MeetingAttendance{
		MeetingID: meeting.ID,
		UserID:    other.ID,
		Status:    models.AttendanceInvited,
	}
	require.NoError(t, db.DB.Create(&invited).Error)

	// Productivity metrics for the member.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	metrics := models.ActivityMetrics{
		UserID:            member.ID,
		Date:              today,
		ProductivityScore: 0.8,
	}
	require.NoError(t, db.DB.Create(&metrics).Error)

	w := doRequest(t, engine, member, "GET",
		"/api/collaboration/teams/"+team.ID.String()+"/activity-summary", nil)

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.InDelta(t, 50.0, body["task_completion_rate"], 0.01)
	assert.InDelta(t, 50.0, body["meeting_attendance"], 0.01)
	assert.InDelta(t, 0.8, body["avg_productivity"], 0.01)
}
