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

func createInvitation(t *testing.T, manager, invitee models.User) (models.Project, models.Notification) {
	t.Helper()

	project := models.Project{Name: "Apollo", OwnerID: manager.ID}
	require.NoError(t, db.DB.Create(&project).Error)

	token := models.ProjectInvitationToken{
		Key:         uuid.NewString(),
		ProjectID:   project.ID,
		ManagerID:   manager.ID,
		NewMemberID: invitee.ID,
	}
	require.NoError(t, db.DB.Create(&token).Error)

	notification := models.Notification{
		RecipientID:       invitee.ID,
		NotificationType:  models.NotificationProjectInvitation,
		Title:             "Project invitation",
		Message:           manager.Name + " invited you to join " + project.Name,
		ProjectID:         &project.ID,
		InvitationTokenID: &token.ID,
	}
	require.NoError(t, db.DB.Create(&notification).Error)

	return project, notification
}

func TestNotificationsScopedToRecipient(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)
	bob := createUser(t, "Bob", "bob@example.com", false)
	staff := createUser(t, "Staff", "staff@example.com", true)

	notification := models.Notification{
		RecipientID:      alice.ID,
		NotificationType: models.NotificationSystem,
		Title:            "Hello",
	}
	require.NoError(t, db.DB.Create(&notification).Error)

	w := doRequest(t, engine, alice, "GET", "/api/collaboration/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	w = doRequest(t, engine, bob, "GET", "/api/collaboration/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))

	// Staff have no bypass into other people's notifications.
	w = doRequest(t, engine, staff, "GET", "/api/collaboration/notifications/"+notification.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkNotificationReadIdempotent(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)

	notification := models.Notification{
		RecipientID:      alice.ID,
		NotificationType: models.NotificationSystem,
		Title:            "Hello",
	}
	require.NoError(t, db.DB.Create(&notification).Error)

	path := "/api/collaboration/notifications/" + notification.ID.String() + "/mark-read"

	w := doRequest(t, engine, alice, "POST", path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var first models.Notification
	require.NoError(t, db.DB.First(&first, "id = ?", notification.ID).Error)
	require.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)

	time.Sleep(10 * time.Millisecond)

	w = doRequest(t, engine, alice, "POST", path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var second models.Notification
	require.NoError(t, db.DB.First(&second, "id = ?", notification.ID).Error)
	require.NotNil(t, second.ReadAt)
	assert.True(t, second.ReadAt.Equal(*first.ReadAt), "read_at must not move on repeat calls")
}

func TestAcceptInvitation(t *testing.T) {
	engine := setupTest(t)

	manager := createUser(t, "Manager", "manager@example.com", false)
	invitee := createUser(t, "Invitee", "invitee@example.com", false)
	project, notification := createInvitation(t, manager, invitee)

	w := doRequest(t, engine, invitee, "POST",
		"/api/collaboration/notifications/"+notification.ID.String()+"/accept-invitation", nil)

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "You have successfully joined "+project.Name, body["message"])
	assert.Equal(t, project.Name, body["project_name"])

	var membership models.ProjectMembership
	require.NoError(t, db.DB.Where("user_id = ? AND project_id = ?", invitee.ID, project.ID).
		First(&membership).Error)

	var token models.ProjectInvitationToken
	require.NoError(t, db.DB.First(&token, "project_id = ?", project.ID).Error)
	assert.True(t, token.Accepted)

	var read models.Notification
	require.NoError(t, db.DB.First(&read, "id = ?", notification.ID).Error)
	assert.True(t, read.IsRead)

	var confirmation models.Notification
	require.NoError(t, db.DB.Where("recipient_id = ? AND notification_type = ?",
		manager.ID, models.NotificationSystem).First(&confirmation).Error)
	assert.Contains(t, confirmation.Message, invitee.Name)
}

func TestAcceptInvitationTwice(t *testing.T) {
	engine := setupTest(t)

	manager := createUser(t, "Manager", "manager@example.com", false)
	invitee := createUser(t, "Invitee", "invitee@example.com", false)
	project, notification := createInvitation(t, manager, invitee)

	path := "/api/collaboration/notifications/" + notification.ID.String() + "/accept-invitation"

	w := doRequest(t, engine, invitee, "POST", path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, invitee, "POST", path, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invitation has already been accepted", decodeBody(t, w)["error"])

	// The failed second accept must not duplicate any side effect.
	var memberships int64
	db.DB.Model(&models.ProjectMembership{}).
		Where("user_id = ? AND project_id = ?", invitee.ID, project.ID).
		Count(&memberships)
	assert.EqualValues(t, 1, memberships)

	var confirmations int64
	db.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND notification_type = ?", manager.ID, models.NotificationSystem).
		Count(&confirmations)
	assert.EqualValues(t, 1, confirmations)
}

func TestAcceptInvitationWrongType(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)

	notification := models.Notification{
		RecipientID:      alice.ID,
		NotificationType: models.NotificationSystem,
		Title:            "Hello",
	}
	require.NoError(t, db.DB.Create(&notification).Error)

	w := doRequest(t, engine, alice, "POST",
		"/api/collaboration/notifications/"+notification.ID.String()+"/accept-invitation", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This notification is not a project invitation", decodeBody(t, w)["error"])
}

func TestMarkAllNotificationsRead(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)
	bob := createUser(t, "Bob", "bob@example.com", false)

	for i := 0; i < 3; i++ {
		notification := models.Notification{
			RecipientID:      alice.ID,
			NotificationType: models.NotificationSystem,
			Title:            "Hello",
		}
		require.NoError(t, db.DB.Create(&notification).Error)
	}

	other := models.Notification{
		RecipientID:      bob.ID,
		NotificationType: models.NotificationSystem,
		Title:            "Hello",
	}
	require.NoError(t, db.DB.Create(&other).Error)

	w := doRequest(t, engine, alice, "POST", "/api/collaboration/notifications/mark-all-read", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	var unread int64
	db.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", alice.ID, false).
		Count(&unread)
	assert.Zero(t, unread)

	var bobUnread int64
	db.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", bob.ID, false).
		Count(&bobUnread)
	assert.EqualValues(t, 1, bobUnread)
}
