package handlers_test

import (
	"net/http"
	"testing"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createChannel(t *testing.T, name string, members ...models.User) models.ChatChannel {
	t.Helper()

	channel := models.ChatChannel{
		Name:        name,
		ChannelType: models.ChannelTypeTeam,
		Members:     members,
	}
	require.NoError(t, db.DB.Create(&channel).Error)
	return channel
}

func TestCreateChannelAlwaysIncludesCreator(t *testing.T) {
	engine := setupTest(t)

	creator := createUser(t, "Creator", "creator@example.com", false)
	other := createUser(t, "Other", "other@example.com", false)

	w := doRequest(t, engine, creator, "POST", "/api/collaboration/channels", gin.H{
		"name":       "design",
		"member_ids": []string{other.ID.String()},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	members, ok := body["members"].([]interface{})
	require.True(t, ok)
	assert.Len(t, members, 2)
}

func TestChannelsHaveNoStaffBypass(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)
	staff := createUser(t, "Staff", "staff@example.com", true)
	channel := createChannel(t, "private-talk", alice)

	w := doRequest(t, engine, staff, "GET", "/api/collaboration/channels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))

	w = doRequest(t, engine, staff, "GET", "/api/collaboration/channels/"+channel.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, engine, alice, "GET", "/api/collaboration/channels/"+channel.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSendMessageRequiresContent(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)
	channel := createChannel(t, "general", alice)

	w := doRequest(t, engine, alice, "POST",
		"/api/collaboration/channels/"+channel.ID.String()+"/send-message", gin.H{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Content is required", decodeBody(t, w)["error"])
}

func TestSendMessageThreading(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)
	channel := createChannel(t, "general", alice)

	w := doRequest(t, engine, alice, "POST",
		"/api/collaboration/channels/"+channel.ID.String()+"/send-message",
		gin.H{"content": "parent message"})
	require.Equal(t, http.StatusCreated, w.Code)
	parentID := decodeBody(t, w)["id"].(string)

	w = doRequest(t, engine, alice, "POST",
		"/api/collaboration/channels/"+channel.ID.String()+"/send-message",
		gin.H{"content": "a reply", "parent_id": parentID})
	require.Equal(t, http.StatusCreated, w.Code)

	reply := decodeBody(t, w)
	require.NotNil(t, reply["parent_message"])

	// Top-level listing excludes replies but reports the reply count.
	w = doRequest(t, engine, alice, "GET",
		"/api/collaboration/channels/"+channel.ID.String()+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	messages := decodeList(t, w)
	require.Len(t, messages, 1)
	assert.Equal(t, parentID, messages[0]["id"])
	assert.EqualValues(t, 1, messages[0]["reply_count"])
}

func TestSendMessageParentMustShareChannel(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)
	channelA := createChannel(t, "channel-a", alice)
	channelB := createChannel(t, "channel-b", alice)

	parent := models.ChatMessage{
		ChannelID: channelA.ID,
		SenderID:  alice.ID,
		Content:   "in channel A",
	}
	require.NoError(t, db.DB.Create(&parent).Error)

	w := doRequest(t, engine, alice, "POST",
		"/api/collaboration/channels/"+channelB.ID.String()+"/send-message",
		gin.H{"content": "cross-channel reply", "parent_id": parent.ID})

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Parent message not found", decodeBody(t, w)["error"])
}

func TestGetChannelMessagesPagination(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)
	channel := createChannel(t, "general", alice)

	for i := 0; i < 5; i++ {
		message := models.ChatMessage{
			ChannelID: channel.ID,
			SenderID:  alice.ID,
			Content:   "message",
		}
		require.NoError(t, db.DB.Create(&message).Error)
	}

	w := doRequest(t, engine, alice, "GET",
		"/api/collaboration/channels/"+channel.ID.String()+"/messages?page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = doRequest(t, engine, alice, "GET",
		"/api/collaboration/channels/"+channel.ID.String()+"/messages?page=3&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)
}

func TestSendMessageHiddenChannel(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)
	bob := createUser(t, "Bob", "bob@example.com", false)
	channel := createChannel(t, "alice-only", alice)

	w := doRequest(t, engine, bob, "POST",
		"/api/collaboration/channels/"+channel.ID.String()+"/send-message",
		gin.H{"content": "let me in"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}
