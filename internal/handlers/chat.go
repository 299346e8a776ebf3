package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/aswathiir/worksyncpluspro/internal/scope"
	"github.com/aswathiir/worksyncpluspro/internal/types"
	"github.com/aswathiir/worksyncpluspro/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateChannelRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	ChannelType string      `json:"channel_type"`
	TeamID      *uuid.UUID  `json:"team_id"`
	IsPrivate   bool        `json:"is_private"`
	MemberIDs   []uuid.UUID `json:"member_ids"`
}

type UpdateChannelRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

type SendMessageRequest struct {
	Content  string     `json:"content" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type ChannelResponse struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	ChannelType  string               `json:"channel_type"`
	TeamID       *uuid.UUID           `json:"team_id"`
	IsPrivate    bool                 `json:"is_private"`
	Members      []types.UserResponse `json:"members"`
	MessageCount int64                `json:"message_count"`
	CreatedAt    time.Time            `json:"created_at"`
}

type ParentMessagePreview struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
	Sender  string    `json:"sender"`
}

type ChatMessageResponse struct {
	ID            uuid.UUID              `json:"id"`
	ChannelID     uuid.UUID              `json:"channel_id"`
	Sender        types.UserResponse     `json:"sender"`
	Content       string                 `json:"content"`
	ParentMessage *ParentMessagePreview  `json:"parent_message"`
	ReplyCount    int64                  `json:"reply_count"`
	IsEdited      bool                   `json:"is_edited"`
	EditedAt      *time.Time             `json:"edited_at"`
	CreatedAt     time.Time              `json:"created_at"`
	Reactions     map[string][]uuid.UUID `json:"reactions"`
}

func channelResponse(channel models.ChatChannel) ChannelResponse {
	var messageCount int64
	db.DB.Model(&models.ChatMessage{}).Where("channel_id = ?", channel.ID).Count(&messageCount)

	members := make([]types.UserResponse, 0, len(channel.Members))

	for _, member := range channel.Members {
		members = append(members, userResponse(member))
	}

	return ChannelResponse{
		ID:           channel.ID,
		Name:         channel.Name,
		Description:  channel.Description,
		ChannelType:  channel.ChannelType,
		TeamID:       channel.TeamID,
		IsPrivate:    channel.IsPrivate,
		Members:      members,
		MessageCount: messageCount,
		CreatedAt:    channel.CreatedAt,
	}
}

func chatMessageResponse(message models.ChatMessage) ChatMessageResponse {
	var replyCount int64
	db.DB.Model(&models.ChatMessage{}).Where("parent_message_id = ?", message.ID).Count(&replyCount)

	reactions := make(map[string][]uuid.UUID)

	if len(message.Reactions) > 0 {
		if err := json.Unmarshal(message.Reactions, &reactions); err != nil {
			log.Printf("Failed to parse reactions for message %s: %v", message.ID, err)
		}
	}

	response := ChatMessageResponse{
		ID:         message.ID,
		ChannelID:  message.ChannelID,
		Sender:     userResponse(message.Sender),
		Content:    message.Content,
		ReplyCount: replyCount,
		IsEdited:   message.IsEdited,
		EditedAt:   message.EditedAt,
		CreatedAt:  message.CreatedAt,
		Reactions:  reactions,
	}

	if message.ParentMessage != nil {
		content := message.ParentMessage.Content

		if len(content) > 50 {
			content = content[:50] + "..."
		}

		response.ParentMessage = &ParentMessagePreview{
			ID:      message.ParentMessage.ID,
			Content: content,
			Sender:  message.ParentMessage.Sender.Name,
		}
	}

	return response
}

func findScopedChannel(ctx *gin.Context) (models.ChatChannel, bool) {
	var channel models.ChatChannel

	channelID, err := utils.GetUUIDParam(ctx, "channel_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return channel, false
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return channel, false
	}

	if err := scope.ChatChannels(currentUser).Preload("Members").
		Where("chat_channels.id = ?", channelID).First(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve channel"})
		}
		return channel, false
	}

	return channel, true
}

func CreateChannel(ctx *gin.Context) {
	var body CreateChannelRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	channelType := body.ChannelType

	if channelType == "" {
		channelType = models.ChannelTypeTeam
	}

	channel := models.ChatChannel{
		Name:        body.Name,
		Description: body.Description,
		ChannelType: channelType,
		TeamID:      body.TeamID,
		IsPrivate:   body.IsPrivate,
	}

	if err := db.DB.Create(&channel).Error; err != nil {
		log.Printf("Failed to create channel: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create channel"})
		return
	}

	// The creator is always a member; invited members come along.
	memberIDs := append([]uuid.UUID{userID}, body.MemberIDs...)

	var members []models.User

	if err := db.DB.Where("id IN ?", memberIDs).Find(&members).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add members"})
		return
	}

	if err := db.DB.Model(&channel).Association("Members").Append(&members); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add members"})
		return
	}

	channel.Members = members

	ctx.JSON(http.StatusCreated, channelResponse(channel))
}

func ListChannels(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var channels []models.ChatChannel

	if err := scope.ChatChannels(currentUser).Preload("Members").Find(&channels).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve channels"})
		return
	}

	response := make([]ChannelResponse, 0, len(channels))

	for _, channel := range channels {
		response = append(response, channelResponse(channel))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetChannel(ctx *gin.Context) {
	channel, ok := findScopedChannel(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, channelResponse(channel))
}

func UpdateChannel(ctx *gin.Context) {
	var body UpdateChannelRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	channel, ok := findScopedChannel(ctx)

	if !ok {
		return
	}

	channel.Name = body.Name
	channel.Description = body.Description
	channel.IsPrivate = body.IsPrivate

	if err := db.DB.Save(&channel).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update channel"})
		return
	}

	ctx.JSON(http.StatusOK, channelResponse(channel))
}

func DeleteChannel(ctx *gin.Context) {
	channel, ok := findScopedChannel(ctx)

	if !ok {
		return
	}

	if err := db.DB.Delete(&channel).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete channel"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetChannelMessages pages through a channel's top-level messages, newest
// first. Replies are reachable through reply_count and the thread endpoint
// of the client, not inlined here.
func GetChannelMessages(ctx *gin.Context) {
	channel, ok := findScopedChannel(ctx)

	if !ok {
		return
	}

	pageSize, err := strconv.Atoi(ctx.DefaultQuery("page_size", "50"))

	if err != nil || pageSize <= 0 {
		pageSize = 50
	}

	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))

	if err != nil || page <= 0 {
		page = 1
	}

	var messages []models.ChatMessage

	if err := db.DB.Preload("Sender").Preload("ParentMessage.Sender").
		Where("channel_id = ? AND parent_message_id IS NULL", channel.ID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	response := make([]ChatMessageResponse, 0, len(messages))

	for _, message := range messages {
		response = append(response, chatMessageResponse(message))
	}

	ctx.JSON(http.StatusOK, response)
}

func SendMessage(ctx *gin.Context) {
	var body SendMessageRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	channel, ok := findScopedChannel(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	message := models.ChatMessage{
		ChannelID: channel.ID,
		SenderID:  userID,
		Content:   body.Content,
	}

	if body.ParentID != nil {
		var parent models.ChatMessage

		if err := db.DB.Where("id = ? AND channel_id = ?", *body.ParentID, channel.ID).
			First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Parent message not found"})
			} else {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve parent message"})
			}
			return
		}

		message.ParentMessageID = &parent.ID
	}

	if err := db.DB.Create(&message).Error; err != nil {
		log.Printf("Failed to create message: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	if err := db.DB.Preload("Sender").Preload("ParentMessage.Sender").
		First(&message, "id = ?", message.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve message"})
		return
	}

	response := chatMessageResponse(message)

	BroadcastChannelMessage(channel.ID.String(), response)

	ctx.JSON(http.StatusCreated, response)
}
