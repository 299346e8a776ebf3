package handlers

import (
	"errors"
	"log"
	"net/http"
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

type CreateMeetingRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	StartTime   time.Time   `json:"start_time" binding:"required"`
	EndTime     time.Time   `json:"end_time" binding:"required"`
	Timezone    string      `json:"timezone"`
	TeamID      *uuid.UUID  `json:"team_id"`
	AttendeeIDs []uuid.UUID `json:"attendee_ids"`
	MeetingURL  string      `json:"meeting_url"`
}

type UpdateMeetingRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Timezone    string    `json:"timezone"`
	MeetingURL  string    `json:"meeting_url"`
}

type AttendanceResponse struct {
	User            types.UserResponse `json:"user"`
	Status          string             `json:"status"`
	JoinedAt        *time.Time         `json:"joined_at"`
	LeftAt          *time.Time         `json:"left_at"`
	DurationMinutes int                `json:"duration_minutes"`
	EngagementScore float64            `json:"engagement_score"`
	AttentionScore  float64            `json:"attention_score"`
}

type MeetingResponse struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Status        string               `json:"status"`
	StartTime     time.Time            `json:"start_time"`
	EndTime       time.Time            `json:"end_time"`
	Timezone      string               `json:"timezone"`
	Organizer     types.UserResponse   `json:"organizer"`
	TeamID        *uuid.UUID           `json:"team_id"`
	Attendance    []AttendanceResponse `json:"attendance"`
	AttendeeCount int                  `json:"attendee_count"`
	ZoomMeetingID string               `json:"zoom_meeting_id"`
	MeetingURL    string               `json:"meeting_url"`
	CreatedAt     time.Time            `json:"created_at"`
}

func meetingResponse(meeting models.Meeting) MeetingResponse {
	attendance := make([]AttendanceResponse, 0, len(meeting.Attendances))

	for _, att := range meeting.Attendances {
		attendance = append(attendance, AttendanceResponse{
			User:            userResponse(att.User),
			Status:          att.Status,
			JoinedAt:        att.JoinedAt,
			LeftAt:          att.LeftAt,
			DurationMinutes: att.DurationMinutes,
			EngagementScore: att.EngagementScore,
			AttentionScore:  att.AttentionScore,
		})
	}

	return MeetingResponse{
		ID:            meeting.ID,
		Title:         meeting.Title,
		Description:   meeting.Description,
		Status:        meeting.Status,
		StartTime:     meeting.StartTime,
		EndTime:       meeting.EndTime,
		Timezone:      meeting.Timezone,
		Organizer:     userResponse(meeting.Organizer),
		TeamID:        meeting.TeamID,
		Attendance:    attendance,
		AttendeeCount: len(attendance),
		ZoomMeetingID: meeting.ZoomMeetingID,
		MeetingURL:    meeting.MeetingURL,
		CreatedAt:     meeting.CreatedAt,
	}
}

func preloadMeeting(query *gorm.DB) *gorm.DB {
	return query.Preload("Organizer").Preload("Attendances.User")
}

func findScopedMeeting(ctx *gin.Context) (models.Meeting, bool) {
	var meeting models.Meeting

	meetingID, err := utils.GetUUIDParam(ctx, "meeting_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return meeting, false
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return meeting, false
	}

	if err := preloadMeeting(scope.Meetings(currentUser)).
		Where("meetings.id = ?", meetingID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meeting"})
		}
		return meeting, false
	}

	return meeting, true
}

func CreateMeeting(ctx *gin.Context) {
	var body CreateMeetingRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.EndTime.Before(body.StartTime) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "end_time must not precede start_time"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	timezone := body.Timezone

	if timezone == "" {
		timezone = "UTC"
	}

	meeting := models.Meeting{
		Title:       body.Title,
		Description: body.Description,
		Status:      models.MeetingStatusScheduled,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		Timezone:    timezone,
		OrganizerID: userID,
		TeamID:      body.TeamID,
		MeetingURL:  body.MeetingURL,
	}

	if err := db.DB.Create(&meeting).Error; err != nil {
		log.Printf("Failed to create meeting: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meeting"})
		return
	}

	// Invited attendees start in the invited state and get a reminder.
	for _, attendeeID := range body.AttendeeIDs {
		attendance := models.MeetingAttendance{
			MeetingID: meeting.ID,
			UserID:    attendeeID,
			Status:    models.AttendanceInvited,
		}

		if err := db.DB.Create(&attendance).Error; err != nil {
			log.Printf("Failed to create attendance for %s: %v", attendeeID, err)
			continue
		}

		notification := models.Notification{
			RecipientID:       attendeeID,
			NotificationType:  models.NotificationMeetingReminder,
			Title:             "Meeting invitation",
			Message:           "You have been invited to " + meeting.Title,
			RelatedObjectID:   &meeting.ID,
			RelatedObjectType: "meeting",
		}

		if err := db.DB.Create(&notification).Error; err != nil {
			log.Printf("Failed to create meeting notification: %v", err)
		}
	}

	if err := preloadMeeting(db.DB).First(&meeting, "id = ?", meeting.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meeting"})
		return
	}

	ctx.JSON(http.StatusCreated, meetingResponse(meeting))
}

func ListMeetings(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var meetings []models.Meeting

	if err := preloadMeeting(scope.Meetings(currentUser)).
		Order("start_time DESC").Find(&meetings).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meetings"})
		return
	}

	response := make([]MeetingResponse, 0, len(meetings))

	for _, meeting := range meetings {
		response = append(response, meetingResponse(meeting))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetMeeting(ctx *gin.Context) {
	meeting, ok := findScopedMeeting(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, meetingResponse(meeting))
}

func UpdateMeeting(ctx *gin.Context) {
	var body UpdateMeetingRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	meeting, ok := findScopedMeeting(ctx)

	if !ok {
		return
	}

	meeting.Title = body.Title
	meeting.Description = body.Description
	meeting.StartTime = body.StartTime
	meeting.EndTime = body.EndTime
	meeting.MeetingURL = body.MeetingURL

	if body.Status != "" {
		meeting.Status = body.Status
	}

	if body.Timezone != "" {
		meeting.Timezone = body.Timezone
	}

	if err := db.DB.Save(&meeting).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update meeting"})
		return
	}

	ctx.JSON(http.StatusOK, meetingResponse(meeting))
}

func DeleteMeeting(ctx *gin.Context) {
	meeting, ok := findScopedMeeting(ctx)

	if !ok {
		return
	}

	if err := db.DB.Delete(&meeting).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete meeting"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// JoinMeeting records attendance. The first join creates an attended row
// with the join time; a later call backfills the join time if an invited
// row already existed. Joining an already-attended meeting is a no-op.
func JoinMeeting(ctx *gin.Context) {
	meeting, ok := findScopedMeeting(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	now := time.Now()

	var attendance models.MeetingAttendance

	err = db.DB.Where("meeting_id = ? AND user_id = ?", meeting.ID, userID).First(&attendance).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		attendance = models.MeetingAttendance{
			MeetingID: meeting.ID,
			UserID:    userID,
			Status:    models.AttendanceAttended,
			JoinedAt:  &now,
		}

		if err := db.DB.Create(&attendance).Error; err != nil {
			log.Printf("Failed to create attendance: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join meeting"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"message": "Joined meeting successfully"})
		return
	}

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join meeting"})
		return
	}

	if attendance.JoinedAt == nil {
		if err := db.DB.Model(&attendance).Updates(map[string]interface{}{
			"joined_at": now,
			"status":    models.AttendanceAttended,
		}).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join meeting"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Joined meeting successfully"})
}
