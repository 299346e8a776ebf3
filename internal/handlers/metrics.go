package handlers

import (
	"net/http"
	"time"

	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/aswathiir/worksyncpluspro/internal/scope"
	"github.com/aswathiir/worksyncpluspro/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ActivityMetricsResponse struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Date               string    `json:"date"`
	TotalWorkMinutes   int       `json:"total_work_minutes"`
	ActiveMinutes      int       `json:"active_minutes"`
	IdleMinutes        int       `json:"idle_minutes"`
	TasksCompleted     int       `json:"tasks_completed"`
	TasksStarted       int       `json:"tasks_started"`
	MeetingsAttended   int       `json:"meetings_attended"`
	ChatMessagesSent   int       `json:"chat_messages_sent"`
	ProductivityScore  float64   `json:"productivity_score"`
	EngagementScore    float64   `json:"engagement_score"`
	CollaborationScore float64   `json:"collaboration_score"`
	EfficiencyRatio    float64   `json:"efficiency_ratio"`
}

type DailyMetricsData struct {
	Date              string  `json:"date"`
	WorkMinutes       int     `json:"work_minutes"`
	ProductivityScore float64 `json:"productivity_score"`
	TasksCompleted    int     `json:"tasks_completed"`
}

type DashboardSummary struct {
	TotalWorkHours       float64 `json:"total_work_hours"`
	AvgProductivityScore float64 `json:"avg_productivity_score"`
	TotalTasksCompleted  int     `json:"total_tasks_completed"`
	DaysTracked          int     `json:"days_tracked"`
}

type DashboardDataResponse struct {
	Summary   DashboardSummary   `json:"summary"`
	DailyData []DailyMetricsData `json:"daily_data"`
}

const metricsDateLayout = "2006-01-02"

func activityMetricsResponse(metrics models.ActivityMetrics) ActivityMetricsResponse {
	return ActivityMetricsResponse{
		ID:                 metrics.ID,
		UserID:             metrics.UserID,
		Date:               metrics.Date.Format(metricsDateLayout),
		TotalWorkMinutes:   metrics.TotalWorkMinutes,
		ActiveMinutes:      metrics.ActiveMinutes,
		IdleMinutes:        metrics.IdleMinutes,
		TasksCompleted:     metrics.TasksCompleted,
		TasksStarted:       metrics.TasksStarted,
		MeetingsAttended:   metrics.MeetingsAttended,
		ChatMessagesSent:   metrics.ChatMessagesSent,
		ProductivityScore:  metrics.ProductivityScore,
		EngagementScore:    metrics.EngagementScore,
		CollaborationScore: metrics.CollaborationScore,
		EfficiencyRatio:    metrics.EfficiencyRatio(),
	}
}

func ListActivityMetrics(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var rows []models.ActivityMetrics

	if err := scope.ActivityMetrics(currentUser).
		Order("date DESC").Find(&rows).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve metrics"})
		return
	}

	response := make([]ActivityMetricsResponse, 0, len(rows))

	for _, row := range rows {
		response = append(response, activityMetricsResponse(row))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetDashboardData rolls up the caller's own metrics over the requested
// window.
func GetDashboardData(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	days := parseDays(ctx, 7)
	start := windowStart(days)
	end := time.Now().UTC()

	var rows []models.ActivityMetrics

	if err := scope.ActivityMetrics(currentUser).
		Where("user_id = ? AND date >= ? AND date <= ?", currentUser.ID, start, end).
		Order("date ASC").Find(&rows).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve metrics"})
		return
	}

	var totalWorkMinutes, totalTasksCompleted int
	var productivitySum float64

	dailyData := make([]DailyMetricsData, 0, len(rows))

	for _, row := range rows {
		totalWorkMinutes += row.TotalWorkMinutes
		totalTasksCompleted += row.TasksCompleted
		productivitySum += row.ProductivityScore

		dailyData = append(dailyData, DailyMetricsData{
			Date:              row.Date.Format(metricsDateLayout),
			WorkMinutes:       row.TotalWorkMinutes,
			ProductivityScore: row.ProductivityScore,
			TasksCompleted:    row.TasksCompleted,
		})
	}

	avgProductivity := float64(0)

	if len(rows) > 0 {
		avgProductivity = productivitySum / float64(len(rows))
	}

	ctx.JSON(http.StatusOK, DashboardDataResponse{
		Summary: DashboardSummary{
			TotalWorkHours:       float64(totalWorkMinutes) / 60,
			AvgProductivityScore: avgProductivity,
			TotalTasksCompleted:  totalTasksCompleted,
			DaysTracked:          len(dailyData),
		},
		DailyData: dailyData,
	})
}
