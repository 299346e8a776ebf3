package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMetrics(t *testing.T, user models.User, daysAgo, workMinutes, activeMinutes, tasksCompleted int, productivity float64) {
	t.Helper()

	day := time.Now().UTC().AddDate(0, 0, -daysAgo)
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	metrics := models.ActivityMetrics{
		UserID:            user.ID,
		Date:              date,
		TotalWorkMinutes:  workMinutes,
		ActiveMinutes:     activeMinutes,
		TasksCompleted:    tasksCompleted,
		ProductivityScore: productivity,
	}
	require.NoError(t, db.DB.Create(&metrics).Error)
}

func TestListActivityMetricsScopedToOwner(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)
	bob := createUser(t, "Bob", "bob@example.com", false)
	staff := createUser(t, "Staff", "staff@example.com", true)

	seedMetrics(t, alice, 0, 480, 400, 2, 0.9)
	seedMetrics(t, bob, 0, 300, 200, 1, 0.5)

	w := doRequest(t, engine, alice, "GET", "/api/collaboration/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	rows := decodeList(t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, alice.ID.String(), rows[0]["user_id"])

	w = doRequest(t, engine, staff, "GET", "/api/collaboration/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)
}

func TestActivityMetricsEfficiencyRatio(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)
	seedMetrics(t, alice, 0, 400, 300, 1, 0.8)

	w := doRequest(t, engine, alice, "GET", "/api/collaboration/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	rows := decodeList(t, w)
	require.Len(t, rows, 1)
	assert.InDelta(t, 75.0, rows[0]["efficiency_ratio"], 0.01)
}

func TestDashboardDataSummary(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)

	seedMetrics(t, alice, 1, 120, 100, 2, 0.6)
	seedMetrics(t, alice, 2, 240, 200, 1, 0.8)
	// Outside the default 7 day window.
	seedMetrics(t, alice, 20, 480, 400, 5, 1.0)

	w := doRequest(t, engine, alice, "GET", "/api/collaboration/metrics/dashboard-data", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	summary := body["summary"].(map[string]interface{})

	assert.InDelta(t, 6.0, summary["total_work_hours"], 0.01)
	assert.InDelta(t, 0.7, summary["avg_productivity_score"], 0.01)
	assert.EqualValues(t, 3, summary["total_tasks_completed"])
	assert.EqualValues(t, 2, summary["days_tracked"])

	daily := body["daily_data"].([]interface{})
	require.Len(t, daily, 2)

	// Ascending by date.
	first := daily[0].(map[string]interface{})
	second := daily[1].(map[string]interface{})
	assert.Less(t, first["date"].(string), second["date"].(string))
}

func TestDashboardDataEmptyWindow(t *testing.T) {
	engine := setupTest(t)

	alice := createUser(t, "Alice", "alice@example.com", false)

	w := doRequest(t, engine, alice, "GET", "/api/collaboration/metrics/dashboard-data", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	summary := body["summary"].(map[string]interface{})

	assert.EqualValues(t, 0, summary["total_work_hours"])
	assert.EqualValues(t, 0, summary["avg_productivity_score"])
	assert.EqualValues(t, 0, summary["days_tracked"])
}
