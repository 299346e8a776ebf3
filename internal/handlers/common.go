package handlers

import (
	"strconv"
	"time"

	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/aswathiir/worksyncpluspro/internal/types"
	"github.com/gin-gonic/gin"
)

func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsStaff: user.IsStaff,
	}
}

// parseDays reads the "days" query parameter, falling back when absent or
// unusable.
func parseDays(ctx *gin.Context, fallback int) int {
	raw := ctx.Query("days")

	if raw == "" {
		return fallback
	}

	days, err := strconv.Atoi(raw)

	if err != nil || days <= 0 {
		return fallback
	}

	return days
}

// windowStart returns midnight UTC of the first day of a [today-days, today]
// window.
func windowStart(days int) time.Time {
	start := time.Now().UTC().AddDate(0, 0, -days)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}
