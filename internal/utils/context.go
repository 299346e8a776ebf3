package utils

import (
	"fmt"

	"github.com/aswathiir/worksyncpluspro/internal/middleware"
	"github.com/aswathiir/worksyncpluspro/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uuid.UUID, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return uuid.Nil, err
	}

	return user.ID, nil
}

// GetUUIDParam parses a path parameter as a UUID.
func GetUUIDParam(ctx *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))

	if err != nil {
		return uuid.Nil, fmt.Errorf("Invalid %s", name)
	}

	return id, nil
}
