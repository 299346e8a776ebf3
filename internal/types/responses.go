package types

import "github.com/google/uuid"

type UserResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsStaff bool      `json:"is_staff"`
}
