package response

import (
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/policy"
)

type AuthResponse struct {
	UserID     string             `json:"user_id"`
	Token      string             `json:"token,omitempty"`
	ExpiresAt  *time.Time         `json:"expires_at,omitempty"`
	Username   string             `json:"username"`
	Role       entity.UserRole    `json:"role"`
	Operations []policy.Operation `json:"operations"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Role      entity.UserRole `json:"role"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	CreatedAt time.Time       `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserToResponse(u))
	}
	return out
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:     user.ID.String(),
		Username:   user.Username,
		Role:       user.Role,
		Operations: policy.Operations(user.Role),
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = &session.ExpiresAt
	}

	return resp
}
