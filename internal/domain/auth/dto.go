package auth

import "giftfinder/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      *domain.User `json:"user"`
}

type MeResponse struct {
	User    *domain.User    `json:"user"`
	Profile *domain.Profile `json:"profile,omitempty"`
}
