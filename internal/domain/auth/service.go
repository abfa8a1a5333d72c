package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"giftfinder/internal/pkg/jwt"
)

type Service struct {
	users *UserRepository
	jwt   *jwt.Service
	log   zerolog.Logger
}

func NewService(users *UserRepository, jwtService *jwt.Service, log zerolog.Logger) *Service {
	return &Service{users: users, jwt: jwtService, log: log.With().Str("component", "auth").Logger()}
}

// Login checks the password and issues an access token. Unknown emails and
// wrong passwords return the same error.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Info().Int64("user_id", user.ID).Msg("login rejected: bad password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.jwt.TTL().Seconds()),
		User:      user,
	}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{User: user, Profile: profile}, nil
}
