package services

import (
	"context"

	"fleetcare-backend/apperr"
	"fleetcare-backend/logger"
	"fleetcare-backend/utils"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresIn int64  `json:"expiresIn"`
}

// AuthService validates credentials against the directory and issues signed
// bearer tokens carrying a role claim.
type AuthService struct {
	users UserDirectory
	log   *logger.Logger
}

func NewAuthService(users UserDirectory, baseLog *logger.Logger) *AuthService {
	return &AuthService{users: users, log: baseLog.With("service", "auth")}
}

func (s *AuthService) Authenticate(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if !s.users.ValidateCredentials(ctx, req.Username, req.Password) {
		s.log.Warn("failed authentication attempt", "username", req.Username)
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	role, ok := s.users.Role(ctx, req.Username)
	if !ok {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	token, err := utils.GenerateToken(req.Username, role)
	if err != nil {
		return nil, err
	}

	s.log.Info("authenticated user", "username", req.Username, "role", role)
	return &LoginResponse{
		Token:     token,
		Username:  req.Username,
		Role:      role,
		ExpiresIn: int64(utils.TokenExpiry().Seconds()),
	}, nil
}
