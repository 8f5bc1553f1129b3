package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"resto-backoffice/internal/access"
	"resto-backoffice/internal/model"
	"resto-backoffice/internal/repository"
	"resto-backoffice/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	// Authenticate resolves a bearer token into the principal captured at login.
	Authenticate(tokenString string) (access.Principal, error)
	Heartbeat(userID uuid.UUID) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo    repository.UserRepository
	tokens      *jwt.Manager
	idleTimeout time.Duration
	events      Broadcaster
	log         zerolog.Logger
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, idleTimeout time.Duration, events Broadcaster, log zerolog.Logger) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		idleTimeout: idleTimeout,
		events:      events,
		log:         log,
		now:         time.Now,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// a new version logs out every other session of this user
	now := s.now()
	user.TokenVersion = uuid.New().String()
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	// privileges are frozen into the token; later role edits apply on next login
	privileges := user.GetPrivilegeCodes()
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName, user.RoleCode(), privileges, user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("role", user.RoleCode()).Msg("user logged in")

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: privileges,
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return err
	}
	// sign out everywhere
	return s.userRepo.UpdateTokenVersion(user.ID, uuid.New().String())
}

// session checks the token and that it still belongs to the user's latest login.
func (s *authService) session(tokenString string) (*jwt.Claims, *model.User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, ErrSessionReplaced
	}
	return claims, user, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, user, err := s.session(tokenString)
	if err != nil {
		return nil, err
	}

	if user.LastSeenAt == nil || s.now().Sub(*user.LastSeenAt) > s.idleTimeout {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: claims.Privileges,
	}, nil
}

func (s *authService) Authenticate(tokenString string) (access.Principal, error) {
	claims, _, err := s.session(tokenString)
	if err != nil {
		return access.Principal{}, err
	}
	return access.NewPrincipal(claims.UserID, claims.Email, claims.Name, claims.RoleCode, claims.Privileges), nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}

	s.events.BroadcastJSON(map[string]interface{}{
		"type":         "user_status_update",
		"user_id":      userID.String(),
		"status":       "online",
		"last_seen_at": s.now(),
	})
	return nil
}
