package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"resto-backoffice/internal/cache"
	"resto-backoffice/internal/model"
	"resto-backoffice/internal/repository"
	"resto-backoffice/pkg/validator"
)

var (
	ErrEmailExists      = errors.New("email already exists")
	ErrRoleNotFound     = errors.New("role not found")
	ErrDeleteSelf       = errors.New("you cannot delete your own account")
	ErrUnknownPrivilege = errors.New("unknown privilege code")
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID, actor Actor) error
	UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, actor Actor) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	RoleID      uint   `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number"`
	RoleID      uint    `json:"role_id" validate:"required"`
	IsActive    *bool   `json:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	cache         cache.ListCache
	log           zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository,
	roleRepo repository.RoleRepository, listCache cache.ListCache, log zerolog.Logger) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		cache:         listCache,
		log:           log,
	}
}

// invalidate drops the cached lists touched by user writes. Role user counts
// change with assignments, so the role list goes too.
func (s *userService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.KeyUsers, cache.KeyRoles); err != nil {
		s.log.Warn().Err(err).Msg("user list cache invalidation failed")
	}
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.User, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, ErrRoleNotFound
	}

	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &role.ID,
		IsActive:    true,
		Privileges:  role.Privileges, // starts from the role, editable per user later
	}
	user.Stamp(actor.ID)

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.userRepo.FindByID(user.ID)
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, ErrEmailExists
		}
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, ErrRoleNotFound
	}
	roleChanged := user.RoleID == nil || *user.RoleID != role.ID

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.RoleID = &role.ID
	user.Role = nil
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.Stamp(actor.ID)

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	// switching role resets the user's privileges to the new role's set
	if roleChanged {
		if err := s.userRepo.UpdatePrivileges(userID, role.Privileges); err != nil {
			return nil, err
		}
	}

	s.invalidate(ctx)
	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID, actor Actor) error {
	if actor.ID == userID.String() {
		return ErrDeleteSelf
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.Delete(userID, actor.ID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *userService) UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, actor Actor) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	privileges, err := s.privilegeRepo.FindByCodes(privilegeCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to find privileges: %w", err)
	}
	if len(privileges) != len(uniqueCodes(privilegeCodes)) {
		return nil, ErrUnknownPrivilege
	}

	if err := s.userRepo.UpdatePrivileges(userID, privileges); err != nil {
		return nil, err
	}

	user.Role = nil
	user.Privileges = nil
	user.Stamp(actor.ID)
	if err := s.userRepo.Update(user); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("audit update failed")
	}

	s.invalidate(ctx)
	return s.userRepo.FindByID(userID)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	var responses []model.UserResponse
	err := s.cache.FetchJSON(ctx, cache.KeyUsers, &responses, func(context.Context) (interface{}, error) {
		users, err := s.userRepo.FindAll()
		if err != nil {
			return nil, err
		}
		out := make([]model.UserResponse, len(users))
		for i := range users {
			out[i] = users[i].ToResponse()
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}

func uniqueCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
