package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"resto-backoffice/internal/access"
	"resto-backoffice/internal/cache"
	"resto-backoffice/internal/model"
	"resto-backoffice/internal/repository"
	"resto-backoffice/pkg/validator"
)

var (
	ErrRoleCodeExists = errors.New("role code already exists")
	ErrRoleInUse      = errors.New("role is still assigned to users")
	ErrRoleProtected  = errors.New("built-in role cannot be deleted")
)

type RoleService interface {
	GetAllRoles(ctx context.Context) ([]model.Role, error)
	CreateRole(ctx context.Context, req *RoleRequest) (*model.Role, error)
	UpdateRole(ctx context.Context, id uint, req *RoleRequest) (*model.Role, error)
	DeleteRole(ctx context.Context, id uint) error
	GetPrivilegeMatrix(id uint) (*PrivilegeMatrix, error)
	GetAllPrivileges() ([]model.Privilege, error)
	GetGroupedPrivileges() ([]access.ModuleGroup, error)
}

type RoleRequest struct {
	Code        string   `json:"code" validate:"required,max=50"`
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description"`
	Color       string   `json:"color" validate:"omitempty,hexcolor"`
	Privileges  []string `json:"privileges"`
}

// PrivilegeMatrix drives the role editor: every module with its privileges and
// how much of the module the role holds.
type PrivilegeMatrix struct {
	Role    model.Role     `json:"role"`
	Modules []ModuleMatrix `json:"modules"`
}

type ModuleMatrix struct {
	Module      string                `json:"module"`
	Permissions []PermissionCell      `json:"permissions"`
	Selection   access.SelectionState `json:"selection"`
	AllSelected bool                  `json:"all_selected"`
}

type PermissionCell struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

type roleService struct {
	roleRepo      repository.RoleRepository
	privilegeRepo repository.PrivilegeRepository
	userRepo      repository.UserRepository
	cache         cache.ListCache
	log           zerolog.Logger
}

func NewRoleService(roleRepo repository.RoleRepository, privilegeRepo repository.PrivilegeRepository,
	userRepo repository.UserRepository, listCache cache.ListCache, log zerolog.Logger) RoleService {
	return &roleService{
		roleRepo:      roleRepo,
		privilegeRepo: privilegeRepo,
		userRepo:      userRepo,
		cache:         listCache,
		log:           log,
	}
}

func (s *roleService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.KeyRoles); err != nil {
		s.log.Warn().Err(err).Msg("role list cache invalidation failed")
	}
}

func (s *roleService) GetAllRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := s.cache.FetchJSON(ctx, cache.KeyRoles, &roles, func(context.Context) (interface{}, error) {
		return s.roleRepo.FindAll()
	})
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// resolvePrivileges loads the privileges for codes, rejecting unknown ones.
func (s *roleService) resolvePrivileges(codes []string) ([]model.Privilege, error) {
	codes = uniqueCodes(codes)
	privileges, err := s.privilegeRepo.FindByCodes(codes)
	if err != nil {
		return nil, fmt.Errorf("failed to find privileges: %w", err)
	}
	if len(privileges) != len(codes) {
		return nil, ErrUnknownPrivilege
	}
	return privileges, nil
}

func (s *roleService) CreateRole(ctx context.Context, req *RoleRequest) (*model.Role, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if _, err := s.roleRepo.FindByCode(code); err == nil {
		return nil, ErrRoleCodeExists
	}

	privileges, err := s.resolvePrivileges(req.Privileges)
	if err != nil {
		return nil, err
	}

	role := &model.Role{
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Privileges:  privileges,
	}
	if err := s.roleRepo.Create(role); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return role, nil
}

// UpdateRole edits a role's details and privileges. Users already holding the
// role keep the privileges copied onto them, and active sessions keep the
// permissions captured at login.
func (s *roleService) UpdateRole(ctx context.Context, id uint, req *RoleRequest) (*model.Role, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		return nil, ErrRoleNotFound
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code != role.Code {
		if _, err := s.roleRepo.FindByCode(code); err == nil {
			return nil, ErrRoleCodeExists
		}
	}

	privileges, err := s.resolvePrivileges(req.Privileges)
	if err != nil {
		return nil, err
	}

	role.Code = code
	role.Name = req.Name
	role.Description = req.Description
	if req.Color != "" {
		role.Color = req.Color
	}
	if err := s.roleRepo.Update(role); err != nil {
		return nil, err
	}
	if err := s.roleRepo.ReplacePrivileges(role, privileges); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.roleRepo.FindByID(id)
}

func (s *roleService) DeleteRole(ctx context.Context, id uint) error {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		return ErrRoleNotFound
	}
	if role.Code == model.RoleMasterAdmin {
		return ErrRoleProtected
	}

	n, err := s.userRepo.CountByRole(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w (%d users)", ErrRoleInUse, n)
	}

	if err := s.roleRepo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *roleService) GetPrivilegeMatrix(id uint) (*PrivilegeMatrix, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		return nil, ErrRoleNotFound
	}
	all, err := s.privilegeRepo.FindAll()
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(all))
	for _, p := range all {
		names[p.Code] = p.Name
	}
	selected := role.PrivilegeSet()

	groups := access.GroupPermissionsByModule(model.PrivilegeCodes(all))
	modules := make([]ModuleMatrix, len(groups))
	for i, g := range groups {
		cells := make([]PermissionCell, len(g.Permissions))
		for j, code := range g.Permissions {
			cells[j] = PermissionCell{Code: code, Name: names[code], Selected: access.HasPermission(selected, code)}
		}
		modules[i] = ModuleMatrix{
			Module:      g.Module,
			Permissions: cells,
			Selection:   access.ModuleSelection(selected, g.Permissions),
			AllSelected: access.IsModuleFullySelected(selected, g.Permissions),
		}
	}

	return &PrivilegeMatrix{Role: *role, Modules: modules}, nil
}

func (s *roleService) GetAllPrivileges() ([]model.Privilege, error) {
	return s.privilegeRepo.FindAll()
}

func (s *roleService) GetGroupedPrivileges() ([]access.ModuleGroup, error) {
	all, err := s.privilegeRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return access.GroupPermissionsByModule(model.PrivilegeCodes(all)), nil
}
