package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"resto-backoffice/internal/cache"
	"resto-backoffice/internal/model"
)

type UserServiceTestSuite struct {
	suite.Suite
	ctx           context.Context
	userRepo      *MockUserRepository
	roleRepo      *MockRoleRepository
	privilegeRepo *MockPrivilegeRepository
	svc           UserService
	actor         Actor
	staff         *model.Role
}

func (s *UserServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.userRepo = new(MockUserRepository)
	s.roleRepo = new(MockRoleRepository)
	s.privilegeRepo = new(MockPrivilegeRepository)
	s.svc = NewUserService(s.userRepo, s.privilegeRepo, s.roleRepo, cache.NewMemoryCache(time.Minute), zerolog.Nop())
	s.actor = Actor{ID: uuid.NewString(), Name: "Admin"}
	s.staff = &model.Role{ID: 3, Code: model.RoleStaff, Privileges: []model.Privilege{{ID: 1, Code: model.PrivBillingRead}}}
}

func (s *UserServiceTestSuite) TestGetAllUsers_IsCached() {
	users := []model.User{{BaseModel: model.BaseModel{ID: uuid.New()}, Email: "a@example.com"}}
	s.userRepo.On("FindAll").Return(users, nil).Once()

	first, err := s.svc.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	second, err := s.svc.GetAllUsers(s.ctx)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal("a@example.com", second[0].Email)
	s.userRepo.AssertNumberOfCalls(s.T(), "FindAll", 1)
}

func (s *UserServiceTestSuite) TestCreateUser_InvalidatesList() {
	s.userRepo.On("FindAll").Return([]model.User{}, nil).Twice()
	_, err := s.svc.GetAllUsers(s.ctx)
	s.Require().NoError(err)

	s.userRepo.On("FindByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
	s.roleRepo.On("FindByID", uint(3)).Return(s.staff, nil).Once()
	s.userRepo.On("Create", mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "new@example.com" && u.CreatedBy == s.actor.ID &&
			len(u.Privileges) == 1 && u.Password != "password1"
	})).Return(nil).Once()
	s.userRepo.On("FindByID", mock.Anything).Return(&model.User{Email: "new@example.com"}, nil).Once()

	user, err := s.svc.CreateUser(s.ctx, &CreateUserRequest{
		Email: "new@example.com", Password: "password1", FullName: "New", RoleID: 3,
	}, s.actor)
	s.Require().NoError(err)
	s.Equal("new@example.com", user.Email)

	_, err = s.svc.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	s.userRepo.AssertNumberOfCalls(s.T(), "FindAll", 2)
}

func (s *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	s.userRepo.On("FindByEmail", "a@example.com").Return(&model.User{}, nil).Once()

	_, err := s.svc.CreateUser(s.ctx, &CreateUserRequest{
		Email: "a@example.com", Password: "password1", FullName: "A", RoleID: 3,
	}, s.actor)
	s.ErrorIs(err, ErrEmailExists)
}

func (s *UserServiceTestSuite) TestCreateUser_Validation() {
	_, err := s.svc.CreateUser(s.ctx, &CreateUserRequest{Email: "nope", Password: "1", RoleID: 3}, s.actor)
	s.Require().Error(err)
	s.Contains(err.Error(), "validation failed")
}

func (s *UserServiceTestSuite) TestUpdateUser_RoleChangeResetsPrivileges() {
	id := uuid.New()
	oldRole := uint(2)
	existing := &model.User{BaseModel: model.BaseModel{ID: id}, Email: "a@example.com", RoleID: &oldRole}

	s.userRepo.On("FindByID", id).Return(existing, nil)
	s.roleRepo.On("FindByID", uint(3)).Return(s.staff, nil).Once()
	s.userRepo.On("Update", existing).Return(nil).Once()
	s.userRepo.On("UpdatePrivileges", id, s.staff.Privileges).Return(nil).Once()

	_, err := s.svc.UpdateUser(s.ctx, id, &UpdateUserRequest{Email: "a@example.com", FullName: "A", RoleID: 3}, s.actor)
	s.Require().NoError(err)
	s.userRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestUpdateUserPrivileges_UnknownCode() {
	id := uuid.New()
	s.userRepo.On("FindByID", id).Return(&model.User{}, nil).Once()
	s.privilegeRepo.On("FindByCodes", []string{"billing:read", "billing:fly"}).
		Return([]model.Privilege{{Code: "billing:read"}}, nil).Once()

	_, err := s.svc.UpdateUserPrivileges(s.ctx, id, []string{"billing:read", "billing:fly"}, s.actor)
	s.ErrorIs(err, ErrUnknownPrivilege)
	s.userRepo.AssertNotCalled(s.T(), "UpdatePrivileges", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestDeleteUser_Self() {
	self, err := uuid.Parse(s.actor.ID)
	s.Require().NoError(err)
	s.ErrorIs(s.svc.DeleteUser(s.ctx, self, s.actor), ErrDeleteSelf)
}

func (s *UserServiceTestSuite) TestDeleteUser() {
	id := uuid.New()
	s.userRepo.On("FindByID", id).Return(&model.User{}, nil).Once()
	s.userRepo.On("Delete", id, s.actor.ID).Return(nil).Once()

	s.Require().NoError(s.svc.DeleteUser(s.ctx, id, s.actor))
	s.userRepo.AssertExpectations(s.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
