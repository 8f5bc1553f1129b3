package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"resto-backoffice/internal/model"
	"resto-backoffice/pkg/jwt"
)

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	events   *recordingBroadcaster
	svc      *authService
	user     *model.User
	clock    time.Time
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.userRepo = new(MockUserRepository)
	s.events = &recordingBroadcaster{}
	s.clock = time.Now()

	svc := NewAuthService(s.userRepo, jwt.NewManager("test-secret", time.Hour, "test"), 5*time.Minute, s.events, zerolog.Nop())
	s.svc = svc.(*authService)
	s.svc.now = func() time.Time { return s.clock }

	s.user = &model.User{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Email:     "anna@example.com",
		FullName:  "Anna",
		IsActive:  true,
		Role:      &model.Role{Code: model.RoleStaff},
		Privileges: []model.Privilege{
			{Code: model.PrivBillingRead},
			{Code: model.PrivBillingCreate},
		},
	}
	s.Require().NoError(s.user.SetPassword("secret123"))
}

func (s *AuthServiceTestSuite) login() string {
	s.userRepo.On("FindByEmail", "anna@example.com").Return(s.user, nil).Once()
	s.userRepo.On("Update", s.user).Return(nil).Once()

	resp, err := s.svc.Login("anna@example.com", "secret123")
	s.Require().NoError(err)
	return resp.Token
}

func (s *AuthServiceTestSuite) TestLogin_CapturesPrivileges() {
	token := s.login()

	s.userRepo.On("FindByID", s.user.ID).Return(s.user, nil)
	principal, err := s.svc.Authenticate(token)
	s.Require().NoError(err)

	s.Equal(s.user.ID, principal.UserID())
	s.Equal(model.RoleStaff, principal.RoleCode())
	s.True(principal.Can(model.PrivBillingCreate))
	s.True(principal.CanAccess(model.ModuleBilling))
	s.False(principal.CanAccess(model.ModuleUsers))
}

func (s *AuthServiceTestSuite) TestLogin_StalePermissionsUntilRelogin() {
	token := s.login()

	// an admin grants export after the session started
	s.user.Privileges = append(s.user.Privileges, model.Privilege{Code: model.PrivBillingExport})
	s.userRepo.On("FindByID", s.user.ID).Return(s.user, nil)

	principal, err := s.svc.Authenticate(token)
	s.Require().NoError(err)
	s.False(principal.Can(model.PrivBillingExport))
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	s.userRepo.On("FindByEmail", "anna@example.com").Return(s.user, nil).Once()

	_, err := s.svc.Login("anna@example.com", "nope")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.userRepo.AssertNotCalled(s.T(), "Update", mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	s.userRepo.On("FindByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound).Once()

	_, err := s.svc.Login("ghost@example.com", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_Inactive() {
	s.user.IsActive = false
	s.userRepo.On("FindByEmail", "anna@example.com").Return(s.user, nil).Once()

	_, err := s.svc.Login("anna@example.com", "secret123")
	s.ErrorIs(err, ErrUserInactive)
}

func (s *AuthServiceTestSuite) TestAuthenticate_ReplacedSession() {
	token := s.login()
	s.user.TokenVersion = "newer-login"
	s.userRepo.On("FindByID", s.user.ID).Return(s.user, nil)

	_, err := s.svc.Authenticate(token)
	s.ErrorIs(err, ErrSessionReplaced)
}

func (s *AuthServiceTestSuite) TestAuthenticate_GarbageToken() {
	_, err := s.svc.Authenticate("not-a-token")
	s.ErrorIs(err, jwt.ErrInvalidToken)
}

func (s *AuthServiceTestSuite) TestValidateToken_IdleTimeout() {
	token := s.login()
	s.userRepo.On("FindByID", s.user.ID).Return(s.user, nil)

	resp, err := s.svc.ValidateToken(token)
	s.Require().NoError(err)
	s.Equal([]string{model.PrivBillingRead, model.PrivBillingCreate}, resp.Privileges)

	s.clock = s.clock.Add(6 * time.Minute)
	_, err = s.svc.ValidateToken(token)
	s.ErrorIs(err, ErrSessionTimeout)
}

func (s *AuthServiceTestSuite) TestResetPassword_SignsOutEverywhere() {
	s.userRepo.On("FindByEmail", "anna@example.com").Return(s.user, nil).Once()
	s.userRepo.On("UpdatePassword", s.user.ID, mock.AnythingOfType("string")).Return(nil).Once()
	s.userRepo.On("UpdateTokenVersion", s.user.ID, mock.AnythingOfType("string")).Return(nil).Once()

	s.Require().NoError(s.svc.ResetPassword("anna@example.com", "secret123", "brandnew1"))
	s.True(s.user.CheckPassword("brandnew1"))
	s.userRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestResetPassword_WrongOld() {
	s.userRepo.On("FindByEmail", "anna@example.com").Return(s.user, nil).Once()
	s.ErrorIs(s.svc.ResetPassword("anna@example.com", "guess", "brandnew1"), ErrWrongPassword)
}

func (s *AuthServiceTestSuite) TestHeartbeat_BroadcastsPresence() {
	s.userRepo.On("UpdateLastSeen", s.user.ID).Return(nil).Once()

	s.Require().NoError(s.svc.Heartbeat(s.user.ID))
	s.Require().Len(s.events.events, 1)
	s.Equal("user_status_update", s.events.events[0]["type"])
	s.Equal(s.user.ID.String(), s.events.events[0]["user_id"])
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
