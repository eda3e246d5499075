package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"finmemory/internal/dto"
	apierrors "finmemory/internal/errors"
	"finmemory/internal/models"
	"finmemory/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type UserHandlerTestSuite struct {
	suite.Suite
	userRepo *stubUserRepo
	handler  *UserHandler
}

func (s *UserHandlerTestSuite) SetupTest() {
	s.userRepo = &stubUserRepo{}
	s.handler = NewUserHandler(s.userRepo)
}

func TestUserHandlerSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}

func (s *UserHandlerTestSuite) TestCreateUser_Success() {
	var created *models.User
	s.userRepo.CreateFunc = func(user *models.User) error {
		user.ID = uuid.New()
		created = user
		return nil
	}

	body := `{"email": "owner@example.com", "first_name": "Анна", "last_name": "Петрова"}`
	c, rec := newTestContext(http.MethodPost, "/api/v1/users", body)

	s.NoError(s.handler.CreateUser(c))
	s.Equal(http.StatusCreated, rec.Code)

	s.Require().NotNil(created)
	s.Equal("owner@example.com", created.Email)

	var resp struct {
		Data dto.UserResponse `json:"data"`
	}
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("owner@example.com", resp.Data.Email)
	s.Equal("Анна", resp.Data.FirstName)
}

func (s *UserHandlerTestSuite) TestCreateUser_DuplicateEmail() {
	s.userRepo.CreateFunc = func(user *models.User) error {
		return repositories.ErrUserAlreadyExists
	}

	body := `{"email": "owner@example.com"}`
	c, rec := newTestContext(http.MethodPost, "/api/v1/users", body)

	s.NoError(s.handler.CreateUser(c))
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal(string(apierrors.UserAlreadyExists), decodeErrorResponse(s.T(), rec).Error.Code)
}

func (s *UserHandlerTestSuite) TestCreateUser_InvalidEmail() {
	for _, body := range []string{`{"email": "not-an-email"}`, `{}`} {
		c, _ := newTestContext(http.MethodPost, "/api/v1/users", body)

		err := s.handler.CreateUser(c)
		s.Error(err)

		var validationErrs validator.ValidationErrors
		s.ErrorAs(err, &validationErrs)
	}
}

func (s *UserHandlerTestSuite) TestGetUser_Success() {
	userID := uuid.New()
	s.userRepo.GetByIDFunc = func(id uuid.UUID) (*models.User, error) {
		s.Equal(userID, id)
		return &models.User{ID: id, Email: "owner@example.com"}, nil
	}

	c, rec := newTestContext(http.MethodGet, "/api/v1/users/"+userID.String(), "")
	c.SetParamNames("user_id")
	c.SetParamValues(userID.String())

	s.NoError(s.handler.GetUser(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data dto.UserResponse `json:"data"`
	}
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(userID, resp.Data.ID)
}

func (s *UserHandlerTestSuite) TestGetUser_InvalidID() {
	c, rec := newTestContext(http.MethodGet, "/api/v1/users/abc", "")
	c.SetParamNames("user_id")
	c.SetParamValues("abc")

	s.NoError(s.handler.GetUser(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.UserInvalidID), decodeErrorResponse(s.T(), rec).Error.Code)
}

func (s *UserHandlerTestSuite) TestGetUser_NotFound() {
	userID := uuid.New()

	c, rec := newTestContext(http.MethodGet, "/api/v1/users/"+userID.String(), "")
	c.SetParamNames("user_id")
	c.SetParamValues(userID.String())

	s.NoError(s.handler.GetUser(c))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(apierrors.UserNotFound), decodeErrorResponse(s.T(), rec).Error.Code)
}

func (s *UserHandlerTestSuite) TestDeleteUser_Success() {
	userID := uuid.New()
	var deleted uuid.UUID
	s.userRepo.DeleteFunc = func(id uuid.UUID) error {
		deleted = id
		return nil
	}

	c, rec := newTestContext(http.MethodDelete, "/api/v1/users/"+userID.String(), "")
	c.SetParamNames("user_id")
	c.SetParamValues(userID.String())

	s.NoError(s.handler.DeleteUser(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(userID, deleted)
}

func (s *UserHandlerTestSuite) TestDeleteUser_NotFound() {
	userID := uuid.New()
	s.userRepo.DeleteFunc = func(id uuid.UUID) error {
		return repositories.ErrUserNotFound
	}

	c, rec := newTestContext(http.MethodDelete, "/api/v1/users/"+userID.String(), "")
	c.SetParamNames("user_id")
	c.SetParamValues(userID.String())

	s.NoError(s.handler.DeleteUser(c))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(apierrors.UserNotFound), decodeErrorResponse(s.T(), rec).Error.Code)
}
