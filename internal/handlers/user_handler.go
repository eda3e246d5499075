package handlers

import (
	"net/http"

	stderrors "errors"

	"finmemory/internal/dto"
	"finmemory/internal/errors"
	"finmemory/internal/models"
	"finmemory/internal/repositories"

	"github.com/labstack/echo/v4"
)

// UserHandler handles user profile management
type UserHandler struct {
	userRepo repositories.UserRepositoryInterface
}

// NewUserHandler creates a new user handler
func NewUserHandler(userRepo repositories.UserRepositoryInterface) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// CreateUser registers a new profile
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := &models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := h.userRepo.Create(user); err != nil {
		if stderrors.Is(err, repositories.ErrUserAlreadyExists) {
			return SendError(c, errors.UserAlreadyExists)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    dto.NewUserResponse(user),
		Message: "User created successfully",
	})
}

// GetUser returns a profile by its ID
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: dto.NewUserResponse(user)})
}

// DeleteUser soft-deletes a profile
func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	if err := h.userRepo.Delete(userID); err != nil {
		if stderrors.Is(err, repositories.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "User deleted successfully",
	})
}
