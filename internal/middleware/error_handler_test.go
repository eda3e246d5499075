package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"finmemory/internal/dto"
	apierrors "finmemory/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type ErrorHandlerTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (s *ErrorHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
}

func TestErrorHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorHandlerTestSuite))
}

func (s *ErrorHandlerTestSuite) newContext() (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

func (s *ErrorHandlerTestSuite) decode(rec *httptest.ResponseRecorder) apierrors.ErrorResponse {
	var resp apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *ErrorHandlerTestSuite) TestHandlesEchoHTTPError() {
	c, rec := s.newContext()
	c.Set(TraceIDContextKey, "trace-1")

	CustomHTTPErrorHandler(echo.NewHTTPError(http.StatusNotFound, "route not found"), c)

	s.Equal(http.StatusNotFound, rec.Code)
	resp := s.decode(rec)
	s.Equal(string(apierrors.UserNotFound), resp.Error.Code)
	s.Equal("route not found", resp.Error.Message)
	s.Equal("trace-1", resp.Error.TraceID)
}

func (s *ErrorHandlerTestSuite) TestHandlesValidationErrors() {
	c, rec := s.newContext()

	v := validator.New()
	err := v.Struct(dto.CreateUserRequest{Email: "not-an-email"})
	s.Require().Error(err)

	CustomHTTPErrorHandler(err, c)

	s.Equal(http.StatusBadRequest, rec.Code)
	resp := s.decode(rec)
	s.Equal(string(apierrors.ValidationGeneral), resp.Error.Code)
	s.NotEmpty(resp.Error.Details)
	s.Equal("unknown", resp.Error.TraceID)
}

func (s *ErrorHandlerTestSuite) TestHandlesUnknownErrorAsSystemError() {
	c, rec := s.newContext()

	CustomHTTPErrorHandler(errors.New("connection reset"), c)

	s.Equal(http.StatusInternalServerError, rec.Code)
	resp := s.decode(rec)
	s.Equal(string(apierrors.SystemInternalError), resp.Error.Code)
	// Internal details never leak to the client.
	s.NotContains(resp.Error.Message, "connection reset")
}

func (s *ErrorHandlerTestSuite) TestSkipsCommittedResponses() {
	c, rec := s.newContext()
	s.NoError(c.NoContent(http.StatusOK))

	CustomHTTPErrorHandler(errors.New("late error"), c)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *ErrorHandlerTestSuite) TestMapHTTPStatusToErrorCode() {
	testCases := []struct {
		status   int
		expected apierrors.ErrorCode
	}{
		{http.StatusBadRequest, apierrors.ValidationGeneral},
		{http.StatusNotFound, apierrors.UserNotFound},
		{http.StatusMethodNotAllowed, apierrors.ValidationGeneral},
		{http.StatusTooManyRequests, apierrors.SystemRateLimitExceeded},
		{http.StatusInternalServerError, apierrors.SystemInternalError},
		{http.StatusServiceUnavailable, apierrors.SystemServiceUnavailable},
		{http.StatusTeapot, apierrors.SystemUnexpectedError},
	}

	for _, tc := range testCases {
		s.Equal(tc.expected, mapHTTPStatusToErrorCode(tc.status))
	}
}

func (s *ErrorHandlerTestSuite) TestFormatValidationError() {
	v := validator.New()

	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"max=3"`
	}

	err := v.Struct(payload{Name: "too long"})
	validationErrs, ok := err.(validator.ValidationErrors)
	s.Require().True(ok)

	messages := make(map[string]string)
	for _, fieldErr := range validationErrs {
		messages[fieldErr.Field()] = formatValidationError(fieldErr)
	}

	s.Equal("is required", messages["Email"])
	s.Equal("must be at most 3 characters long", messages["Name"])
}
