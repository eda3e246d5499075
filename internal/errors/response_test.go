package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_Defaults() {
	resp := NewErrorResponse(UserNotFound, "trace-42")

	s.Equal("USER_001", resp.Error.Code)
	s.Equal("User not found", resp.Error.Message)
	s.Equal("trace-42", resp.Error.TraceID)
	s.Empty(resp.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_WithOptions() {
	resp := NewErrorResponse(ValidationGeneral, "trace-1",
		WithMessage("custom message"),
		WithDetails("amount: must be greater than 0"),
	)

	s.Equal("custom message", resp.Error.Message)
	s.Equal([]string{"amount: must be greater than 0"}, resp.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError() {
	resp := NewValidationError(map[string]string{"email": "must be a valid email address"}, "trace-7")

	s.Equal(string(ValidationGeneral), resp.Error.Code)
	s.Len(resp.Error.Details, 1)
	s.Equal("email: must be a valid email address", resp.Error.Details[0])
}

func (s *ResponseTestSuite) TestWrapSystemError_HidesInternalDetails() {
	internal := errors.New("pq: connection refused")
	resp, err := WrapSystemError(internal, "trace-9")

	s.Equal(internal, err)
	s.Equal(string(SystemInternalError), resp.Error.Code)
	s.NotContains(resp.Error.Message, "connection refused")
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	testCases := []struct {
		code     ErrorCode
		expected int
	}{
		{ValidationGeneral, http.StatusBadRequest},
		{ValidationInvalidDate, http.StatusBadRequest},
		{UserInvalidID, http.StatusBadRequest},
		{TransactionInvalidAmount, http.StatusBadRequest},
		{UserNotFound, http.StatusNotFound},
		{TransactionNotFound, http.StatusNotFound},
		{UserAlreadyExists, http.StatusUnprocessableEntity},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{AdviceUnavailable, http.StatusServiceUnavailable},
		{SystemServiceUnavailable, http.StatusServiceUnavailable},
		{AdviceGenerationFailed, http.StatusBadGateway},
		{SystemInternalError, http.StatusInternalServerError},
		{MemoryComputeFailed, http.StatusInternalServerError},
		{ErrorCode("UNKNOWN_001"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Equal(tc.expected, GetHTTPStatus(tc.code), string(tc.code))
	}
}

func (s *ResponseTestSuite) TestClientAndServerErrorClassification() {
	s.True(NewErrorResponse(UserNotFound, "t").IsClientError())
	s.False(NewErrorResponse(UserNotFound, "t").IsServerError())

	s.True(NewErrorResponse(SystemInternalError, "t").IsServerError())
	s.False(NewErrorResponse(SystemInternalError, "t").IsClientError())
}

func (s *ResponseTestSuite) TestToJSONRoundTrip() {
	resp := NewErrorResponse(AdviceUnavailable, "trace-3", WithDetails("circuit open"))

	raw, err := resp.ToJSON()
	s.Require().NoError(err)

	var decoded ErrorResponse
	s.Require().NoError(json.Unmarshal(raw, &decoded))
	s.Equal(resp.Error.Code, decoded.Error.Code)
	s.Equal(resp.Error.Details, decoded.Error.Details)
}

func (s *ResponseTestSuite) TestString() {
	resp := NewErrorResponse(UserNotFound, "trace-5")
	s.Equal("[USER_001] User not found (trace: trace-5)", resp.String())
}
