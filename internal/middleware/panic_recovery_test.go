package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "finmemory/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type PanicRecoveryTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (s *PanicRecoveryTestSuite) SetupTest() {
	s.echo = echo.New()
}

func TestPanicRecoveryTestSuite(t *testing.T) {
	suite.Run(t, new(PanicRecoveryTestSuite))
}

func (s *PanicRecoveryTestSuite) TestPanicRecovery_ReturnsInternalErrorEnvelope() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.Set(TraceIDContextKey, "trace-panic-1")

	handler := PanicRecovery()(func(c echo.Context) error {
		panic("boom")
	})

	s.NotPanics(func() {
		s.NoError(handler(c))
	})
	s.Equal(http.StatusInternalServerError, rec.Code)

	var resp apierrors.ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(string(apierrors.SystemInternalError), resp.Error.Code)
	s.Equal("trace-panic-1", resp.Error.TraceID)
}

func (s *PanicRecoveryTestSuite) TestPanicRecovery_RecoversFromErrorPanic() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := PanicRecovery()(func(c echo.Context) error {
		panic(errors.New("unexpected state"))
	})

	s.NotPanics(func() {
		s.NoError(handler(c))
	})
	s.Equal(http.StatusInternalServerError, rec.Code)

	var resp apierrors.ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("unknown", resp.Error.TraceID)
}

func (s *PanicRecoveryTestSuite) TestPanicRecovery_PassesThroughNormalRequests() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := PanicRecovery()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	s.NoError(handler(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("ok", rec.Body.String())
}
