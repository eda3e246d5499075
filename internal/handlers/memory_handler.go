package handlers

import (
	"net/http"

	stderrors "errors"

	"finmemory/internal/dto"
	"finmemory/internal/errors"
	"finmemory/internal/repositories"
	"finmemory/internal/services"

	"github.com/labstack/echo/v4"
)

// MemoryHandler serves the financial memory snapshot and its derivatives:
// generated advice, the profit forecast and rule-based recommendations.
type MemoryHandler struct {
	memoryService         services.MemoryServiceInterface
	advisorService        services.AdvisorServiceInterface
	forecastService       services.ForecastServiceInterface
	recommendationService services.RecommendationServiceInterface
	userRepo              repositories.UserRepositoryInterface
	transactionRepo       repositories.TransactionRepositoryInterface
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(
	memoryService services.MemoryServiceInterface,
	advisorService services.AdvisorServiceInterface,
	forecastService services.ForecastServiceInterface,
	recommendationService services.RecommendationServiceInterface,
	userRepo repositories.UserRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
) *MemoryHandler {
	return &MemoryHandler{
		memoryService:         memoryService,
		advisorService:        advisorService,
		forecastService:       forecastService,
		recommendationService: recommendationService,
		userRepo:              userRepo,
		transactionRepo:       transactionRepo,
	}
}

// GetMemory returns the user's financial memory snapshot.
// Pass ?refresh=true to force recomputation instead of serving the cache.
func (h *MemoryHandler) GetMemory(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	forceRefresh := c.QueryParam("refresh") == "true"

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	fromCache := !forceRefresh && user.HasCachedMemory()

	memory, err := h.memoryService.GetFinancialMemory(userID, forceRefresh)
	if err != nil {
		return SendSystemError(c, err)
	}

	response := dto.MemoryResponse{
		Memory:    memory,
		FromCache: fromCache,
		UpdatedAt: user.MemoryUpdatedAt,
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: response})
}

// GenerateAdvice runs the advisor pipeline: prompt assembly, the external
// generation call and reply parsing.
func (h *MemoryHandler) GenerateAdvice(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	var req dto.AdviceRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.advisorService.GenerateAdvice(c.Request().Context(), userID, req.ExtraContext)
	if err != nil {
		if stderrors.Is(err, services.ErrAdviceUnavailable) {
			return SendError(c, errors.AdviceUnavailable)
		}
		if stderrors.Is(err, repositories.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendError(c, errors.AdviceGenerationFailed)
	}

	response := dto.AdviceResponse{
		Reply:       result.Reply,
		ActionItems: result.Items,
		GeneratedAt: result.GeneratedAt,
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: response})
}

// GetForecast returns the least-squares next-month profit extrapolation
func (h *MemoryHandler) GetForecast(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	transactions, err := h.transactionRepo.ListAllByUser(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	forecast := h.forecastService.ForecastNextMonthProfit(transactions)

	response := dto.ForecastResponse{
		Forecast: forecast,
		HasData:  forecast != nil,
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: response})
}

// GetRecommendations returns rule-based textual advice
func (h *MemoryHandler) GetRecommendations(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	transactions, err := h.transactionRepo.ListAllByUser(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	response := dto.RecommendationsResponse{
		Recommendations: h.recommendationService.BuildRecommendations(transactions),
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: response})
}
