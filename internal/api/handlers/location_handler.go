package handlers

import (
	"tapright/internal/dto"
	"tapright/internal/models"
	"tapright/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LocationHandler struct {
	planner *service.Planner
	logger  *zap.Logger
}

func NewLocationHandler(planner *service.Planner, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		planner: planner,
		logger:  logger,
	}
}

// CheckLocation godoc
// @Summary Evaluate a position update
// @Description Resolve the nearest merchant, dedup the visit and pick the best wallet card for its category
// @Tags location
// @Accept json
// @Produce json
// @Param request body dto.LocationCheckRequest true "Device coordinates"
// @Security Bearer
// @Success 200 {object} dto.DecisionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/location/check [post]
func (h *LocationHandler) CheckLocation(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.LocationCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid coordinates",
		})
	}

	decision := h.planner.Evaluate(c.Context(), userID, models.Coordinate{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})

	return c.JSON(toDecisionResponse(decision))
}

// GetInsights godoc
// @Summary Visit trends and card suggestions
// @Description Aggregate the trailing 30 days of visits into category trends and up to 3 diversified catalog suggestions
// @Tags location
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.InsightsResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/insights [get]
func (h *LocationHandler) GetInsights(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	result, err := h.planner.Insights(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build insights", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build insights",
		})
	}

	return c.JSON(toInsightsResponse(result))
}

func toDecisionResponse(decision *models.Decision) dto.DecisionResponse {
	resp := dto.DecisionResponse{
		Found:         decision.Found,
		Throttled:     decision.Throttled,
		NoInstruments: decision.NoInstruments,
		NoMatch:       decision.NoMatch,
	}
	if rec := decision.Recommendation; rec != nil {
		resp.Recommendation = &dto.RecommendationResponse{
			MerchantName: rec.MerchantName,
			Category:     string(rec.Category),
			CardName:     rec.CardName,
			RateText:     rec.RateText,
			Message:      rec.Message,
		}
	}
	return resp
}

func toInsightsResponse(result *service.InsightsResult) dto.InsightsResponse {
	resp := dto.InsightsResponse{
		Trends:      make([]dto.TrendResponse, 0, len(result.Trends)),
		Suggestions: make([]dto.SuggestionResponse, 0, len(result.Suggestions)),
	}
	for _, trend := range result.Trends {
		resp.Trends = append(resp.Trends, dto.TrendResponse{
			Category:   string(trend.Category),
			VisitCount: trend.VisitCount,
		})
	}
	for _, s := range result.Suggestions {
		resp.Suggestions = append(resp.Suggestions, dto.SuggestionResponse{
			Card:   toCardResponse(s.Card),
			Reason: s.Reason,
			Rate:   s.Rate,
		})
	}
	return resp
}

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}
