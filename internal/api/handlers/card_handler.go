package handlers

import (
	"errors"

	"tapright/internal/dto"
	"tapright/internal/models"
	"tapright/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CardHandler struct {
	cards   *repository.CardRepository
	wallets *repository.WalletRepository
	logger  *zap.Logger
}

func NewCardHandler(cards *repository.CardRepository, wallets *repository.WalletRepository, logger *zap.Logger) *CardHandler {
	return &CardHandler{
		cards:   cards,
		wallets: wallets,
		logger:  logger,
	}
}

// ListCatalog godoc
// @Summary List the card catalog
// @Tags cards
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CardResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/cards [get]
func (h *CardHandler) ListCatalog(c *fiber.Ctx) error {
	cards, err := h.cards.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list cards", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list cards",
		})
	}

	return c.JSON(toCardResponses(cards))
}

// ListWallet godoc
// @Summary List the user's wallet
// @Tags cards
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CardResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/wallet [get]
func (h *CardHandler) ListWallet(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	cards, err := h.wallets.ListByUser(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list wallet", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list wallet",
		})
	}

	return c.JSON(toCardResponses(cards))
}

// AddToWallet godoc
// @Summary Add a catalog card to the user's wallet
// @Tags cards
// @Accept json
// @Produce json
// @Param request body dto.AddCardRequest true "Catalog card ID"
// @Security Bearer
// @Success 201 {object} dto.CardResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/wallet [post]
func (h *CardHandler) AddToWallet(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.AddCardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid card ID",
		})
	}

	card, err := h.cards.GetByID(c.Context(), cardID)
	if err != nil {
		h.logger.Error("Failed to load card", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load card",
		})
	}
	if card == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Card not found",
		})
	}

	if err := h.wallets.Add(c.Context(), userID, cardID); err != nil {
		h.logger.Error("Failed to add card to wallet", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add card to wallet",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(toCardResponse(card))
}

// RemoveFromWallet godoc
// @Summary Remove a card from the user's wallet
// @Tags cards
// @Produce json
// @Param id path string true "Catalog card ID"
// @Security Bearer
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/wallet/{id} [delete]
func (h *CardHandler) RemoveFromWallet(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid card ID",
		})
	}

	if err := h.wallets.Remove(c.Context(), userID, cardID); err != nil {
		if errors.Is(err, repository.ErrNotInWallet) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Card not in wallet",
			})
		}
		h.logger.Error("Failed to remove card from wallet", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove card from wallet",
		})
	}

	return c.JSON(fiber.Map{"message": "Card removed from wallet"})
}

func toCardResponse(card *models.Card) dto.CardResponse {
	return dto.CardResponse{
		ID:        card.ID.String(),
		Name:      card.Name,
		Issuer:    card.Issuer,
		Color:     card.Color,
		Rewards:   card.Rewards,
		AnnualFee: card.AnnualFee,
	}
}

func toCardResponses(cards []*models.Card) []dto.CardResponse {
	out := make([]dto.CardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, toCardResponse(card))
	}
	return out
}
