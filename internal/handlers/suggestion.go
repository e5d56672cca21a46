package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"pulsefeed/internal/models"
	"pulsefeed/internal/services"
)

// SuggestionHandler handles the paginated suggested-accounts listing
type SuggestionHandler struct {
	suggestionV2 *services.SuggestionServiceV2
}

// NewSuggestionHandler creates a new SuggestionHandler
func NewSuggestionHandler(suggestionV2 *services.SuggestionServiceV2) *SuggestionHandler {
	return &SuggestionHandler{suggestionV2: suggestionV2}
}

// List serves one page of suggested accounts to follow. Without a cursor it
// computes a fresh ranking; with since_id/until_id it replays the session's
// cached ranking snapshot.
// GET /api/suggestions?since_id=&until_id=&max_results=&fields=
func (h *SuggestionHandler) List(c *fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(string)
	if !ok || accountID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	accessToken, _ := c.Locals("access_token").(string)

	query := &models.PageQuery{
		SinceID: c.Query("since_id"),
		UntilID: c.Query("until_id"),
	}
	if raw := c.Query("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "max_results must be a non-negative integer",
			})
		}
		query.MaxResults = n
	}
	if fields := c.Query("fields"); fields != "" {
		query.Fields = strings.Split(fields, ",")
	}

	auth := services.Authorizer{AccountID: accountID, AccessToken: accessToken}
	page, err := h.suggestionV2.Suggest(c.Context(), auth, query)
	if err != nil {
		if errors.Is(err, services.ErrPredictorUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":     "Suggestions are temporarily unavailable. Please retry.",
				"retryable": true,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load suggestions",
		})
	}

	return c.JSON(page)
}
