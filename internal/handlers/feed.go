package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pulsefeed/internal/services"
)

// FeedHandler handles feed HTTP requests
type FeedHandler struct {
	feedService       *services.FeedService
	seenTracker       *services.SeenTracker
	suggestionService *services.SuggestionService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService, seenTracker *services.SeenTracker, suggestionService *services.SuggestionService) *FeedHandler {
	return &FeedHandler{
		feedService:       feedService,
		seenTracker:       seenTracker,
		suggestionService: suggestionService,
	}
}

// Get assembles the home feed for the authenticated account, records the
// view, and lets the suggestion engine splice in a block when the account is
// due for one.
// GET /api/feed
func (h *FeedHandler) Get(c *fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(string)
	if !ok || accountID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	feed, err := h.feedService.HomeFeed(c.Context(), accountID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to assemble feed",
		})
	}

	h.seenTracker.Seen(c.Context(), accountID)
	feed = h.suggestionService.Suggest(c.Context(), accountID, feed)

	return c.JSON(feed)
}

// CreatePostRequest is the request body for publishing a post
type CreatePostRequest struct {
	Body     string `json:"body"`
	MediaURL string `json:"media_url,omitempty"`
}

// CreatePost publishes a new post authored by the authenticated account
// POST /api/posts
func (h *FeedHandler) CreatePost(c *fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(string)
	if !ok || accountID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Post body is required",
		})
	}

	post, err := h.feedService.CreatePost(c.Context(), accountID, req.Body, req.MediaURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create post",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(post.ToResponse())
}
