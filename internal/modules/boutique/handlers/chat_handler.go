package handlers

import (
	"strconv"
	"strings"

	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const boutiqueHeader = "X-Boutique-ID"

type ChatHandler struct {
	assistant *services.AssistantService
}

func NewChatHandler(assistant *services.AssistantService) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// boutiqueID reads the tenant scope from the request header.
func boutiqueID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Get(boutiqueHeader)
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing "+boutiqueHeader+" header")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+boutiqueHeader+" header")
	}
	return id, nil
}

// PostMessage handles one assistant turn.
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	id, err := boutiqueID(c)
	if err != nil {
		return err
	}

	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	resp, err := h.assistant.HandleMessage(c.Context(), id, &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(resp)
}

// GetHistory returns the most recent stored turns in chronological order.
func (h *ChatHandler) GetHistory(c *fiber.Ctx) error {
	id, err := boutiqueID(c)
	if err != nil {
		return err
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	logs, err := h.assistant.History(id, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"history": logs,
		"count":   len(logs),
	})
}

// ClearHistory deletes every stored turn for the boutique.
func (h *ChatHandler) ClearHistory(c *fiber.Ctx) error {
	id, err := boutiqueID(c)
	if err != nil {
		return err
	}

	deleted, err := h.assistant.ClearHistory(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"deleted": deleted,
	})
}
