package handlers

import (
	"github.com/AmaraKouassi/djassa-coach-be/internal/core/llm"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	llmService *llm.Service
}

func NewHealthHandler(llmService *llm.Service) *HealthHandler {
	return &HealthHandler{llmService: llmService}
}

func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "djassa-coach-api",
		"provider": h.llmService.GetProviderName(),
	})
}
