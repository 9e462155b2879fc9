package handlers

import (
	"github.com/AmaraKouassi/djassa-coach-be/internal/core/audit"
	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	audit *audit.Service
}

func NewAuditHandler(a *audit.Service) *AuditHandler {
	return &AuditHandler{audit: a}
}

var auditedEntities = map[string]bool{
	"sales":    true,
	"expenses": true,
	"debts":    true,
	"products": true,
}

// GetEntityHistory returns every recorded change for one financial record,
// newest first.
func (h *AuditHandler) GetEntityHistory(c *fiber.Ctx) error {
	id, err := boutiqueID(c)
	if err != nil {
		return err
	}

	entity := c.Params("entity")
	if !auditedEntities[entity] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown entity: " + entity,
		})
	}

	logs, err := h.audit.GetEntityHistory(id, entity, c.Params("id"))
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
