package historico

import (
	"venttos-backend/internal/database"
	"venttos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/itens/:id/historico
func ListItemHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemID, err := c.ParamsInt("id")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de item inválido")
		}

		var item models.Item
		if err := database.DB.First(&item, itemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		var registros []models.ItemHistory
		if err := database.DB.Where("item_id = ?", itemID).Order("created_at").Find(&registros).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao consultar o histórico")
		}

		return c.JSON(fiber.Map{
			"item_id":   item.ID,
			"status":    item.Status,
			"historico": registros,
		})
	}
}
